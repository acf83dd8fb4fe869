package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	USDA        USDAConfig       `mapstructure:"usda"`
	Edamam      EdamamConfig     `mapstructure:"edamam"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	Search      SearchConfig     `mapstructure:"search"`
	Cache       CacheConfig      `mapstructure:"cache"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// USDAConfig USDA FoodData Central 配置
// APIKey 為空時該資料源降級為 no-op（回傳空列表）
type USDAConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	PageSize int           `mapstructure:"page_size"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// EdamamConfig Edamam Food Database 配置
// AppID/AppKey 任一為空時該資料源降級為 no-op
type EdamamConfig struct {
	AppID    string        `mapstructure:"app_id"`
	AppKey   string        `mapstructure:"app_key"`
	BaseURL  string        `mapstructure:"base_url"`
	MaxHints int           `mapstructure:"max_hints"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SearchConfig 搜尋串接設定
// MinResults：累計不足此數才查下一個資料源；MaxResults：回應筆數上限
type SearchConfig struct {
	MinResults int `mapstructure:"min_results"`
	MaxResults int `mapstructure:"max_results"`
}

// CacheConfig 緩存配置
// RedisAddr 非空時使用 Redis，否則使用記憶體緩存
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量（憑證不使用前綴）
	viper.BindEnv("usda.api_key", "USDA_API_KEY")
	viper.BindEnv("edamam.app_id", "EDAMAM_APP_ID")
	viper.BindEnv("edamam.app_key", "EDAMAM_APP_KEY")
	viper.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	viper.BindEnv("openrouter.model", "OPENROUTER_MODEL")
	viper.BindEnv("search.min_results", "SEARCH_MIN_RESULTS")
	viper.BindEnv("search.max_results", "SEARCH_MAX_RESULTS")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.redis_addr", "CACHE_REDIS_ADDR")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 添加調試日誌（logger 尚未初始化，改用 fmt.Println）
	fmt.Println("Loading configuration",
		"usda_api_key:", MaskAPIKey(viper.GetString("usda.api_key")),
		"edamam_app_id:", MaskAPIKey(viper.GetString("edamam.app_id")),
		"openrouter_api_key:", MaskAPIKey(viper.GetString("openrouter.api_key")),
		"openrouter_model:", viper.GetString("openrouter.model"))

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if key == "" {
		return "(unset)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "calorie-search")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// USDA 設定
	viper.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc/v1")
	viper.SetDefault("usda.page_size", 10)
	viper.SetDefault("usda.timeout", "10s")

	// Edamam 設定
	viper.SetDefault("edamam.base_url", "https://api.edamam.com/api/food-database/v2")
	viper.SetDefault("edamam.max_hints", 10)
	viper.SetDefault("edamam.timeout", "10s")

	// OpenRouter 設定
	viper.SetDefault("openrouter.model", "openai/gpt-4o-mini")
	viper.SetDefault("openrouter.max_tokens", 16)
	viper.SetDefault("openrouter.timeout", "20s")

	// 搜尋串接設定
	viper.SetDefault("search.min_results", 6)
	viper.SetDefault("search.max_results", 10)

	// 快取設定
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.redis_addr", "")
	viper.SetDefault("cache.max_size", 1000)
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.cleanup_interval", "10m")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 重複請求抑制窗口（0 表示停用）
	viper.SetDefault("dedup_window", "0s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證搜尋串接設定
	if config.Search.MaxResults <= 0 {
		return fmt.Errorf("invalid search max results")
	}
	if config.Search.MinResults <= 0 || config.Search.MinResults > config.Search.MaxResults {
		return fmt.Errorf("invalid search min results")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.RedisAddr == "" && config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.RedisAddr == "" && config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	return nil
}
