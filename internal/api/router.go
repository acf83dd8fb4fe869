package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	foodHandler "calorie-search/internal/api/handlers/food"
	"calorie-search/internal/api/handlers/health"
	"calorie-search/internal/api/middleware"
	"calorie-search/internal/core/cache"
	"calorie-search/internal/core/estimator"
	"calorie-search/internal/core/food"
	"calorie-search/internal/core/provider/edamam"
	"calorie-search/internal/core/provider/usda"
	"calorie-search/internal/core/service"
	"calorie-search/internal/infrastructure/config"
	"calorie-search/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置：三個外部資料源依序查詢的總預算
	timeoutDuration = 60 * time.Second
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.Manager) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置：允許任意來源的 GET 與 OPTIONS 預檢
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		MaxAge:       12 * time.Hour,
	}))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 重複請求抑制（預設停用）
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int("search_min_results", cfg.Search.MinResults),
		zap.Int("search_max_results", cfg.Search.MaxResults),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化外部資料源客戶端
	usdaClient := usda.NewClient(cfg)
	edamamClient := edamam.NewClient(cfg)

	// 初始化後備估算器
	openRouterSvc := service.NewOpenRouterService(cfg)
	fallbackEstimator := estimator.NewEstimator(openRouterSvc)

	// 初始化搜尋服務
	searchService := food.NewSearchService(cfg, usdaClient, edamamClient, fallbackEstimator, cacheManager)
	if searchService == nil {
		common.LogError("Failed to initialize search service")
		return nil, fmt.Errorf("failed to initialize search service")
	}

	common.LogInfo("Search service initialized successfully",
		zap.Bool("usda_configured", cfg.USDA.APIKey != ""),
		zap.Bool("edamam_configured", cfg.Edamam.AppID != "" && cfg.Edamam.AppKey != ""),
		zap.Bool("openrouter_configured", cfg.OpenRouter.APIKey != ""),
	)

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// 設置配置與快取管理員（供健康檢查使用）
		c.Set("config", cfg)
		c.Set("cache_manager", cacheManager)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		searchHandler := foodHandler.NewHandler(searchService)

		// 食物熱量搜尋
		foodGroup := api.Group("/food")
		{
			foodGroup.GET("/search", searchHandler.HandleSearch)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Duration("timeout", timeoutDuration),
	)

	return router, nil
}
