package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"calorie-search/internal/infrastructure/config"
	"calorie-search/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Manager 搜尋結果緩存管理器
// 以正規化後的查詢為鍵，整串結果列表為值
// 設定了 redis_addr 時使用 Redis，否則使用記憶體緩存
type Manager struct {
	config *config.Config
	redis  *redis.Client
	mu     sync.RWMutex
	store  map[string]cacheEntry
	stats  cacheStats
}

// cacheEntry 記憶體緩存條目
type cacheEntry struct {
	records    []common.FoodRecord
	expiresAt  time.Time
	lastAccess time.Time
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewManager 創建緩存管理器，快取停用時回傳 nil
func NewManager(cfg *config.Config) *Manager {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	m := &Manager{
		config: cfg,
		store:  make(map[string]cacheEntry),
	}

	if cfg.Cache.RedisAddr != "" {
		m.redis = redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
		})
		// 連線失敗時退回記憶體緩存，不阻止服務啟動
		if err := m.redis.Ping(context.Background()).Err(); err != nil {
			common.LogWarn("Redis 連線失敗，改用記憶體緩存",
				zap.String("addr", cfg.Cache.RedisAddr),
				zap.Error(err),
			)
			m.redis = nil
		}
	}

	if m.redis == nil {
		// 啟動清理過期緩存的協程
		go m.startCleanup()
	}

	common.LogInfo("快取管理員已初始化",
		zap.Bool("redis", m.redis != nil),
		zap.Int("最大容量", cfg.Cache.MaxSize),
		zap.Duration("存活時間", cfg.Cache.TTL),
	)

	return m
}

// Get 取得查詢的緩存結果
func (m *Manager) Get(ctx context.Context, query string) ([]common.FoodRecord, error) {
	key := m.generateKey(query)

	if m.redis != nil {
		return m.getRedis(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[key]
	if !exists {
		m.stats.misses++
		return nil, common.ErrCacheMiss
	}

	// 檢查是否過期
	if time.Now().After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		return nil, common.ErrCacheMiss
	}

	entry.lastAccess = time.Now()
	m.store[key] = entry
	m.stats.hits++
	return entry.records, nil
}

// Set 寫入查詢的緩存結果
func (m *Manager) Set(ctx context.Context, query string, records []common.FoodRecord) error {
	key := m.generateKey(query)

	if m.redis != nil {
		return m.setRedis(ctx, key, records)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// 檢查緩存大小，先清理過期項目，仍滿則執行 LRU 淘汰
	if len(m.store) >= m.config.Cache.MaxSize {
		m.cleanupLocked()
		if len(m.store) >= m.config.Cache.MaxSize {
			m.evictLRULocked()
		}
		if len(m.store) >= m.config.Cache.MaxSize {
			return common.ErrCacheFull
		}
	}

	now := time.Now()
	m.store[key] = cacheEntry{
		records:    records,
		expiresAt:  now.Add(m.config.Cache.TTL),
		lastAccess: now,
	}
	return nil
}

// getRedis 從 Redis 取得緩存
func (m *Manager) getRedis(ctx context.Context, key string) ([]common.FoodRecord, error) {
	data, err := m.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, common.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var records []common.FoodRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache: %w", err)
	}
	return records, nil
}

// setRedis 寫入 Redis 緩存
func (m *Manager) setRedis(ctx context.Context, key string, records []common.FoodRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	if err := m.redis.Set(ctx, key, data, m.config.Cache.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// generateKey 生成緩存鍵
func (m *Manager) generateKey(query string) string {
	hash := sha256.Sum256([]byte(query))
	return fmt.Sprintf("food:search:%s", hex.EncodeToString(hash[:]))
}

// startCleanup 啟動清理過期緩存的協程
func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.config.Cache.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		m.cleanupLocked()
		m.mu.Unlock()
	}
}

// cleanupLocked 清理過期的緩存，呼叫方須持有鎖
func (m *Manager) cleanupLocked() {
	now := time.Now()
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			m.stats.evictions++
		}
	}
}

// evictLRULocked 淘汰最久未使用的條目，呼叫方須持有鎖
func (m *Manager) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time

	for key, entry := range m.store {
		if oldestKey == "" || entry.lastAccess.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = entry.lastAccess
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
	}
}

// GetStats 獲取緩存統計信息
func (m *Manager) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.stats.hits + m.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(m.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"backend":   m.backendName(),
		"size":      len(m.store),
		"max_size":  m.config.Cache.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"hit_ratio": hitRatio,
	}
}

func (m *Manager) backendName() string {
	if m.redis != nil {
		return "redis"
	}
	return "memory"
}

// Close 關閉緩存管理器
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}

	if m.redis != nil {
		return m.redis.Close()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]cacheEntry)
	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
	)
	return nil
}
