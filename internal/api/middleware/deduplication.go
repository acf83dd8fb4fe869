package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"calorie-search/internal/infrastructure/config"
)

var (
	// 請求緩存，用於抑制短時間內的重複請求
	requestCache = struct {
		sync.RWMutex
		requests map[string]time.Time
	}{
		requests: make(map[string]time.Time),
	}

	// 啟動自動清理 goroutine（只啟動一次）
	cleanupOnce sync.Once
)

// 啟動自動清理 goroutine
func startDeduplicationCleanup(window time.Duration) {
	cleanupOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(10 * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				now := time.Now()
				requestCache.Lock()
				for k, t := range requestCache.requests {
					if now.Sub(t) > 10*window {
						delete(requestCache.requests, k)
					}
				}
				requestCache.Unlock()
			}
		}()
	})
}

// Deduplication 重複請求抑制中間件
// 以 method + path + query string 作為指紋，抑制設定窗口內的重複請求
// dedup_window 為 0 時停用（預設）
func Deduplication(cfg *config.Config) gin.HandlerFunc {
	if cfg == nil || cfg.DedupWindow <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	dedupWindow := cfg.DedupWindow
	startDeduplicationCleanup(dedupWindow)

	return func(c *gin.Context) {
		// 生成請求指紋
		raw := c.Request.Method + ":" + c.Request.URL.Path + ":" + c.Request.URL.RawQuery
		hash := sha256.Sum256([]byte(raw))
		fingerprint := hex.EncodeToString(hash[:])

		// 檢查是否是重複請求
		now := time.Now()
		requestCache.RLock()
		lastTime, exists := requestCache.requests[fingerprint]
		requestCache.RUnlock()
		if exists && now.Sub(lastTime) <= dedupWindow {
			c.JSON(429, gin.H{
				"error": "Request too frequent",
				"code":  "TOO_MANY_REQUESTS",
			})
			c.Abort()
			return
		}

		// 記錄請求
		requestCache.Lock()
		requestCache.requests[fingerprint] = now
		requestCache.Unlock()

		c.Next()
	}
}
