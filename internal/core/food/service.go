package food

import (
	"context"
	"time"

	"calorie-search/internal/core/cache"
	"calorie-search/internal/infrastructure/config"
	"calorie-search/internal/pkg/common"

	"go.uber.org/zap"
)

// SearchService 食物熱量搜尋服務
// 每次請求建立新的局部狀態，請求之間不共享可變狀態
type SearchService struct {
	config       *config.Config
	cascade      *cascade
	cacheManager *cache.Manager
}

// NewSearchService 創建搜尋服務
func NewSearchService(cfg *config.Config, usda, edamam Provider, estimator Estimator, cacheManager *cache.Manager) *SearchService {
	return &SearchService{
		config:       cfg,
		cascade:      newCascade(usda, edamam, estimator, cfg.Search.MinResults, cfg.Search.MaxResults),
		cacheManager: cacheManager,
	}
}

// Search 搜尋食物熱量：正規化 → 快取 → 串接資料源 → 快取回填
// 永不回傳 error：資料源全部失敗時由後備估算器保底
func (s *SearchService) Search(ctx context.Context, query string) []common.FoodRecord {
	start := time.Now()

	// 每次資料源調用前都先正規化，確保各資料源看到一致的查詢
	normalized := NormalizeQuery(query)

	common.LogInfo("開始處理食物搜尋請求",
		zap.String("query", query),
		zap.String("normalized", normalized),
	)

	// 檢查快取
	if s.cacheManager != nil {
		if records, err := s.cacheManager.Get(ctx, normalized); err == nil {
			common.LogCacheHit("food_search", normalized)
			return records
		}
		common.LogCacheMiss("food_search", normalized)
	}

	records := s.cascade.run(ctx, normalized)

	if s.cacheManager != nil && len(records) > 0 {
		if err := s.cacheManager.Set(ctx, normalized, records); err != nil {
			common.LogWarn("快取寫入失敗", zap.Error(err))
		}
	}

	common.LogInfo("食物搜尋完成",
		zap.String("normalized", normalized),
		zap.Int("items", len(records)),
		zap.Duration("耗時", time.Since(start)),
	)

	return records
}
