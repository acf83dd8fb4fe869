package food

import (
	"context"

	"calorie-search/internal/pkg/common"

	"go.uber.org/zap"
)

// Provider 外部營養資料源
// 實作必須 fail-soft：任何錯誤都回傳空列表，不得回傳 error
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) []common.FoodRecord
}

// Estimator 後備估算器，保證回傳恰好一筆紀錄
type Estimator interface {
	Estimate(ctx context.Context, query string) common.FoodRecord
}

// stage 串接階段：累計筆數滿足 runIf 才執行
type stage struct {
	name  string
	runIf func(accumulated int) bool
	fetch func(ctx context.Context, query string) []common.FoodRecord
}

// cascade 依優先序執行各階段並彙整結果
type cascade struct {
	stages     []stage
	maxResults int
}

// newCascade 建立串接：USDA → Edamam（不足門檻時）→ 後備估算（零筆時）
func newCascade(usda, edamam Provider, estimator Estimator, minResults, maxResults int) *cascade {
	return &cascade{
		maxResults: maxResults,
		stages: []stage{
			{
				name:  usda.Name(),
				runIf: func(int) bool { return true },
				fetch: usda.Search,
			},
			{
				name:  edamam.Name(),
				runIf: func(n int) bool { return n < minResults },
				fetch: edamam.Search,
			},
			{
				name:  "estimator",
				runIf: func(n int) bool { return n == 0 },
				fetch: func(ctx context.Context, query string) []common.FoodRecord {
					return []common.FoodRecord{estimator.Estimate(ctx, query)}
				},
			},
		},
	}
}

// run 執行串接，回傳去重後、截斷至上限的結果
// 去重鍵在各階段之間共用，runIf 以去重後的累計筆數判斷
func (c *cascade) run(ctx context.Context, query string) []common.FoodRecord {
	seen := make(map[string]bool)
	results := make([]common.FoodRecord, 0, c.maxResults)

	for _, s := range c.stages {
		if !s.runIf(len(results)) {
			common.LogDebug("略過串接階段",
				zap.String("stage", s.name),
				zap.Int("accumulated", len(results)),
			)
			continue
		}

		records := s.fetch(ctx, query)
		added := 0
		for _, r := range records {
			key := r.DedupKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			results = append(results, r)
			added++
		}

		common.LogInfo("串接階段完成",
			zap.String("stage", s.name),
			zap.Int("returned", len(records)),
			zap.Int("added", added),
			zap.Int("accumulated", len(results)),
		)
	}

	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	return results
}
