package estimator

import (
	"context"
	"fmt"
	"time"

	"calorie-search/internal/pkg/common"

	"go.uber.org/zap"
)

// NumericGenerator 產生單一數值回答的生成式服務
type NumericGenerator interface {
	Available() bool
	GenerateNumeric(ctx context.Context, prompt string) (string, error)
}

// Estimator 後備熱量估算器
// Estimate 永不失敗：生成式路徑的任何錯誤都改走關鍵字啟發法
type Estimator struct {
	generator NumericGenerator
}

// estimation 內部估算結果：err 非 nil 時以啟發法為預設值策略
type estimation struct {
	kcal int
	err  error
}

// NewEstimator 創建估算器
func NewEstimator(generator NumericGenerator) *Estimator {
	return &Estimator{
		generator: generator,
	}
}

// Estimate 估算每 100 克熱量，保證回傳恰好一筆紀錄
func (e *Estimator) Estimate(ctx context.Context, query string) common.FoodRecord {
	result := e.estimateWithAI(ctx, query)
	if result.err != nil {
		common.LogInfo("改用關鍵字啟發法估算",
			zap.String("query", query),
			zap.String("reason", result.err.Error()),
		)
		result = estimation{kcal: heuristicKcal(query)}
	}

	return common.FoodRecord{
		Name:        common.CollapseWhitespace(query),
		KcalPer100g: result.kcal,
		Source:      common.SourceAI,
	}
}

// estimateWithAI 透過生成式服務取得數值估算
func (e *Estimator) estimateWithAI(ctx context.Context, query string) estimation {
	if e.generator == nil || !e.generator.Available() {
		return estimation{err: fmt.Errorf("generative credential unavailable")}
	}

	start := time.Now()
	prompt := fmt.Sprintf(
		"Estimate the calories per 100 grams of the following food: %q. Answer with a single number only, no units, no text.",
		query,
	)

	content, err := e.generator.GenerateNumeric(ctx, prompt)
	if err != nil {
		return estimation{err: err}
	}

	// 解析回應數值（接受逗號或句點作為小數點）
	value, err := common.ParseLocaleFloat(content)
	if err != nil {
		return estimation{err: fmt.Errorf("unparsable numeric reply %q: %w", content, err)}
	}
	if !common.IsValidKcal(value) {
		return estimation{err: fmt.Errorf("non-positive estimate %v", value)}
	}

	common.LogInfo("生成式估算成功",
		zap.String("query", query),
		zap.Float64("kcal", value),
		zap.Duration("耗時", time.Since(start)),
	)
	return estimation{kcal: common.RoundKcal(value)}
}
