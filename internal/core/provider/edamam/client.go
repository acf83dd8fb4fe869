package edamam

import (
	"context"
	"net/http"
	"time"

	"calorie-search/internal/infrastructure/config"
	"calorie-search/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client Edamam Food Database 客戶端
type Client struct {
	config *config.Config
	client *resty.Client
}

// parserResponse /parser 回應結構
type parserResponse struct {
	Hints []hint `json:"hints"`
}

type hint struct {
	Food hintFood `json:"food"`
}

type hintFood struct {
	Label     string             `json:"label"`
	Nutrients map[string]float64 `json:"nutrients"`
}

// NewClient 創建 Edamam 客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.Edamam.BaseURL).
		SetTimeout(cfg.Edamam.Timeout)

	return &Client{
		config: cfg,
		client: client,
	}
}

// Name 資料源標籤
func (c *Client) Name() string {
	return common.SourceEdamam
}

// Search 以 parser 介面搜尋食物
// Edamam 的 ENERC_KCAL 已是每 100 克，不需單位換算
// fail-soft：憑證缺失、網路錯誤、非 2xx、格式錯誤一律回傳空列表
func (c *Client) Search(ctx context.Context, query string) []common.FoodRecord {
	if c.config.Edamam.AppID == "" || c.config.Edamam.AppKey == "" {
		common.LogInfo("Edamam 憑證未設定，略過查詢")
		return nil
	}

	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"app_id":   c.config.Edamam.AppID,
			"app_key":  c.config.Edamam.AppKey,
			"ingr":     query,
			"category": "generic-foods",
		}).
		Get("/parser")

	if err != nil {
		common.LogProviderCall(common.SourceEdamam, 0, time.Since(start), err)
		return nil
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("Edamam 回應狀態異常",
			zap.Int("status_code", resp.StatusCode()),
			zap.Duration("耗時", time.Since(start)),
		)
		return nil
	}

	var result parserResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		common.LogError("Edamam 回應解析失敗", zap.Error(err))
		return nil
	}

	records := make([]common.FoodRecord, 0, len(result.Hints))
	for _, h := range result.Hints {
		if len(records) >= c.config.Edamam.MaxHints {
			break
		}

		name := common.CollapseWhitespace(h.Food.Label)
		kcal := h.Food.Nutrients["ENERC_KCAL"]
		// 空名稱或非正值熱量的項目直接丟棄
		if name == "" || !common.IsValidKcal(kcal) {
			continue
		}

		records = append(records, common.FoodRecord{
			Name:        name,
			KcalPer100g: common.RoundKcal(kcal),
			Source:      common.SourceEdamam,
		})
	}

	common.LogProviderCall(common.SourceEdamam, len(records), time.Since(start), nil)
	return records
}
