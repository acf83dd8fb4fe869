package usda

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"calorie-search/internal/infrastructure/config"
	"calorie-search/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// 能量營養素的 FDC 編號
	energyNutrientID = 1008
	// 熱量值合理上限（每 100 克），超出視為解析或單位錯誤
	maxKcalPer100g = 1000
)

// Client USDA FoodData Central 客戶端
type Client struct {
	config *config.Config
	client *resty.Client
}

// searchResponse /foods/search 回應結構
type searchResponse struct {
	Foods []foodItem `json:"foods"`
}

type foodItem struct {
	Description          string         `json:"description"`
	LowercaseDescription string         `json:"lowercaseDescription"`
	ServingSize          float64        `json:"servingSize"`
	ServingSizeUnit      string         `json:"servingSizeUnit"`
	FoodNutrients        []foodNutrient `json:"foodNutrients"`
}

type foodNutrient struct {
	NutrientID   int     `json:"nutrientId"`
	NutrientName string  `json:"nutrientName"`
	UnitName     string  `json:"unitName"`
	Value        float64 `json:"value"`
}

// NewClient 創建 USDA 客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.USDA.BaseURL).
		SetTimeout(cfg.USDA.Timeout)

	return &Client{
		config: cfg,
		client: client,
	}
}

// Name 資料源標籤
func (c *Client) Name() string {
	return common.SourceUSDA
}

// Search 搜尋食物並正規化為每 100 克熱量
// fail-soft：憑證缺失、網路錯誤、非 2xx、格式錯誤一律回傳空列表
func (c *Client) Search(ctx context.Context, query string) []common.FoodRecord {
	if c.config.USDA.APIKey == "" {
		common.LogInfo("USDA 憑證未設定，略過查詢")
		return nil
	}

	start := time.Now()

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"api_key":  c.config.USDA.APIKey,
			"query":    query,
			"pageSize": strconv.Itoa(c.config.USDA.PageSize),
		}).
		Get("/foods/search")

	if err != nil {
		common.LogProviderCall(common.SourceUSDA, 0, time.Since(start), err)
		return nil
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("USDA 回應狀態異常",
			zap.Int("status_code", resp.StatusCode()),
			zap.Duration("耗時", time.Since(start)),
		)
		return nil
	}

	var result searchResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		common.LogError("USDA 回應解析失敗", zap.Error(err))
		return nil
	}

	records := make([]common.FoodRecord, 0, len(result.Foods))
	for _, item := range result.Foods {
		record, ok := mapFood(item)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	common.LogProviderCall(common.SourceUSDA, len(records), time.Since(start), nil)
	return records
}

// mapFood 將一筆 USDA 項目映射為 FoodRecord
func mapFood(item foodItem) (common.FoodRecord, bool) {
	// 顯示名稱：主要欄位優先，否則用小寫備援欄位
	name := common.CollapseWhitespace(item.Description)
	if name == "" {
		name = common.CollapseWhitespace(item.LowercaseDescription)
	}
	if name == "" {
		return common.FoodRecord{}, false
	}

	energy, ok := findEnergy(item.FoodNutrients)
	if !ok {
		return common.FoodRecord{}, false
	}

	// 單位換算：有以克為單位的份量時，折算為每 100 克；否則視為已是每 100 克
	kcal := energy
	if item.ServingSize > 0 && strings.EqualFold(item.ServingSizeUnit, "g") {
		kcal = energy / item.ServingSize * 100
	}

	// 合理性檢查：非有限值、非正值或超出上限的一律丟棄
	if !common.IsValidKcal(kcal) || kcal >= maxKcalPer100g {
		return common.FoodRecord{}, false
	}

	return common.FoodRecord{
		Name:        name,
		KcalPer100g: common.RoundKcal(kcal),
		Source:      common.SourceUSDA,
	}, true
}

// findEnergy 依營養素編號 1008 或名稱包含 "energy" 找出熱量值
func findEnergy(nutrients []foodNutrient) (float64, bool) {
	for _, n := range nutrients {
		if n.NutrientID == energyNutrientID {
			return n.Value, true
		}
	}
	for _, n := range nutrients {
		if strings.Contains(strings.ToLower(n.NutrientName), "energy") {
			return n.Value, true
		}
	}
	return 0, false
}
