package common

import (
	"fmt"
	"strings"
)

// 資料來源標籤
const (
	SourceUSDA   = "usda"
	SourceEdamam = "edamam"
	SourceAI     = "ai"
)

// FoodRecord 單筆食物熱量紀錄（每 100 克）
// 欄位名稱、型別要與 food-search API 回應一模一樣
type FoodRecord struct {
	Name        string `json:"name"`
	KcalPer100g int    `json:"kcal_per_100g"`
	Source      string `json:"source"`
}

// DedupKey 去重鍵：小寫名稱 + 熱量值
// 同一回應內不允許兩筆紀錄共用相同的鍵
func (r FoodRecord) DedupKey() string {
	return fmt.Sprintf("%s:%d", strings.ToLower(r.Name), r.KcalPer100g)
}

// SearchResponse 食物搜尋回應
type SearchResponse struct {
	Items []FoodRecord `json:"items"`
}

// CollapseWhitespace 合併連續空白並去除前後空白
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FormatRecords 格式化紀錄列表（用於日誌記錄）
func FormatRecords(records []FoodRecord) string {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("- %s: %d kcal/100g (%s)\n", r.Name, r.KcalPer100g, r.Source))
	}
	return sb.String()
}
