package estimator

import "strings"

// 無類別命中時的預設值
const defaultKcal = 180

// category 關鍵字類別：先匹配者勝，順序即優先序
// 類別在自由文本中並不互斥（例如 "chicken soup"），順序不可調換
type category struct {
	kcal     int
	keywords []string
}

// 關鍵字涵蓋英文與德文詞彙
var categories = []category{
	{40, []string{"salad", "lettuce", "veget", "broccoli", "spinach", "cucumber", "tomato", "salat", "gemüse", "gurke"}},
	{55, []string{"fruit", "apple", "banana", "berry", "orange", "obst", "frucht", "apfel", "banane", "beere"}},
	{60, []string{"soup", "broth", "suppe", "brühe", "eintopf"}},
	{160, []string{"chicken", "turkey", "poultry", "hähnchen", "huhn", "hühner", "pute", "geflügel"}},
	{150, []string{"rice", "pasta", "noodle", "spaghetti", "grain", "reis", "nudel"}},
	{180, []string{"fish", "salmon", "tuna", "fisch", "lachs", "thunfisch"}},
	{240, []string{"beef", "pork", "steak", "lamb", "rind", "schwein", "lamm"}},
	{260, []string{"bread", "toast", "bun", "brot", "brötchen"}},
	{330, []string{"cheese", "käse"}},
	{380, []string{"dessert", "cake", "cookie", "chocolate", "kuchen", "keks", "torte", "schoko"}},
}

// heuristicKcal 關鍵字啟發法：依優先序比對類別，回傳代表性熱量值
func heuristicKcal(query string) int {
	q := strings.ToLower(query)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(q, kw) {
				return c.kcal
			}
		}
	}
	return defaultKcal
}
