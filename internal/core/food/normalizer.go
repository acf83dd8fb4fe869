package food

import (
	"regexp"
	"strings"

	"calorie-search/internal/pkg/common"
)

// rewriteRule 查詢改寫規則
type rewriteRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// 常見錯字與同義詞的改寫規則（依序套用，各規則獨立且冪等）
// 規則輸出不得再被任何規則匹配，否則重複正規化會改變結果
var rewriteRules = []rewriteRule{
	// 拼錯的複數
	{regexp.MustCompile(`\bdrumstics\b`), "drumsticks"},
	{regexp.MustCompile(`\bdrum sticks\b`), "drumsticks"},
	// 帶皮 / 去皮 統一為連字符形式
	{regexp.MustCompile(`\bskin on\b`), "skin-on"},
	{regexp.MustCompile(`\bskin off\b`), "skin-off"},
	{regexp.MustCompile(`\bskinless\b`), "skin-off"},
	// 雞腿同義詞
	{regexp.MustCompile(`\bchicken legs?\b`), "chicken drumsticks"},
	{regexp.MustCompile(`\bhähnchenschenkel\b`), "chicken drumsticks"},
}

// NormalizeQuery 正規化查詢字串：小寫、合併空白、套用改寫規則
// 冪等：NormalizeQuery(NormalizeQuery(x)) == NormalizeQuery(x)
func NormalizeQuery(query string) string {
	q := strings.ToLower(query)
	q = common.CollapseWhitespace(q)
	for _, rule := range rewriteRules {
		q = rule.pattern.ReplaceAllString(q, rule.replacement)
	}
	return common.CollapseWhitespace(q)
}
