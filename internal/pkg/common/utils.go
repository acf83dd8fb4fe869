package common

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// ParseLocaleFloat 解析數字字串，同時接受逗號與句點作為小數點
// AI 回應可能依語系使用 "215,5" 或 "215.5"
func ParseLocaleFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	// 只在沒有句點時才把逗號當小數點，避免破壞千分位格式
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	// 去掉數字前後的非數字雜訊（例如 "約 160 kcal"）
	s = strings.TrimFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-'
	})
	return strconv.ParseFloat(s, 64)
}

// IsValidKcal 檢查熱量值是否有限且為正值
func IsValidKcal(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// RoundKcal 四捨五入為整數熱量值
func RoundKcal(v float64) int {
	return int(math.Round(v))
}
