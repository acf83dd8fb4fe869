package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupKey(t *testing.T) {
	a := FoodRecord{Name: "Chicken Breast", KcalPer100g: 165, Source: SourceUSDA}
	b := FoodRecord{Name: "CHICKEN BREAST", KcalPer100g: 165, Source: SourceEdamam}
	c := FoodRecord{Name: "Chicken Breast", KcalPer100g: 166, Source: SourceUSDA}

	// 名稱比較不分大小寫，來源不參與鍵值
	assert.Equal(t, a.DedupKey(), b.DedupKey())
	assert.NotEqual(t, a.DedupKey(), c.DedupKey())
	assert.Equal(t, "chicken breast:165", a.DedupKey())
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  chicken   breast ", "chicken breast"},
		{"chicken\tbreast\n", "chicken breast"},
		{"chicken", "chicken"},
		{"   ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CollapseWhitespace(tt.input))
	}
}

func TestParseLocaleFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		wantErr  bool
	}{
		{"plain integer", "160", 160, false},
		{"period decimal", "215.5", 215.5, false},
		{"comma decimal", "215,5", 215.5, false},
		{"surrounding noise", "about 160 kcal", 160, false},
		{"whitespace", "  42  ", 42, false},
		{"negative", "-5", -5, false},
		{"no number", "no idea", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseLocaleFloat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestIsValidKcal(t *testing.T) {
	assert.True(t, IsValidKcal(1))
	assert.True(t, IsValidKcal(999.9))
	assert.False(t, IsValidKcal(0))
	assert.False(t, IsValidKcal(-1))
}

func TestRoundKcal(t *testing.T) {
	assert.Equal(t, 157, RoundKcal(157.3))
	assert.Equal(t, 216, RoundKcal(215.5))
	assert.Equal(t, 160, RoundKcal(160))
}
