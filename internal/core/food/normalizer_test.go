package food

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Grilled CHICKEN Breast", "grilled chicken breast"},
		{"collapses whitespace", "  chicken   breast \t raw ", "chicken breast raw"},
		{"misspelled plural", "chicken drumstics", "chicken drumsticks"},
		{"split plural", "chicken drum sticks", "chicken drumsticks"},
		{"skin on hyphenated", "drumsticks skin on", "drumsticks skin-on"},
		{"skin off hyphenated", "drumsticks Skin Off", "drumsticks skin-off"},
		{"skinless rewritten", "skinless chicken breast", "skin-off chicken breast"},
		{"chicken leg singular", "chicken leg", "chicken drumsticks"},
		{"chicken legs plural", "roasted chicken legs", "roasted chicken drumsticks"},
		{"german drumsticks", "Hähnchenschenkel gegrillt", "chicken drumsticks gegrillt"},
		{"no rule matches", "beef stew", "beef stew"},
		{"word boundary honored", "legumes", "legumes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeQuery(tt.input))
		})
	}
}

func TestNormalizeQuery_Idempotent(t *testing.T) {
	inputs := []string{
		"chicken drum sticks skin on",
		"Chicken Legs",
		"skinless drumstics",
		"  Grilled   Chicken  ",
		"hähnchenschenkel",
		"plain rice",
		"",
	}

	for _, input := range inputs {
		once := NormalizeQuery(input)
		twice := NormalizeQuery(once)
		assert.Equal(t, once, twice, "input %q", input)
	}
}
