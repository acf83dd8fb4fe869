package edamam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calorie-search/internal/infrastructure/config"
	"calorie-search/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Edamam: config.EdamamConfig{
			AppID:    "test-id",
			AppKey:   "test-app-key",
			BaseURL:  baseURL,
			MaxHints: 10,
			Timeout:  5 * time.Second,
		},
	}
}

func TestSearch_MissingCredentials(t *testing.T) {
	tests := []struct {
		name   string
		appID  string
		appKey string
	}{
		{"no app id", "", "key"},
		{"no app key", "id", ""},
		{"neither", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("http://localhost:1")
			cfg.Edamam.AppID = tt.appID
			cfg.Edamam.AppKey = tt.appKey
			c := NewClient(cfg)

			assert.Empty(t, c.Search(context.Background(), "chicken"))
		})
	}
}

func TestSearch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	assert.Empty(t, c.Search(context.Background(), "chicken"))
}

func TestSearch_MapsHints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/parser", r.URL.Path)
		assert.Equal(t, "test-id", r.URL.Query().Get("app_id"))
		assert.Equal(t, "chicken", r.URL.Query().Get("ingr"))
		assert.Equal(t, "generic-foods", r.URL.Query().Get("category"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"hints": [
				{"food": {"label": "Chicken Breast", "nutrients": {"ENERC_KCAL": 157.3, "PROCNT": 23.5}}},
				{"food": {"label": "  Chicken   Thigh ", "nutrients": {"ENERC_KCAL": 209}}},
				{"food": {"label": "", "nutrients": {"ENERC_KCAL": 150}}},
				{"food": {"label": "No calories", "nutrients": {"PROCNT": 10}}},
				{"food": {"label": "Negative artifact", "nutrients": {"ENERC_KCAL": -3}}}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	records := c.Search(context.Background(), "chicken")

	require.Len(t, records, 2)
	assert.Equal(t, "Chicken Breast", records[0].Name)
	assert.Equal(t, 157, records[0].KcalPer100g)
	assert.Equal(t, common.SourceEdamam, records[0].Source)

	// 名稱空白已合併
	assert.Equal(t, "Chicken Thigh", records[1].Name)
	assert.Equal(t, 209, records[1].KcalPer100g)
}

func TestSearch_CapsAtMaxHints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"hints": [
				{"food": {"label": "A", "nutrients": {"ENERC_KCAL": 100}}},
				{"food": {"label": "B", "nutrients": {"ENERC_KCAL": 110}}},
				{"food": {"label": "C", "nutrients": {"ENERC_KCAL": 120}}},
				{"food": {"label": "D", "nutrients": {"ENERC_KCAL": 130}}}
			]
		}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Edamam.MaxHints = 2
	c := NewClient(cfg)

	records := c.Search(context.Background(), "chicken")
	assert.Len(t, records, 2)
}
