package food

import (
	"context"
	"testing"

	"calorie-search/internal/pkg/common"

	"github.com/stretchr/testify/assert"
)

// fakeProvider 資料源測試替身，記錄調用次數
type fakeProvider struct {
	name    string
	records []common.FoodRecord
	calls   int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Search(ctx context.Context, query string) []common.FoodRecord {
	p.calls++
	return p.records
}

// fakeEstimator 後備估算器測試替身
type fakeEstimator struct {
	record common.FoodRecord
	calls  int
}

func (e *fakeEstimator) Estimate(ctx context.Context, query string) common.FoodRecord {
	e.calls++
	return e.record
}

func makeRecords(source string, kcals ...int) []common.FoodRecord {
	records := make([]common.FoodRecord, 0, len(kcals))
	for i, kcal := range kcals {
		records = append(records, common.FoodRecord{
			Name:        source + "-food-" + string(rune('a'+i)),
			KcalPer100g: kcal,
			Source:      source,
		})
	}
	return records
}

func TestCascade_ShortCircuitsWhenUSDASufficient(t *testing.T) {
	usda := &fakeProvider{name: "usda", records: makeRecords("usda", 100, 110, 120, 130, 140, 150)}
	edamam := &fakeProvider{name: "edamam", records: makeRecords("edamam", 200)}
	est := &fakeEstimator{record: common.FoodRecord{Name: "x", KcalPer100g: 180, Source: "ai"}}

	c := newCascade(usda, edamam, est, 6, 10)
	results := c.run(context.Background(), "chicken")

	assert.Len(t, results, 6)
	assert.Equal(t, 1, usda.calls)
	assert.Equal(t, 0, edamam.calls, "edamam must not be queried when usda already met the threshold")
	assert.Equal(t, 0, est.calls)
}

func TestCascade_QueriesEdamamBelowThreshold(t *testing.T) {
	usda := &fakeProvider{name: "usda", records: makeRecords("usda", 100, 110, 120)}
	edamam := &fakeProvider{name: "edamam", records: makeRecords("edamam", 200, 210)}
	est := &fakeEstimator{record: common.FoodRecord{Name: "x", KcalPer100g: 180, Source: "ai"}}

	c := newCascade(usda, edamam, est, 6, 10)
	results := c.run(context.Background(), "chicken")

	assert.Len(t, results, 5)
	assert.Equal(t, 1, edamam.calls)
	assert.Equal(t, 0, est.calls, "estimator only runs when nothing was found")
}

func TestCascade_FallbackOnlyWhenEmpty(t *testing.T) {
	usda := &fakeProvider{name: "usda"}
	edamam := &fakeProvider{name: "edamam"}
	est := &fakeEstimator{record: common.FoodRecord{Name: "chicken", KcalPer100g: 160, Source: "ai"}}

	c := newCascade(usda, edamam, est, 6, 10)
	results := c.run(context.Background(), "chicken")

	assert.Equal(t, 1, est.calls)
	assert.Len(t, results, 1)
	assert.Equal(t, "ai", results[0].Source)
	assert.Equal(t, 160, results[0].KcalPer100g)
}

func TestCascade_DeduplicatesAcrossStages(t *testing.T) {
	shared := common.FoodRecord{Name: "Chicken Breast", KcalPer100g: 165, Source: "usda"}
	sharedUpper := common.FoodRecord{Name: "CHICKEN BREAST", KcalPer100g: 165, Source: "edamam"}
	other := common.FoodRecord{Name: "Chicken Thigh", KcalPer100g: 209, Source: "edamam"}

	usda := &fakeProvider{name: "usda", records: []common.FoodRecord{shared, shared}}
	edamam := &fakeProvider{name: "edamam", records: []common.FoodRecord{sharedUpper, other}}
	est := &fakeEstimator{}

	c := newCascade(usda, edamam, est, 6, 10)
	results := c.run(context.Background(), "chicken")

	assert.Len(t, results, 2)
	// 去重鍵不分大小寫，先到先得
	assert.Equal(t, "Chicken Breast", results[0].Name)
	assert.Equal(t, "usda", results[0].Source)
	assert.Equal(t, "Chicken Thigh", results[1].Name)

	seen := make(map[string]bool)
	for _, r := range results {
		key := r.DedupKey()
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestCascade_TruncatesToMaxResults(t *testing.T) {
	usda := &fakeProvider{name: "usda", records: makeRecords("usda", 100, 101, 102, 103)}
	edamam := &fakeProvider{name: "edamam", records: makeRecords("edamam", 200, 201, 202, 203, 204, 205, 206, 207)}
	est := &fakeEstimator{}

	c := newCascade(usda, edamam, est, 6, 10)
	results := c.run(context.Background(), "chicken")

	assert.Len(t, results, 10)
	// 優先序保留：USDA 結果在前
	assert.Equal(t, "usda", results[0].Source)
	assert.Equal(t, "usda", results[3].Source)
	assert.Equal(t, "edamam", results[4].Source)
}
