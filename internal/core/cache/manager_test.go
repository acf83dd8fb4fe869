package cache

import (
	"context"
	"testing"
	"time"

	"calorie-search/internal/infrastructure/config"
	"calorie-search/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         100,
			TTL:             time.Hour,
			CleanupInterval: time.Hour,
		},
	}
}

func TestNewManager_DisabledReturnsNil(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = false

	assert.Nil(t, NewManager(cfg))
}

func TestManager_SetAndGet(t *testing.T) {
	m := NewManager(testConfig())
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	records := []common.FoodRecord{
		{Name: "Chicken Breast", KcalPer100g: 165, Source: common.SourceUSDA},
	}

	_, err := m.Get(ctx, "chicken")
	assert.Equal(t, common.ErrCacheMiss, err)

	require.NoError(t, m.Set(ctx, "chicken", records))

	got, err := m.Get(ctx, "chicken")
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestManager_TTLExpiry(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.TTL = 10 * time.Millisecond
	m := NewManager(cfg)
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	records := []common.FoodRecord{{Name: "x", KcalPer100g: 100, Source: common.SourceUSDA}}
	require.NoError(t, m.Set(ctx, "q", records))

	time.Sleep(20 * time.Millisecond)

	_, err := m.Get(ctx, "q")
	assert.Equal(t, common.ErrCacheMiss, err)
}

func TestManager_LRUEviction(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.MaxSize = 2
	m := NewManager(cfg)
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	records := []common.FoodRecord{{Name: "x", KcalPer100g: 100, Source: common.SourceUSDA}}

	require.NoError(t, m.Set(ctx, "a", records))
	time.Sleep(time.Millisecond)
	require.NoError(t, m.Set(ctx, "b", records))
	time.Sleep(time.Millisecond)

	// 觸碰 a，讓 b 成為最久未使用
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	// 第三筆寫入觸發 LRU 淘汰
	require.NoError(t, m.Set(ctx, "c", records))

	_, err = m.Get(ctx, "a")
	assert.NoError(t, err)
	_, err = m.Get(ctx, "b")
	assert.Equal(t, common.ErrCacheMiss, err)
	_, err = m.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestManager_Stats(t *testing.T) {
	m := NewManager(testConfig())
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	records := []common.FoodRecord{{Name: "x", KcalPer100g: 100, Source: common.SourceUSDA}}

	m.Get(ctx, "q")
	m.Set(ctx, "q", records)
	m.Get(ctx, "q")

	stats := m.GetStats()
	assert.Equal(t, "memory", stats["backend"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}

func TestManager_NilClose(t *testing.T) {
	var m *Manager
	assert.NoError(t, m.Close())
}
