package day_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/window/dayledger/day"
	"github.com/window/dayledger/day/store"
)

func TestRepository_SaveGetRoundTrip(t *testing.T) {
	repo := day.NewDayRepository(store.NewMemory(), quietLogger())
	ctx := context.Background()
	data := day.DailyData{
		Date:       "2025-03-10",
		Stats:      day.UserStats{Energy: 62.5, Meals: 1, Mood: day.MoodHappy},
		Activities: []day.Activity{sleep("s", 22, 27), food("m", 8, day.FoodMeal)},
	}

	require.NoError(t, repo.Save(ctx, data))
	got, ok, err := repo.Get(ctx, "2025-03-10")

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, data, got)
}

func TestRepository_SaveKeepsOtherDays(t *testing.T) {
	repo := day.NewDayRepository(store.NewMemory(), quietLogger())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, day.DailyData{Date: "2025-03-09", Stats: day.DefaultStats()}))
	require.NoError(t, repo.Save(ctx, day.DailyData{Date: "2025-03-10", Stats: day.DefaultStats()}))
	require.NoError(t, repo.Save(ctx, day.DailyData{Date: "2025-03-08", Stats: day.DefaultStats()}))

	dates, err := repo.Dates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-08", "2025-03-09", "2025-03-10"}, dates)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.NotNil(t, all["2025-03-09"].Activities)
}

func TestRepository_GetMissing(t *testing.T) {
	repo := day.NewDayRepository(store.NewMemory(), quietLogger())

	_, ok, err := repo.Get(context.Background(), "2025-03-10")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_MalformedBlob_TreatedAsAbsent(t *testing.T) {
	repo, _ := seed(t, `[1, 2, 3]`)
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// A save replaces the unreadable blob.
	require.NoError(t, repo.Save(ctx, day.DailyData{Date: "2025-03-10", Stats: day.DefaultStats()}))
	_, ok, err = repo.Get(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRepository_MalformedRecord_Skipped(t *testing.T) {
	repo, _ := seed(t, `{"2025-03-09": 42, "2025-03-10": {"date": "2025-03-10", "stats": {"meals": 0}, "activities": []}}`)
	ctx := context.Background()

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, ok, err := repo.Get(ctx, "2025-03-09")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_LegacyRecordUpgradedOnRead(t *testing.T) {
	repo, _ := seed(t, legacyBlob)

	got, ok, err := repo.Get(context.Background(), "2025-01-05")

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, got.Stats.Meals)
	assert.Equal(t, 1, got.Stats.Snacks)
}

func TestRepository_DeleteAndClear(t *testing.T) {
	kv := store.NewMemory()
	repo := day.NewDayRepository(kv, quietLogger())
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, day.DailyData{Date: "2025-03-09"}))
	require.NoError(t, repo.Save(ctx, day.DailyData{Date: "2025-03-10"}))
	require.NoError(t, repo.SetVersion(ctx, day.AppVersion))

	require.NoError(t, repo.Delete(ctx, "2025-03-09"))
	dates, err := repo.Dates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-10"}, dates)

	require.NoError(t, repo.Clear(ctx))
	assert.Empty(t, kv.Keys())
}

func TestRepository_Version(t *testing.T) {
	repo := day.NewDayRepository(store.NewMemory(), quietLogger())
	ctx := context.Background()

	v, err := repo.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, repo.SetVersion(ctx, "1.0.0"))
	v, err = repo.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v)
}
