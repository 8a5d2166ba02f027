package repository

import (
	"ShareLens/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func seedEvents(t *testing.T, repo ShareEventRepo, events ...*model.ShareEvent) {
	t.Helper()
	for _, e := range events {
		require.NoError(t, repo.Append(context.Background(), e))
	}
}

func event(contentID uint64, platform, caller string, at time.Time) *model.ShareEvent {
	return &model.ShareEvent{
		ContentID:  contentID,
		Platform:   platform,
		CallerHash: caller,
		CallerIP:   "unknown",
		CreatedAt:  at,
	}
}

func TestShareEventRepo_AppendAssignsID(t *testing.T) {
	repo := NewShareEventRepo(newTestDB(t, true))
	e := event(1, "twitter", "a", day.Add(time.Hour))

	require.NoError(t, repo.Append(context.Background(), e))
	assert.NotZero(t, e.ID)
}

func TestShareEventRepo_AggregateDay(t *testing.T) {
	repo := NewShareEventRepo(newTestDB(t, true))
	ctx := context.Background()
	seedEvents(t, repo,
		event(1, "twitter", "a", day.Add(1*time.Hour)),
		event(1, "twitter", "b", day.Add(2*time.Hour)),
		event(2, "twitter", "a", day.Add(3*time.Hour)),
		event(3, "facebook", "c", day.Add(4*time.Hour)),
		event(4, "twitter", "d", day.Add(-time.Second)),
		event(5, "twitter", "e", day.Add(24*time.Hour)),
	)

	totals, err := repo.AggregateDay(ctx, "twitter", day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, &model.ShareTotals{TotalShares: 3, UniqueContent: 2, UniqueCallers: 2}, totals)

	all, err := repo.AggregateDay(ctx, "", day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, &model.ShareTotals{TotalShares: 4, UniqueContent: 3, UniqueCallers: 3}, all)

	platforms, err := repo.PlatformsBetween(ctx, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"twitter", "facebook"}, platforms)
}

func TestShareEventRepo_CountByContent(t *testing.T) {
	repo := NewShareEventRepo(newTestDB(t, true))
	ctx := context.Background()
	seedEvents(t, repo,
		event(7, "twitter", "a", day),
		event(7, "twitter", "b", day),
		event(7, "email", "a", day),
		event(8, "twitter", "a", day),
	)

	count, err := repo.CountByContent(ctx, 7, "twitter")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	total, err := repo.CountByContent(ctx, 7, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestShareEventRepo_PlatformBreakdown(t *testing.T) {
	repo := NewShareEventRepo(newTestDB(t, true))
	ctx := context.Background()
	seedEvents(t, repo,
		event(1, "email", "a", day.Add(1*time.Hour)),
		event(1, "twitter", "a", day.Add(2*time.Hour)),
		event(2, "twitter", "b", day.Add(3*time.Hour)),
		event(2, "twitter", "c", day.Add(5*time.Hour)),
		event(3, "facebook", "a", day.Add(4*time.Hour)),
		event(4, "facebook", "b", day.Add(6*time.Hour)),
	)

	rows, err := repo.PlatformBreakdown(ctx, day, day.Add(24*time.Hour), 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "twitter", rows[0].Platform)
	assert.EqualValues(t, 3, rows[0].TotalShares)
	assert.EqualValues(t, 2, rows[0].UniqueContent)
	assert.True(t, rows[0].LastSharedAt.Equal(day.Add(5*time.Hour)))

	assert.Equal(t, "facebook", rows[1].Platform)
	assert.True(t, rows[1].LastSharedAt.Equal(day.Add(6*time.Hour)))
}

func TestShareEventRepo_PlatformBreakdownEmpty(t *testing.T) {
	repo := NewShareEventRepo(newTestDB(t, true))

	rows, err := repo.PlatformBreakdown(context.Background(), day, day.Add(24*time.Hour), 50)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestShareEventRepo_TopContent(t *testing.T) {
	repo := NewShareEventRepo(newTestDB(t, true))
	ctx := context.Background()
	seedEvents(t, repo,
		event(9, "twitter", "a", day),
		event(9, "email", "b", day),
		event(9, "email", "c", day),
		event(3, "twitter", "a", day),
		event(4, "twitter", "a", day),
		event(4, "reddit", "a", day),
	)

	rows, err := repo.TopContent(ctx, day, day.Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, &model.ContentAggregate{ContentID: 9, TotalShares: 3, DistinctPlatform: 2}, rows[0])
	assert.Equal(t, &model.ContentAggregate{ContentID: 4, TotalShares: 2, DistinctPlatform: 2}, rows[1])
	assert.Equal(t, &model.ContentAggregate{ContentID: 3, TotalShares: 1, DistinctPlatform: 1}, rows[2])
}

func TestShareEventRepo_TableReady(t *testing.T) {
	ctx := context.Background()

	ready, err := NewShareEventRepo(newTestDB(t, false)).TableReady(ctx)
	require.NoError(t, err)
	assert.False(t, ready)

	ready, err = NewShareEventRepo(newTestDB(t, true)).TableReady(ctx)
	require.NoError(t, err)
	assert.True(t, ready)
}
