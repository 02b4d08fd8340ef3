package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/example/shopmate/pkg/models"
	"github.com/example/shopmate/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.DateOnly, value)
	require.NoError(t, err)
	return parsed
}

func seedOrders(t *testing.T) *repository.OrderMemory {
	t.Helper()
	orders := repository.NewOrderMemory()
	seed := []*models.Order{
		{ID: "o1", User: "alice", GrandTotal: 10.00, CreatedAt: day(t, "2024-03-01")},
		{ID: "o2", User: "alice", GrandTotal: 25.00, CreatedAt: day(t, "2024-03-01")},
		{ID: "o3", User: "bob", GrandTotal: 7.00, CreatedAt: day(t, "2024-03-02")},
		{ID: "o4", User: "alice", GrandTotal: 3.00, CreatedAt: day(t, "2024-03-03")},
	}
	for _, order := range seed {
		require.NoError(t, orders.Create(context.Background(), order))
	}
	return orders
}

func seedUsers(t *testing.T) *repository.UserMemory {
	t.Helper()
	users := repository.NewUserMemory()
	for _, u := range []*models.User{
		{ID: "alice", Name: "Alice", Email: "alice@example.com"},
		{ID: "bob", Name: "Bob", Email: "bob@example.com"},
	} {
		require.NoError(t, users.Create(context.Background(), u))
	}
	return users
}

func TestDailySalesBucketsNewestFirst(t *testing.T) {
	agg := NewAggregator(seedOrders(t), seedUsers(t))

	buckets, err := agg.DailySales(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2024-03-03", buckets[0].Date)
	assert.Equal(t, int64(1), buckets[0].Orders)
	assert.InDelta(t, 3.00, buckets[0].Sales, 1e-9)

	assert.Equal(t, "2024-03-02", buckets[1].Date)
	assert.Equal(t, int64(1), buckets[1].Orders)
	assert.InDelta(t, 7.00, buckets[1].Sales, 1e-9)
}

func TestDailySalesDefaultLimit(t *testing.T) {
	agg := NewAggregator(seedOrders(t), seedUsers(t))

	buckets, err := agg.DailySales(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	// One bucket per distinct day even when multiple orders share it.
	assert.Equal(t, "2024-03-01", buckets[2].Date)
	assert.Equal(t, int64(2), buckets[2].Orders)
	assert.InDelta(t, 35.00, buckets[2].Sales, 1e-9)
}

func TestUserSpend(t *testing.T) {
	agg := NewAggregator(seedOrders(t), seedUsers(t))

	totals, err := agg.UserSpend(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "alice", totals[0].User)
	assert.InDelta(t, 38.00, totals[0].Total, 1e-9)
	assert.Equal(t, "bob", totals[1].User)
	assert.InDelta(t, 7.00, totals[1].Total, 1e-9)

	only, err := agg.UserSpend(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.InDelta(t, 7.00, only[0].Total, 1e-9)
}

func TestSummary(t *testing.T) {
	agg := NewAggregator(seedOrders(t), seedUsers(t))

	summary, err := agg.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), summary.Orders)
	assert.Equal(t, int64(2), summary.Users)
	require.Len(t, summary.DailyOrders, 3)

	// Income and the chart series are the two newest days.
	require.Len(t, summary.Income, 2)
	assert.Equal(t, "2024-03-03", summary.Income[0].Date)
	assert.Equal(t, "2024-03-02", summary.Income[1].Date)

	require.Len(t, summary.SalePerformance, 2)
	assert.Equal(t, "2024-03-03", summary.SalePerformance[0].Date)
	assert.InDelta(t, 3.00, summary.SalePerformance[0].Sales, 1e-9)
}
