package repository

import (
	"context"
	"testing"
	"time"

	"github.com/example/shopmate/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductMemoryAdjustStock(t *testing.T) {
	products := NewProductMemory()
	require.NoError(t, products.Create(context.Background(), &models.Product{
		ID:           "p1",
		CountInStock: 3,
	}))

	t.Run("strict refuses oversell", func(t *testing.T) {
		err := products.AdjustStock(context.Background(), "p1", 4, true)
		assert.ErrorIs(t, err, ErrInsufficientStock)

		p, _ := products.GetByID(context.Background(), "p1")
		assert.Equal(t, 3, p.CountInStock)
		assert.Equal(t, 0, p.NumSales)
	})

	t.Run("strict exact stock succeeds", func(t *testing.T) {
		require.NoError(t, products.AdjustStock(context.Background(), "p1", 3, true))

		p, _ := products.GetByID(context.Background(), "p1")
		assert.Equal(t, 0, p.CountInStock)
		assert.Equal(t, 3, p.NumSales)
	})

	t.Run("permissive goes negative", func(t *testing.T) {
		require.NoError(t, products.AdjustStock(context.Background(), "p1", 2, false))

		p, _ := products.GetByID(context.Background(), "p1")
		assert.Equal(t, -2, p.CountInStock)
		assert.Equal(t, 5, p.NumSales)
	})

	t.Run("unknown product", func(t *testing.T) {
		err := products.AdjustStock(context.Background(), "ghost", 1, false)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestOrderMemoryCopyOnRead(t *testing.T) {
	orders := NewOrderMemory()
	require.NoError(t, orders.Create(context.Background(), &models.Order{ID: "o1", GrandTotal: 10}))

	got, err := orders.GetByID(context.Background(), "o1")
	require.NoError(t, err)
	got.GrandTotal = 999

	again, err := orders.GetByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.InDelta(t, 10, again.GrandTotal, 1e-9)
}

func TestOrderMemoryListPagination(t *testing.T) {
	orders := NewOrderMemory()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"o1", "o2", "o3", "o4", "o5"} {
		require.NoError(t, orders.Create(context.Background(), &models.Order{
			ID:        id,
			User:      "alice",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	page1, total, err := orders.List(context.Background(), OrderQuery{User: "alice", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 2)
	assert.Equal(t, "o5", page1[0].ID)
	assert.Equal(t, "o4", page1[1].ID)

	page3, total, err := orders.List(context.Background(), OrderQuery{User: "alice", Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page3, 1)
	assert.Equal(t, "o1", page3[0].ID)
}

func TestOrderMemoryListSellerFilter(t *testing.T) {
	orders := NewOrderMemory()
	require.NoError(t, orders.Create(context.Background(), &models.Order{ID: "o1", Seller: "s1"}))
	require.NoError(t, orders.Create(context.Background(), &models.Order{ID: "o2", Seller: "s2"}))

	got, _, err := orders.List(context.Background(), OrderQuery{Seller: "s1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].ID)

	all, _, err := orders.List(context.Background(), OrderQuery{Seller: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUserMemoryUniqueEmail(t *testing.T) {
	users := NewUserMemory()
	require.NoError(t, users.Create(context.Background(), &models.User{
		ID:    "u1",
		Email: "alice@example.com",
	}))

	err := users.Create(context.Background(), &models.User{
		ID:    "u2",
		Email: "alice@example.com",
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestProductMemorySearch(t *testing.T) {
	products := NewProductMemory()
	seed := []*models.Product{
		{ID: "p1", Name: "Red Shirt", Category: []string{"shirts"}, Price: 15, Rating: 4.5},
		{ID: "p2", Name: "Blue Shirt", Category: []string{"shirts"}, Price: 30, Rating: 3.0},
		{ID: "p3", Name: "Black Shoes", Category: []string{"shoes"}, Price: 60, Rating: 4.8},
	}
	for _, p := range seed {
		require.NoError(t, products.Create(context.Background(), p))
	}

	t.Run("by name", func(t *testing.T) {
		got, total, err := products.Search(context.Background(), ProductQuery{Query: "shirt"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, got, 2)
	})

	t.Run("by category and price order", func(t *testing.T) {
		got, _, err := products.Search(context.Background(), ProductQuery{Category: "shirts", Order: "lowest"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "p1", got[0].ID)
	})

	t.Run("by price range", func(t *testing.T) {
		got, _, err := products.Search(context.Background(), ProductQuery{HasPrice: true, PriceMin: 20, PriceMax: 70})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("by rating", func(t *testing.T) {
		got, _, err := products.Search(context.Background(), ProductQuery{HasRating: true, MinRating: 4})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}
