package settlement

import (
	"context"
	"testing"

	"github.com/example/shopmate/pkg/models"
	"github.com/example/shopmate/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedProducts(t *testing.T, stocks map[string]int) *repository.ProductMemory {
	t.Helper()
	products := repository.NewProductMemory()
	for id, stock := range stocks {
		require.NoError(t, products.Create(context.Background(), &models.Product{
			ID:           id,
			Name:         "Product " + id,
			CountInStock: stock,
		}))
	}
	return products
}

func TestLedgerApplyLineItem(t *testing.T) {
	products := seedProducts(t, map[string]int{"p1": 4})
	ledger := NewLedger(products, false, zap.NewNop())

	err := ledger.ApplyLineItem(context.Background(), "o1", models.OrderItem{Product: "p1", Quantity: 3})
	require.NoError(t, err)

	p1, err := products.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, p1.CountInStock)
	assert.Equal(t, 3, p1.NumSales)
}

func TestLedgerApplyLineItemUnknownProduct(t *testing.T) {
	products := seedProducts(t, nil)
	ledger := NewLedger(products, false, zap.NewNop())

	err := ledger.ApplyLineItem(context.Background(), "o1", models.OrderItem{Product: "ghost", Quantity: 1})
	require.Error(t, err)

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindNotFound, se.Kind)
	assert.Equal(t, "ghost", se.ProductID)
	assert.Equal(t, "o1", se.OrderID)
}

func TestLedgerStrictRefusesOversell(t *testing.T) {
	products := seedProducts(t, map[string]int{"p1": 2})
	ledger := NewLedger(products, true, zap.NewNop())

	err := ledger.ApplyLineItem(context.Background(), "o1", models.OrderItem{Product: "p1", Quantity: 3})
	require.Error(t, err)
	assert.Equal(t, KindInsufficientStock, KindOf(err))

	p1, _ := products.GetByID(context.Background(), "p1")
	assert.Equal(t, 2, p1.CountInStock)
	assert.Equal(t, 0, p1.NumSales)
}

func TestLedgerPermissiveAllowsNegativeStock(t *testing.T) {
	products := seedProducts(t, map[string]int{"p1": 1})
	ledger := NewLedger(products, false, zap.NewNop())

	err := ledger.ApplyLineItem(context.Background(), "o1", models.OrderItem{Product: "p1", Quantity: 3})
	require.NoError(t, err)

	p1, _ := products.GetByID(context.Background(), "p1")
	assert.Equal(t, -2, p1.CountInStock)
	assert.Equal(t, 3, p1.NumSales)
}

func TestLedgerApplyFailFast(t *testing.T) {
	products := seedProducts(t, map[string]int{"p1": 5, "p3": 5})
	ledger := NewLedger(products, false, zap.NewNop())

	order := &models.Order{
		ID: "o1",
		OrderItems: []models.OrderItem{
			{Product: "p1", Quantity: 1},
			{Product: "p2", Quantity: 1},
			{Product: "p3", Quantity: 1},
		},
	}

	err := ledger.Apply(context.Background(), order)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	// p1 was applied before the failure, p3 was never reached.
	p1, _ := products.GetByID(context.Background(), "p1")
	assert.Equal(t, 4, p1.CountInStock)
	p3, _ := products.GetByID(context.Background(), "p3")
	assert.Equal(t, 5, p3.CountInStock)
}
