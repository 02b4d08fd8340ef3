package notifier

import (
	"testing"
	"time"

	"github.com/example/shopmate/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReceipt(t *testing.T) {
	paidAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	order := &models.Order{
		ID:   "order-1",
		User: "alice",
		OrderItems: []models.OrderItem{
			{Name: "Shirt", Keygen: "SH-01", Size: "M", Color: "/images/red.png", Quantity: 2, Price: 10.0},
			{Name: "Shoes", Keygen: "SO-02", Size: "42", Color: "/images/black.png", Quantity: 1, Price: 25.0},
		},
		ShippingAddress: models.ShippingAddress{
			FirstName: "Alice",
			LastName:  "Smith",
			Address:   "1 Main St",
			City:      "Springfield",
			ZipCode:   "12345",
			State:     "IL",
			Country:   "USA",
			Shipping:  "Standard",
		},
		PaymentMethod: "PayPal",
		ItemsPrice:    45.0,
		TaxPrice:      4.5,
		ShippingPrice: 5.0,
		GrandTotal:    54.5,
		IsPaid:        true,
		PaidAt:        &paidAt,
		CreatedAt:     time.Date(2024, 3, 9, 9, 30, 0, 0, time.UTC),
	}
	settings := &models.Settings{ShopName: "Shopmate", CurrencySign: "$"}
	user := &models.User{ID: "alice", Name: "Alice", Email: "alice@example.com"}

	html, err := RenderReceipt(order, settings, user)
	require.NoError(t, err)

	assert.Contains(t, html, "Hi Alice,")
	assert.Contains(t, html, "[Order order-1] (2024-03-09)")
	assert.Contains(t, html, "Shirt")
	assert.Contains(t, html, "SH-01")
	assert.Contains(t, html, "$10.00")
	assert.Contains(t, html, "$25.00")
	assert.Contains(t, html, "$45.00")
	assert.Contains(t, html, "$4.50")
	assert.Contains(t, html, "$5.00")
	assert.Contains(t, html, "<strong>$54.50</strong>")
	assert.Contains(t, html, "PayPal")
	assert.Contains(t, html, "Alice Smith,")
	assert.Contains(t, html, "Springfield, 12345")
	assert.Contains(t, html, "Thanks for shopping with Shopmate.")
}

func TestRenderReceiptEscapesUserInput(t *testing.T) {
	order := &models.Order{
		ID:         "order-2",
		OrderItems: []models.OrderItem{{Name: "<script>alert(1)</script>", Quantity: 1, Price: 1.0}},
		CreatedAt:  time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	settings := &models.Settings{ShopName: "Shopmate", CurrencySign: "$"}
	user := &models.User{Name: "Mallory"}

	html, err := RenderReceipt(order, settings, user)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}
