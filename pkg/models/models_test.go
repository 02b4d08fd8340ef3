package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus(t *testing.T) {
	now := time.Now()

	order := &Order{}
	assert.Equal(t, OrderCreated, order.Status())

	order.IsPaid = true
	order.PaidAt = &now
	assert.Equal(t, OrderPaid, order.Status())

	order.IsDelivered = true
	order.DeliveredAt = &now
	assert.Equal(t, OrderDelivered, order.Status())
}

func TestOrderTotalQuantity(t *testing.T) {
	order := &Order{
		OrderItems: []OrderItem{
			{Product: "p1", Quantity: 2},
			{Product: "p2", Quantity: 3},
		},
	}
	assert.Equal(t, 5, order.TotalQuantity())
}

func TestProductAddReview(t *testing.T) {
	product := &Product{}

	product.AddReview(Review{Name: "Alice", Rating: 5})
	assert.Equal(t, 1, product.NumReviews)
	assert.InDelta(t, 5.0, product.Rating, 1e-9)

	product.AddReview(Review{Name: "Bob", Rating: 2})
	assert.Equal(t, 2, product.NumReviews)
	assert.InDelta(t, 3.5, product.Rating, 1e-9)

	assert.True(t, product.Reviewed("Alice"))
	assert.False(t, product.Reviewed("Carol"))
}
