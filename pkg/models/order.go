package models

import (
	"time"
)

// OrderStatus is derived from the paid/delivered flags. Transitions are
// forward-only: created -> paid -> delivered.
type OrderStatus string

const (
	OrderCreated   OrderStatus = "created"
	OrderPaid      OrderStatus = "paid"
	OrderDelivered OrderStatus = "delivered"
)

type OrderItem struct {
	Product  string  `bson:"product" json:"product"`
	Seller   string  `bson:"seller" json:"seller"`
	Name     string  `bson:"name" json:"name"`
	Keygen   string  `bson:"keygen" json:"keygen"`
	Size     string  `bson:"size" json:"size"`
	Color    string  `bson:"color" json:"color"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Price    float64 `bson:"price" json:"price"`
}

type ShippingAddress struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Address   string `bson:"address" json:"address"`
	City      string `bson:"city" json:"city"`
	ZipCode   string `bson:"zipCode" json:"zipCode"`
	State     string `bson:"cState" json:"cState"`
	Country   string `bson:"country" json:"country"`
	Shipping  string `bson:"shipping" json:"shipping"`
}

// PaymentResult carries the external payment provider's view of the
// transaction, recorded verbatim at settlement time.
type PaymentResult struct {
	ID           string `bson:"id" json:"id"`
	Status       string `bson:"status" json:"status"`
	UpdateTime   string `bson:"update_time" json:"update_time"`
	EmailAddress string `bson:"email_address" json:"email_address"`
}

type Order struct {
	ID              string          `bson:"_id,omitempty" json:"id"`
	User            string          `bson:"user" json:"user"`
	Seller          string          `bson:"seller" json:"seller"`
	OrderItems      []OrderItem     `bson:"orderItems" json:"orderItems"`
	ShippingAddress ShippingAddress `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string          `bson:"paymentMethod" json:"paymentMethod"`
	PaymentResult   PaymentResult   `bson:"paymentResult" json:"paymentResult"`
	ItemsPrice      float64         `bson:"itemsPrice" json:"itemsPrice"`
	ShippingPrice   float64         `bson:"shippingPrice" json:"shippingPrice"`
	TaxPrice        float64         `bson:"taxPrice" json:"taxPrice"`
	GrandTotal      float64         `bson:"grandTotal" json:"grandTotal"`
	IsPaid          bool            `bson:"isPaid" json:"isPaid"`
	PaidAt          *time.Time      `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	IsDelivered     bool            `bson:"isDelivered" json:"isDelivered"`
	DeliveredAt     *time.Time      `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}

func (o *Order) Status() OrderStatus {
	switch {
	case o.IsDelivered:
		return OrderDelivered
	case o.IsPaid:
		return OrderPaid
	default:
		return OrderCreated
	}
}

// TotalQuantity sums the quantities across all line items.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.OrderItems {
		total += item.Quantity
	}
	return total
}
