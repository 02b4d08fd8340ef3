package models

import (
	"time"
)

// Settings holds the shop-wide display configuration. Settlement reads
// a snapshot of it for receipt formatting and never writes it back.
type Settings struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	ShopName     string    `bson:"shopName" json:"shopName"`
	CurrencySign string    `bson:"currencySign" json:"currencySign"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address      string    `bson:"address,omitempty" json:"address,omitempty"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
