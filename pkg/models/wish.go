package models

import (
	"time"
)

type Wish struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	User      string    `bson:"user" json:"user"`
	Product   string    `bson:"product" json:"product"`
	Name      string    `bson:"name" json:"name"`
	Slug      string    `bson:"slug" json:"slug"`
	Image     string    `bson:"image" json:"image"`
	Price     float64   `bson:"price" json:"price"`
	Discount  float64   `bson:"discount" json:"discount"`
	Checked   bool      `bson:"checked" json:"checked"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
