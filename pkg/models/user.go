package models

import (
	"time"
)

type SellerProfile struct {
	Name        string  `bson:"name" json:"name"`
	Logo        string  `bson:"logo" json:"logo"`
	Description string  `bson:"description" json:"description"`
	Rating      float64 `bson:"rating" json:"rating"`
}

type User struct {
	ID        string        `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Email     string        `bson:"email" json:"email"`
	Password  string        `bson:"password" json:"-"`
	Image     string        `bson:"image,omitempty" json:"image,omitempty"`
	Phone     string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string        `bson:"address,omitempty" json:"address,omitempty"`
	Country   string        `bson:"country,omitempty" json:"country,omitempty"`
	IsAdmin   bool          `bson:"isAdmin" json:"isAdmin"`
	IsSeller  bool          `bson:"isSeller" json:"isSeller"`
	IsBlocked bool          `bson:"isBlocked" json:"isBlocked"`
	Seller    SellerProfile `bson:"seller,omitempty" json:"seller,omitempty"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}
