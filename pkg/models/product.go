package models

import (
	"time"
)

type Review struct {
	Name      string    `bson:"name" json:"name"`
	Rating    float64   `bson:"rating" json:"rating"`
	Comment   string    `bson:"comment" json:"comment"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Product struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Seller       string    `bson:"seller" json:"seller"`
	Name         string    `bson:"name" json:"name"`
	Slug         string    `bson:"slug" json:"slug"`
	Keygen       string    `bson:"keygen" json:"keygen"`
	Gender       string    `bson:"gender" json:"gender"`
	Category     []string  `bson:"category" json:"category"`
	Size         []string  `bson:"size" json:"size"`
	Color        []string  `bson:"color" json:"color"`
	Brand        []string  `bson:"brand" json:"brand"`
	Image        string    `bson:"image" json:"image"`
	Images       []string  `bson:"images,omitempty" json:"images,omitempty"`
	Desc         string    `bson:"desc" json:"desc"`
	Price        float64   `bson:"price" json:"price"`
	CountInStock int       `bson:"countInStock" json:"countInStock"`
	NumSales     int       `bson:"numSales" json:"numSales"`
	Rating       float64   `bson:"rating" json:"rating"`
	NumReviews   int       `bson:"numReviews" json:"numReviews"`
	Featured     bool      `bson:"featured" json:"featured"`
	Reviews      []Review  `bson:"reviews,omitempty" json:"reviews,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AddReview appends a review and recomputes the aggregate rating.
func (p *Product) AddReview(review Review) {
	p.Reviews = append(p.Reviews, review)
	p.NumReviews = len(p.Reviews)
	sum := 0.0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = sum / float64(len(p.Reviews))
}

// Reviewed reports whether the named user already left a review.
func (p *Product) Reviewed(name string) bool {
	for _, r := range p.Reviews {
		if r.Name == name {
			return true
		}
	}
	return false
}
