package repository

import (
	"context"
	"errors"

	"github.com/example/shopmate/pkg/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// OrderQuery narrows and pages order listings. Zero values mean no
// filter. FeaturedSort mirrors the admin dashboard's "featured" sort
// (createdAt descending); the default sorts by _id descending.
type OrderQuery struct {
	Seller       string
	User         string
	Page         int
	PageSize     int
	FeaturedSort bool
}

// DailyBucket is one calendar day of order totals, UTC-truncated.
type DailyBucket struct {
	Date   string  `bson:"_id" json:"date"`
	Orders int64   `bson:"orders" json:"orders"`
	Sales  float64 `bson:"sales" json:"sales"`
}

// UserSpend is the summed grand total of one user's orders.
type UserSpend struct {
	User  string  `bson:"_id" json:"user"`
	Total float64 `bson:"total" json:"total"`
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q OrderQuery) ([]models.Order, int64, error)
	CountOrders(ctx context.Context) (int64, error)
	DailySales(ctx context.Context, limit int64) ([]DailyBucket, error)
	UserSpend(ctx context.Context, userID string) ([]UserSpend, error)
}

// ProductQuery carries the storefront search filters. String fields
// equal to "" or "all" are ignored.
type ProductQuery struct {
	Query     string
	Category  string
	Gender    string
	Size      string
	Color     string
	Brand     string
	PriceMin  float64
	PriceMax  float64
	HasPrice  bool
	MinRating float64
	HasRating bool
	Order     string
	Page      int
	PageSize  int
}

type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, seller string) ([]models.Product, error)
	Search(ctx context.Context, q ProductQuery) ([]models.Product, int64, error)
	Related(ctx context.Context, id string, limit int64) ([]models.Product, error)

	// AdjustStock atomically decrements countInStock and increments
	// numSales by quantity. With requireStock the update is refused
	// (ErrInsufficientStock) when it would drive the stock negative.
	AdjustStock(ctx context.Context, id string, quantity int, requireStock bool) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.User, error)
	SetBlocked(ctx context.Context, id string, blocked bool) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type WishStore interface {
	Create(ctx context.Context, wish *models.Wish) error
	ListByUser(ctx context.Context, userID string) ([]models.Wish, error)
	SetChecked(ctx context.Context, id string, checked bool) error
	Delete(ctx context.Context, id string) error
}

type SettingsStore interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, settings *models.Settings) error
}
