package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/shopmate/pkg/models"
)

// In-memory stores backing tests and local development. They mirror
// the Mongo stores' semantics, including the atomic strict-stock
// decrement and the aggregation verbs.

type OrderMemory struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
}

func NewOrderMemory() *OrderMemory {
	return &OrderMemory{orders: make(map[string]*models.Order)}
}

func (r *OrderMemory) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return ErrAlreadyExists
	}
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *OrderMemory) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, exists := r.orders[id]
	if !exists {
		return nil, ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *OrderMemory) Update(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; !exists {
		return ErrNotFound
	}
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *OrderMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[id]; !exists {
		return ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *OrderMemory) List(_ context.Context, q OrderQuery) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Order
	for _, order := range r.orders {
		if q.Seller != "" && q.Seller != "all" && order.Seller != q.Seller {
			continue
		}
		if q.User != "" && order.User != q.User {
			continue
		}
		matched = append(matched, *order)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page := q.Page
	if page < 1 {
		page = 1
	}
	if q.PageSize > 0 {
		start := q.PageSize * (page - 1)
		if start >= len(matched) {
			return nil, total, nil
		}
		end := start + q.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *OrderMemory) CountOrders(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

func (r *OrderMemory) DailySales(_ context.Context, limit int64) ([]DailyBucket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byDay := make(map[string]*DailyBucket)
	for _, order := range r.orders {
		day := order.CreatedAt.UTC().Format("2006-01-02")
		bucket, ok := byDay[day]
		if !ok {
			bucket = &DailyBucket{Date: day}
			byDay[day] = bucket
		}
		bucket.Orders++
		bucket.Sales += order.GrandTotal
	}

	buckets := make([]DailyBucket, 0, len(byDay))
	for _, b := range byDay {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return strings.Compare(buckets[i].Date, buckets[j].Date) > 0
	})
	if limit > 0 && int64(len(buckets)) > limit {
		buckets = buckets[:limit]
	}
	return buckets, nil
}

func (r *OrderMemory) UserSpend(_ context.Context, userID string) ([]UserSpend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byUser := make(map[string]float64)
	for _, order := range r.orders {
		if userID != "" && order.User != userID {
			continue
		}
		byUser[order.User] += order.GrandTotal
	}

	totals := make([]UserSpend, 0, len(byUser))
	for user, total := range byUser {
		totals = append(totals, UserSpend{User: user, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].User < totals[j].User
	})
	return totals, nil
}

type ProductMemory struct {
	mu       sync.RWMutex
	products map[string]*models.Product
}

func NewProductMemory() *ProductMemory {
	return &ProductMemory{products: make(map[string]*models.Product)}
}

func (r *ProductMemory) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.products[product.ID]; exists {
		return ErrAlreadyExists
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *ProductMemory) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, exists := r.products[id]
	if !exists {
		return nil, ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *ProductMemory) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, product := range r.products {
		if product.Slug == slug {
			clone := *product
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *ProductMemory) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.products[product.ID]; !exists {
		return ErrNotFound
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *ProductMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.products[id]; !exists {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *ProductMemory) List(_ context.Context, seller string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var products []models.Product
	for _, product := range r.products {
		if seller != "" && product.Seller != seller {
			continue
		}
		products = append(products, *product)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
	return products, nil
}

func (r *ProductMemory) Search(ctx context.Context, q ProductQuery) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Product
	for _, product := range r.products {
		if !matchesQuery(product, q) {
			continue
		}
		matched = append(matched, *product)
	}

	switch q.Order {
	case "lowest":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case "highest":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	case "toprated":
		sort.Slice(matched, func(i, j int) bool { return matched[i].Rating > matched[j].Rating })
	case "newest":
		sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	default:
		sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	}

	total := int64(len(matched))
	page := q.Page
	if page < 1 {
		page = 1
	}
	if q.PageSize > 0 {
		start := q.PageSize * (page - 1)
		if start >= len(matched) {
			return nil, total, nil
		}
		end := start + q.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func matchesQuery(p *models.Product, q ProductQuery) bool {
	if q.Query != "" && q.Query != "all" &&
		!strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Query)) {
		return false
	}
	if q.Category != "" && q.Category != "all" && !contains(p.Category, q.Category) {
		return false
	}
	if q.Gender != "" && q.Gender != "all" && p.Gender != q.Gender {
		return false
	}
	if q.Size != "" && q.Size != "all" && !contains(p.Size, q.Size) {
		return false
	}
	if q.Color != "" && q.Color != "all" && !contains(p.Color, q.Color) {
		return false
	}
	if q.Brand != "" && q.Brand != "all" && !contains(p.Brand, q.Brand) {
		return false
	}
	if q.HasPrice && (p.Price < q.PriceMin || p.Price > q.PriceMax) {
		return false
	}
	if q.HasRating && p.Rating < q.MinRating {
		return false
	}
	return true
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func (r *ProductMemory) Related(ctx context.Context, id string, limit int64) ([]models.Product, error) {
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var related []models.Product
	for _, candidate := range r.products {
		if candidate.ID == product.ID {
			continue
		}
		shared := false
		for _, c := range product.Category {
			if contains(candidate.Category, c) {
				shared = true
				break
			}
		}
		if shared {
			related = append(related, *candidate)
		}
	}
	sort.Slice(related, func(i, j int) bool { return related[i].ID < related[j].ID })
	if limit > 0 && int64(len(related)) > limit {
		related = related[:limit]
	}
	return related, nil
}

func (r *ProductMemory) AdjustStock(_ context.Context, id string, quantity int, requireStock bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, exists := r.products[id]
	if !exists {
		return ErrNotFound
	}
	if requireStock && product.CountInStock < quantity {
		return ErrInsufficientStock
	}
	product.CountInStock -= quantity
	product.NumSales += quantity
	return nil
}

type UserMemory struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewUserMemory() *UserMemory {
	return &UserMemory{users: make(map[string]*models.User)}
}

func (r *UserMemory) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return ErrAlreadyExists
		}
	}
	if _, exists := r.users[user.ID]; exists {
		return ErrAlreadyExists
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *UserMemory) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, exists := r.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *UserMemory) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *UserMemory) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; !exists {
		return ErrNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *UserMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[id]; !exists {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *UserMemory) List(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *UserMemory) SetBlocked(_ context.Context, id string, blocked bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, exists := r.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	user.IsBlocked = blocked
	clone := *user
	return &clone, nil
}

func (r *UserMemory) CountUsers(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

type WishMemory struct {
	mu     sync.RWMutex
	wishes map[string]*models.Wish
}

func NewWishMemory() *WishMemory {
	return &WishMemory{wishes: make(map[string]*models.Wish)}
}

func (r *WishMemory) Create(_ context.Context, wish *models.Wish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *wish
	r.wishes[wish.ID] = &clone
	return nil
}

func (r *WishMemory) ListByUser(_ context.Context, userID string) ([]models.Wish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var wishes []models.Wish
	for _, wish := range r.wishes {
		if wish.User == userID {
			wishes = append(wishes, *wish)
		}
	}
	sort.Slice(wishes, func(i, j int) bool {
		return wishes[i].CreatedAt.After(wishes[j].CreatedAt)
	})
	return wishes, nil
}

func (r *WishMemory) SetChecked(_ context.Context, id string, checked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	wish, exists := r.wishes[id]
	if !exists {
		return ErrNotFound
	}
	wish.Checked = checked
	return nil
}

func (r *WishMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.wishes[id]; !exists {
		return ErrNotFound
	}
	delete(r.wishes, id)
	return nil
}

type SettingsMemory struct {
	mu       sync.RWMutex
	settings *models.Settings
}

func NewSettingsMemory(initial *models.Settings) *SettingsMemory {
	return &SettingsMemory{settings: initial}
}

func (r *SettingsMemory) Get(_ context.Context) (*models.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings == nil {
		return nil, ErrNotFound
	}
	clone := *r.settings
	return &clone, nil
}

func (r *SettingsMemory) Update(_ context.Context, settings *models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *settings
	clone.UpdatedAt = time.Now()
	r.settings = &clone
	return nil
}
