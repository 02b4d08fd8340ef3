// Package analytics serves the dashboard's read-only, time-bucketed
// views over the order history. Nothing here mutates state, so every
// query is safe to run concurrently with settlement.
package analytics

import (
	"context"
	"fmt"

	"github.com/example/shopmate/pkg/repository"
)

const (
	dailySalesDays = 10
	incomeDays     = 2
)

type OrderSource interface {
	CountOrders(ctx context.Context) (int64, error)
	DailySales(ctx context.Context, limit int64) ([]repository.DailyBucket, error)
	UserSpend(ctx context.Context, userID string) ([]repository.UserSpend, error)
}

type UserSource interface {
	CountUsers(ctx context.Context) (int64, error)
}

// SalePoint is one day of summed sales, without the order count.
type SalePoint struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

// Summary is the dashboard payload: global totals plus the recent
// daily series the charts consume.
type Summary struct {
	Orders          int64                    `json:"orders"`
	Users           int64                    `json:"users"`
	DailyOrders     []repository.DailyBucket `json:"dailyOrders"`
	Income          []repository.DailyBucket `json:"income"`
	SalePerformance []SalePoint              `json:"salePerformance"`
}

type Aggregator struct {
	orders OrderSource
	users  UserSource
}

func NewAggregator(orders OrderSource, users UserSource) *Aggregator {
	return &Aggregator{orders: orders, users: users}
}

func (a *Aggregator) CountOrders(ctx context.Context) (int64, error) {
	return a.orders.CountOrders(ctx)
}

// DailySales returns per-day order counts and summed grand totals for
// the newest limit distinct calendar days, date-descending.
func (a *Aggregator) DailySales(ctx context.Context, limit int64) ([]repository.DailyBucket, error) {
	if limit <= 0 {
		limit = dailySalesDays
	}
	return a.orders.DailySales(ctx, limit)
}

// UserSpend sums grand totals per owning user; an empty userID covers
// all users.
func (a *Aggregator) UserSpend(ctx context.Context, userID string) ([]repository.UserSpend, error) {
	return a.orders.UserSpend(ctx, userID)
}

func (a *Aggregator) Summary(ctx context.Context) (*Summary, error) {
	orders, err := a.orders.CountOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	users, err := a.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	daily, err := a.orders.DailySales(ctx, dailySalesDays)
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}

	income := daily
	if len(income) > incomeDays {
		income = income[:incomeDays]
	}
	performance := make([]SalePoint, len(income))
	for i, bucket := range income {
		performance[i] = SalePoint{Date: bucket.Date, Sales: bucket.Sales}
	}

	return &Summary{
		Orders:          orders,
		Users:           users,
		DailyOrders:     daily,
		Income:          income,
		SalePerformance: performance,
	}, nil
}
