package settlement

import (
	"context"
	"errors"

	"github.com/example/shopmate/pkg/models"
	"github.com/example/shopmate/pkg/repository"
	"go.uber.org/zap"
)

// StockStore is the one verb the ledger needs from the product store.
type StockStore interface {
	AdjustStock(ctx context.Context, id string, quantity int, requireStock bool) error
}

// Ledger applies per-line-item stock decrements and sales-count
// increments. In strict mode a line item whose quantity exceeds the
// remaining stock is refused; otherwise stock may go negative, which
// matches the legacy storefront.
type Ledger struct {
	products StockStore
	strict   bool
	logger   *zap.Logger
}

func NewLedger(products StockStore, strict bool, logger *zap.Logger) *Ledger {
	return &Ledger{
		products: products,
		strict:   strict,
		logger:   logger,
	}
}

func (l *Ledger) ApplyLineItem(ctx context.Context, orderID string, item models.OrderItem) error {
	err := l.products.AdjustStock(ctx, item.Product, item.Quantity, l.strict)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return &Error{
			Kind:      KindNotFound,
			OrderID:   orderID,
			ProductID: item.Product,
			Message:   "product not found",
		}
	case errors.Is(err, repository.ErrInsufficientStock):
		return &Error{
			Kind:      KindInsufficientStock,
			OrderID:   orderID,
			ProductID: item.Product,
			Message:   "quantity exceeds remaining stock",
		}
	default:
		return err
	}
}

// Apply walks the line items in stored order, fail-fast. Items already
// applied before a failure stay applied.
func (l *Ledger) Apply(ctx context.Context, order *models.Order) error {
	for _, item := range order.OrderItems {
		if err := l.ApplyLineItem(ctx, order.ID, item); err != nil {
			l.logger.Warn("ledger application aborted",
				zap.String("order_id", order.ID),
				zap.String("product_id", item.Product),
				zap.Error(err))
			return err
		}
	}
	return nil
}
