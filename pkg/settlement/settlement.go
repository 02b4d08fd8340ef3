package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/example/shopmate/pkg/config"
	"github.com/example/shopmate/pkg/models"
	"github.com/example/shopmate/pkg/repository"
	"go.uber.org/zap"
)

type OrderStore interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
}

type SettingsSource interface {
	Get(ctx context.Context) (*models.Settings, error)
}

// Notifier dispatches the transactional receipt. Failures are logged,
// never surfaced, and never undo a settlement.
type Notifier interface {
	Send(ctx context.Context, order *models.Order, settings *models.Settings) error
}

// EventPublisher emits best-effort order lifecycle events.
type EventPublisher interface {
	OrderPaid(ctx context.Context, order *models.Order) error
	OrderDelivered(ctx context.Context, order *models.Order) error
}

// PaymentPayload is the external payment provider's callback data.
type PaymentPayload struct {
	TransactionID string
	Status        string
	UpdateTime    string
	PayerEmail    string
	PaymentMethod string
}

// Service orchestrates the pay and deliver transitions of an order.
type Service struct {
	orders   OrderStore
	ledger   *Ledger
	settings SettingsSource
	notifier Notifier
	events   EventPublisher
	cfg      config.SettlementConfig
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	orders OrderStore,
	ledger *Ledger,
	settings SettingsSource,
	notifier Notifier,
	events EventPublisher,
	cfg config.SettlementConfig,
	logger *zap.Logger,
) *Service {
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 10 * time.Second
	}
	return &Service{
		orders:   orders,
		ledger:   ledger,
		settings: settings,
		notifier: notifier,
		events:   events,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// PayOrder marks the order paid, applies the inventory ledger per line
// item, persists the order, and fires the receipt asynchronously. A
// ledger failure aborts before the order is persisted; items applied
// before the failure stay applied.
func (s *Service) PayOrder(ctx context.Context, orderID string, payment PaymentPayload) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if s.cfg.IdempotentPayments && order.IsPaid {
		return nil, &Error{
			Kind:    KindAlreadySettled,
			OrderID: orderID,
			Message: "order is already paid",
		}
	}

	now := s.now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentMethod = payment.PaymentMethod
	order.PaymentResult = models.PaymentResult{
		ID:           payment.TransactionID,
		Status:       payment.Status,
		UpdateTime:   payment.UpdateTime,
		EmailAddress: payment.PayerEmail,
	}

	if err := s.ledger.Apply(ctx, order); err != nil {
		return nil, err
	}

	order.UpdatedAt = now
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order settled",
		zap.String("order_id", order.ID),
		zap.String("payment_method", order.PaymentMethod),
		zap.Float64("grand_total", order.GrandTotal))

	s.notifyAsync(order)
	s.publishAsync(order, func(ctx context.Context, o *models.Order) error {
		return s.events.OrderPaid(ctx, o)
	})

	return order, nil
}

// DeliverOrder marks a paid order delivered. Repeated calls are
// rejected so deliveredAt is never silently overwritten.
func (s *Service) DeliverOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if s.cfg.RequirePaidDelivery && !order.IsPaid {
		return nil, &Error{
			Kind:    KindNotPaid,
			OrderID: orderID,
			Message: "cannot deliver an unpaid order",
		}
	}
	if order.IsDelivered {
		return nil, &Error{
			Kind:    KindAlreadyDelivered,
			OrderID: orderID,
			Message: "order is already delivered",
		}
	}

	now := s.now()
	order.IsDelivered = true
	order.DeliveredAt = &now
	order.UpdatedAt = now

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("order delivered", zap.String("order_id", order.ID))

	s.publishAsync(order, func(ctx context.Context, o *models.Order) error {
		return s.events.OrderDelivered(ctx, o)
	})

	return order, nil
}

func (s *Service) loadOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &Error{
				Kind:    KindNotFound,
				OrderID: orderID,
				Message: "order not found",
			}
		}
		return nil, err
	}
	return order, nil
}

func (s *Service) notifyAsync(order *models.Order) {
	if s.notifier == nil {
		return
	}
	snapshot := *order
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.NotifyTimeout)
		defer cancel()

		settings, err := s.settings.Get(ctx)
		if err != nil {
			s.logger.Error("receipt skipped, settings unavailable",
				zap.String("order_id", snapshot.ID),
				zap.Error(err))
			return
		}
		if err := s.notifier.Send(ctx, &snapshot, settings); err != nil {
			s.logger.Error("receipt dispatch failed",
				zap.String("order_id", snapshot.ID),
				zap.Error(err))
		}
	}()
}

func (s *Service) publishAsync(order *models.Order, publish func(context.Context, *models.Order) error) {
	if s.events == nil {
		return
	}
	snapshot := *order
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.NotifyTimeout)
		defer cancel()
		if err := publish(ctx, &snapshot); err != nil {
			s.logger.Warn("order event publish failed",
				zap.String("order_id", snapshot.ID),
				zap.Error(err))
		}
	}()
}
