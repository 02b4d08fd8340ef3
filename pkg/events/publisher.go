// Package events publishes best-effort order lifecycle events for
// downstream consumers. Publish failures are the caller's to log;
// nothing here blocks a settlement.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/shopmate/pkg/config"
	"github.com/example/shopmate/pkg/models"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	SubjectOrderCreated   = "order.created"
	SubjectOrderPaid      = "order.paid"
	SubjectOrderDelivered = "order.delivered"
)

type OrderEvent struct {
	OrderID    string  `json:"order_id"`
	UserID     string  `json:"user_id"`
	Status     string  `json:"status"`
	GrandTotal float64 `json:"grand_total"`
	OccurredAt string  `json:"occurred_at"`
}

type Publisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

func NewPublisher(cfg *config.NATSConfig, logger *zap.Logger) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name("shopmate-api"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &Publisher{nc: nc, logger: logger}, nil
}

func (p *Publisher) OrderCreated(ctx context.Context, order *models.Order) error {
	return p.publish(ctx, SubjectOrderCreated, order)
}

func (p *Publisher) OrderPaid(ctx context.Context, order *models.Order) error {
	return p.publish(ctx, SubjectOrderPaid, order)
}

func (p *Publisher) OrderDelivered(ctx context.Context, order *models.Order) error {
	return p.publish(ctx, SubjectOrderDelivered, order)
}

func (p *Publisher) publish(ctx context.Context, subject string, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(OrderEvent{
		OrderID:    order.ID,
		UserID:     order.User,
		Status:     string(order.Status()),
		GrandTotal: order.GrandTotal,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	if err := p.nc.FlushTimeout(2 * time.Second); err != nil {
		return fmt.Errorf("flush %s: %w", subject, err)
	}

	p.logger.Info("order event published",
		zap.String("subject", subject),
		zap.String("order_id", order.ID))
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil && p.nc.IsConnected() {
		p.nc.Close()
	}
}
