package notifier

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/shopmate/pkg/models"
	"go.uber.org/zap"
)

// Sender is what the receipt actor delegates to; ReceiptMailer is the
// production implementation.
type Sender interface {
	Send(ctx context.Context, order *models.Order, settings *models.Settings) error
}

// ReceiptRequest asks the receipt actor to dispatch one receipt.
type ReceiptRequest struct {
	Order    *models.Order
	Settings *models.Settings
}

// ReceiptActor serializes receipt dispatch off the settlement path.
type ReceiptActor struct {
	sender  Sender
	timeout time.Duration
	logger  *zap.Logger
}

func (a *ReceiptActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *ReceiptRequest:
		sendCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.sender.Send(sendCtx, msg.Order, msg.Settings); err != nil {
			a.logger.Error("receipt dispatch failed",
				zap.String("order_id", msg.Order.ID),
				zap.Error(err))
			return
		}
		a.logger.Info("receipt dispatched", zap.String("order_id", msg.Order.ID))

	case *actor.Started:
		a.logger.Info("Receipt actor started")

	case *actor.Stopped:
		a.logger.Info("Receipt actor stopped")
	}
}

// ActorNotifier satisfies settlement's Notifier by handing receipts to
// the actor and returning immediately. Send never reports an error;
// failures surface in the actor's log.
type ActorNotifier struct {
	root *actor.RootContext
	pid  *actor.PID
}

func NewActorNotifier(system *actor.ActorSystem, sender Sender, timeout time.Duration, logger *zap.Logger) *ActorNotifier {
	props := actor.PropsFromProducer(func() actor.Actor {
		return &ReceiptActor{
			sender:  sender,
			timeout: timeout,
			logger:  logger,
		}
	})
	pid := system.Root.Spawn(props)
	return &ActorNotifier{
		root: system.Root,
		pid:  pid,
	}
}

func (n *ActorNotifier) Send(_ context.Context, order *models.Order, settings *models.Settings) error {
	n.root.Send(n.pid, &ReceiptRequest{Order: order, Settings: settings})
	return nil
}

func (n *ActorNotifier) Stop() {
	n.root.Stop(n.pid)
}
