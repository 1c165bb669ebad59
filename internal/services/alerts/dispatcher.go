package alerts

import (
	"context"
	"sync"

	"github.com/vadiminshakov/martifolio/internal/domain"
	"go.uber.org/zap"
)

// Notifier delivers a plain-text message to an opaque destination.
type Notifier interface {
	Notify(ctx context.Context, destination, message string) error
}

// Dispatcher sends each alert message at most once per session.
// Messages are remembered only after successful delivery, so a failed
// message is attempted again on the next dispatch.
type Dispatcher struct {
	notifier    Notifier
	destination string
	logger      *zap.Logger

	mu   sync.Mutex
	sent map[string]struct{}
}

// NewDispatcher creates a dispatcher delivering to destination through notifier.
func NewDispatcher(notifier Notifier, destination string, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifier:    notifier,
		destination: destination,
		logger:      logger,
		sent:        make(map[string]struct{}),
	}
}

// Dispatch delivers alerts not delivered before and returns the messages sent now.
// Delivery failures are logged and never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, alerts []domain.Alert) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var delivered []string
	for _, alert := range alerts {
		if _, ok := d.sent[alert.Message]; ok {
			continue
		}

		if err := d.notifier.Notify(ctx, d.destination, alert.Message); err != nil {
			d.logger.Warn("failed to deliver alert", zap.String("asset", alert.Asset),
				zap.String("level", string(alert.Level)), zap.Error(err))
			continue
		}

		d.sent[alert.Message] = struct{}{}
		delivered = append(delivered, alert.Message)
	}

	return delivered
}

// Reset forgets every delivered message.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = make(map[string]struct{})
}
