// Package notify forwards native notification requests into the embedded
// view as "notification" events. Delivery is fire-and-forget: there is no
// acknowledgement and no retry.
package notify

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/deskshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/deskshell/internal/shared/id"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"go.uber.org/zap"
)

// ErrForward is returned when the event could not be handed to the view
var ErrForward = errors.New("failed to forward notification")

// Emitter pushes a frame to every connected view
type Emitter interface {
	Emit(frame types.Frame) error
}

// Bridge forwards notifications to the view
type Bridge struct {
	emitter Emitter
	breaker *resilience.Breaker
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewBridge creates a bridge over emitter. breaker may be nil.
func NewBridge(emitter Emitter, breaker *resilience.Breaker, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		emitter: emitter,
		breaker: breaker,
		logger:  logger,
	}
}

// WithMetrics adds metrics tracking to the bridge
func (b *Bridge) WithMetrics(metrics *monitoring.Metrics) *Bridge {
	b.metrics = metrics
	return b
}

// Notify emits a notification event and returns the event id
func (b *Bridge) Notify(title, body string) (string, error) {
	eventID := id.NewEventID().String()
	frame := types.Frame{
		ID:    eventID,
		Event: types.EventNotification,
		Payload: types.NotificationPayload{
			ID:    eventID,
			Title: title,
			Body:  body,
		},
	}

	emit := func() error { return b.emitter.Emit(frame) }

	var err error
	if b.breaker != nil {
		err = b.breaker.Execute(emit)
	} else {
		err = emit()
	}

	if b.metrics != nil {
		b.metrics.RecordNotification(err)
	}
	if err != nil {
		b.logger.Warn("Notification not forwarded", zap.String("id", eventID), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrForward, err)
	}

	b.logger.Debug("Notification forwarded", zap.String("id", eventID))
	return eventID, nil
}
