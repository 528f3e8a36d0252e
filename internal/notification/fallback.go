package notification

import (
	"context"
	"errors"

	domain "github.com/engel-trans/service-checkout/internal/domain/notification"
	"github.com/engel-trans/service-checkout/internal/ports"
	"go.uber.org/zap"
)

// LogRecorder writes fallback records to the operational log.
type LogRecorder struct {
	logger *zap.Logger
}

// NewLogRecorder creates a LogRecorder.
func NewLogRecorder(logger *zap.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

// Record logs every field an operator needs to resend the message by hand.
func (r *LogRecorder) Record(_ context.Context, rec domain.FallbackRecord) error {
	r.logger.Warn("email not delivered, fallback recorded",
		zap.String("fallback_id", rec.ID.String()),
		zap.String("kind", string(rec.Kind)),
		zap.String("order_id", rec.OrderID),
		zap.Strings("recipients", rec.Recipients),
		zap.String("subject", rec.Subject),
		zap.String("reason", rec.Reason),
		zap.String("body", rec.TextBody),
	)
	return nil
}

// MultiRecorder fans a record out to several recorders. It succeeds when at
// least one of them does.
type MultiRecorder struct {
	recorders []ports.FallbackRecorder
}

// NewMultiRecorder creates a MultiRecorder.
func NewMultiRecorder(recorders ...ports.FallbackRecorder) *MultiRecorder {
	return &MultiRecorder{recorders: recorders}
}

// Record implements ports.FallbackRecorder.
func (m *MultiRecorder) Record(ctx context.Context, rec domain.FallbackRecord) error {
	var errs []error
	for _, r := range m.recorders {
		if err := r.Record(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == len(m.recorders) && len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
