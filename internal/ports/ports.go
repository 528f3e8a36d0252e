package ports

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=ports

import (
	"context"

	"github.com/engel-trans/service-checkout/internal/domain/notification"
	"github.com/engel-trans/service-checkout/internal/domain/payment"
	"github.com/engel-trans/service-checkout/internal/domain/places"
	"github.com/engel-trans/service-checkout/internal/domain/route"
)

// PlaceProvider searches addresses by free text.
type PlaceProvider interface {
	SearchText(ctx context.Context, query string) ([]places.Place, error)
}

// RouteProvider resolves a driving route between two place ids.
type RouteProvider interface {
	ComputeRoute(ctx context.Context, originID, destinationID string) (route.Route, error)
}

// PaymentGateway opens and captures hosted checkout orders.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, intent payment.OrderIntent) (payment.CreatedOrder, error)
	CaptureOrder(ctx context.Context, orderID string) (payment.Capture, error)
}

// MailSender delivers a rendered email.
type MailSender interface {
	Send(ctx context.Context, email notification.Email) error
	Configured() bool
}

// FallbackRecorder keeps a copy of an email that could not be delivered.
type FallbackRecorder interface {
	Record(ctx context.Context, record notification.FallbackRecord) error
}

// Notifier composes and dispatches the transactional messages.
type Notifier interface {
	NotifyQuoteRequest(ctx context.Context, req notification.QuoteRequest) notification.Outcome
	NotifyManualInstructions(ctx context.Context, msg notification.OrderMessage) notification.Outcome
	NotifyOrderConfirmation(ctx context.Context, msg notification.OrderMessage) notification.Outcome
}

// EventPublisher emits checkout events.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data interface{}) error
}
