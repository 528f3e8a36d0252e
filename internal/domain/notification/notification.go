package notification

import (
	"strings"
	"time"

	"github.com/engel-trans/service-checkout/internal/domain/booking"
	"github.com/engel-trans/service-checkout/internal/domain/payment"
	"github.com/google/uuid"
)

// Kind identifies one of the transactional messages.
type Kind string

const (
	KindQuoteRequest       Kind = "quote_request"
	KindManualInstructions Kind = "manual_payment_instructions"
	KindOrderConfirmation  Kind = "order_confirmation"
)

// IsValid returns true if the kind is a recognized message kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindQuoteRequest, KindManualInstructions, KindOrderConfirmation:
		return true
	}
	return false
}

// Attachment is a file attached to an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Email is a rendered message ready for delivery.
type Email struct {
	Kind        Kind
	OrderID     string
	To          []string
	CC          []string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// Recipients returns every To and CC address.
func (e Email) Recipients() []string {
	out := make([]string, 0, len(e.To)+len(e.CC))
	out = append(out, e.To...)
	out = append(out, e.CC...)
	return out
}

// FallbackRecord is the operational copy of a message that was not delivered.
type FallbackRecord struct {
	ID         uuid.UUID
	Kind       Kind
	OrderID    string
	Recipients []string
	Subject    string
	TextBody   string
	Reason     string
	CreatedAt  time.Time
}

// NewFallbackRecord captures an undelivered email together with the reason.
func NewFallbackRecord(e Email, reason string, now time.Time) FallbackRecord {
	return FallbackRecord{
		ID:         uuid.New(),
		Kind:       e.Kind,
		OrderID:    e.OrderID,
		Recipients: e.Recipients(),
		Subject:    e.Subject,
		TextBody:   e.TextBody,
		Reason:     reason,
		CreatedAt:  now.UTC(),
	}
}

// RecipientList joins the recipients for storage and log output.
func (r FallbackRecord) RecipientList() string {
	return strings.Join(r.Recipients, ",")
}

// Outcome is what the dispatcher reports back to the caller.
type Outcome struct {
	Delivered        bool   `json:"delivered"`
	FallbackRecorded bool   `json:"fallbackRecorded"`
	Reason           string `json:"reason,omitempty"`
}

// Delivered returns a successful outcome.
func Delivered() Outcome { return Outcome{Delivered: true} }

// QuoteRequest is the data rendered into a quote-request message.
type QuoteRequest struct {
	Customer    booking.Customer
	Details     booking.ServiceDetails
	Quote       *booking.Quote
	Attachments []Attachment
}

// OrderMessage is the data rendered into payment-related messages.
type OrderMessage struct {
	Customer booking.Customer
	Details  booking.ServiceDetails
	Record   payment.Record
}
