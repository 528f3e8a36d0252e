package events

import "time"

// Source is the CloudEvents source of everything this service emits.
const Source = "service-checkout"

// Checkout event types.
const (
	EstimateRequested      = "checkout.estimate.requested"
	ManualPaymentRequested = "checkout.manual_payment.requested"
	OrderCompleted         = "checkout.order.completed"
	PaymentReviewRequired  = "checkout.payment.review_required"
)

// EstimateRequestedEvent is emitted after a quote request was handled.
type EstimateRequestedEvent struct {
	RequestID      string    `json:"requestId"`
	CustomerName   string    `json:"customerName"`
	Services       []string  `json:"services"`
	DistanceKm     float64   `json:"distanceKm"`
	EstimatedTotal float64   `json:"estimatedTotal,omitempty"`
	Attachments    int       `json:"attachments"`
	EmailSent      bool      `json:"emailSent"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// ManualPaymentRequestedEvent is emitted once bank-transfer instructions went out.
type ManualPaymentRequestedEvent struct {
	OrderID         string    `json:"orderId"`
	PaymentID       string    `json:"paymentId"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	SupportNotified bool      `json:"supportNotified"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// OrderCompletedEvent is emitted after a PayPal capture was confirmed.
type OrderCompletedEvent struct {
	OrderID       string    `json:"orderId"`
	TransactionID string    `json:"transactionId"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Services      []string  `json:"services"`
	VIP           bool      `json:"vip"`
	EmailSent     bool      `json:"emailSent"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// PaymentReviewRequiredEvent is emitted when a capture settled a different
// amount than the order total.
type PaymentReviewRequiredEvent struct {
	OrderID        string    `json:"orderId"`
	PaymentID      string    `json:"paymentId"`
	TransactionID  string    `json:"transactionId"`
	CapturedAmount float64   `json:"capturedAmount"`
	ExpectedAmount float64   `json:"expectedAmount"`
	Currency       string    `json:"currency"`
	OccurredAt     time.Time `json:"occurredAt"`
}
