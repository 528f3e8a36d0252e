package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/engel-trans/service-checkout/internal/apperror"
	"github.com/engel-trans/service-checkout/internal/domain/booking"
	"github.com/engel-trans/service-checkout/internal/domain/notification"
	"github.com/engel-trans/service-checkout/internal/domain/payment"
	"github.com/engel-trans/service-checkout/internal/events"
	"github.com/engel-trans/service-checkout/internal/ports"
	"go.uber.org/zap"
)

// ManualFailureMessage is shown when bank-transfer instructions could not be sent.
const ManualFailureMessage = "Failed to send payment instructions. Please contact us directly."

// CreateOrderResult is the hosted checkout order the browser approves.
type CreateOrderResult struct {
	PaymentID string  `json:"paymentId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

// CaptureConfirmRequest confirms an approved PayPal order.
type CaptureConfirmRequest struct {
	PaymentID      string                 `json:"paymentId"`
	Customer       booking.Customer       `json:"customer"`
	ServiceDetails booking.ServiceDetails `json:"serviceDetails"`
	TotalAmount    float64                `json:"totalAmount"`
}

// ReviewMessage is returned when the captured amount does not match the order.
const ReviewMessage = "Die Zahlung wird manuell geprüft. Wir melden uns bei Ihnen."

// CaptureConfirmResult reports a completed payment. EmailSent is false when
// the order confirmation could not be delivered; the payment still stands.
// ReviewRequired is set instead of Success when the provider captured a
// different amount than the order total.
type CaptureConfirmResult struct {
	Success          bool    `json:"success"`
	ReviewRequired   bool    `json:"reviewRequired,omitempty"`
	Message          string  `json:"message,omitempty"`
	OrderID          string  `json:"orderId"`
	TransactionID    string  `json:"transactionId"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	EmailSent        bool    `json:"emailSent"`
	FallbackRecorded bool    `json:"fallbackRecorded"`
}

// ManualInstructionsRequest starts a bank-transfer order.
type ManualInstructionsRequest struct {
	Customer       booking.Customer       `json:"customer"`
	ServiceDetails booking.ServiceDetails `json:"serviceDetails"`
	TotalAmount    float64                `json:"totalAmount"`
}

// ManualInstructionsResult reports both emails of the bank-transfer flow. The
// order ids are only set once the customer received the instructions.
type ManualInstructionsResult struct {
	Success          bool   `json:"success"`
	OrderID          string `json:"orderId,omitempty"`
	PaymentID        string `json:"paymentId,omitempty"`
	InstructionsSent bool   `json:"instructionsSent"`
	SupportEmailSent bool   `json:"supportEmailSent"`
	Message          string `json:"message,omitempty"`
}

// PaymentService runs the PayPal and bank-transfer payment paths.
type PaymentService struct {
	gateway   ports.PaymentGateway
	notifier  ports.Notifier
	publisher ports.EventPublisher
	pricing   booking.PricingStrategy
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	gateway ports.PaymentGateway,
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	pricing booking.PricingStrategy,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		gateway:   gateway,
		notifier:  notifier,
		publisher: publisher,
		pricing:   pricing,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrder opens a PayPal order for the server-side price of req.
func (s *PaymentService) CreateOrder(ctx context.Context, req QuoteRequest) (*CreateOrderResult, error) {
	quote, err := priceRequest(s.pricing, req)
	if err != nil {
		return nil, err
	}
	if quote.IsZero() {
		return nil, apperror.NewValidationError("nothing to pay: select at least one service")
	}

	created, err := s.gateway.CreateOrder(ctx, payment.OrderIntent{
		Amount:      quote.Total,
		Currency:    quote.Currency,
		Description: orderDescription(quote),
	})
	if err != nil {
		s.logger.Error("failed to create payment order", zap.Float64("amount", quote.Total), zap.Error(err))
		return nil, err
	}

	s.logger.Info("payment order created",
		zap.String("payment_id", created.ID),
		zap.Float64("amount", quote.Total),
	)
	return &CreateOrderResult{PaymentID: created.ID, Amount: quote.Total, Currency: quote.Currency}, nil
}

// ConfirmCapture captures an approved order, then notifies the business. A
// notification failure never undoes the capture.
func (s *PaymentService) ConfirmCapture(ctx context.Context, req CaptureConfirmRequest) (*CaptureConfirmResult, error) {
	if strings.TrimSpace(req.PaymentID) == "" {
		return nil, apperror.NewFieldError("paymentId", "payment id is required")
	}
	if err := s.validateOrder(req.Customer, req.ServiceDetails, req.TotalAmount); err != nil {
		return nil, err
	}

	capture, err := s.gateway.CaptureOrder(ctx, req.PaymentID)
	if err != nil {
		s.logger.Error("payment capture failed", zap.String("payment_id", req.PaymentID), zap.Error(err))
		return nil, err
	}

	amount := capture.Amount
	if amount <= 0 {
		amount = req.TotalAmount
	}
	currency := capture.Currency
	if currency == "" {
		currency = booking.Currency
	}
	txID := capture.TransactionID
	if txID == "" {
		txID = capture.OrderID
	}
	record, err := payment.NewPayPalRecord(txID, amount, currency, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to build payment record: %w", err)
	}

	if !booking.SameAmount(amount, req.TotalAmount) || !strings.EqualFold(currency, booking.Currency) {
		return s.flagForReview(ctx, req, record), nil
	}

	outcome := s.notifier.NotifyOrderConfirmation(ctx, notification.OrderMessage{
		Customer: req.Customer,
		Details:  req.ServiceDetails,
		Record:   record,
	})
	if !outcome.Delivered {
		s.logger.Warn("order confirmation not delivered",
			zap.String("order_id", record.OrderID),
			zap.String("reason", outcome.Reason),
			zap.Bool("fallback_recorded", outcome.FallbackRecorded),
		)
	}

	s.publish(ctx, events.OrderCompleted, record.OrderID, events.OrderCompletedEvent{
		OrderID:       record.OrderID,
		TransactionID: record.TransactionID,
		Amount:        record.Amount,
		Currency:      record.Currency,
		Services:      serviceNames(req.ServiceDetails.Services),
		VIP:           req.ServiceDetails.IsVIP(),
		EmailSent:     outcome.Delivered,
		OccurredAt:    record.CreatedAt,
	})

	s.logger.Info("payment captured",
		zap.String("order_id", record.OrderID),
		zap.String("transaction_id", record.TransactionID),
		zap.Float64("amount", record.Amount),
	)
	return &CaptureConfirmResult{
		Success:          true,
		OrderID:          record.OrderID,
		TransactionID:    record.TransactionID,
		Amount:           record.Amount,
		Currency:         record.Currency,
		EmailSent:        outcome.Delivered,
		FallbackRecorded: outcome.FallbackRecorded,
	}, nil
}

// flagForReview holds back the confirmation of a capture whose amount differs
// from the order total. The money was taken, so it is logged and announced for
// manual follow-up rather than returned as an error.
func (s *PaymentService) flagForReview(ctx context.Context, req CaptureConfirmRequest, record payment.Record) *CaptureConfirmResult {
	s.logger.Error("captured amount does not match order total",
		zap.String("payment_id", req.PaymentID),
		zap.String("order_id", record.OrderID),
		zap.String("transaction_id", record.TransactionID),
		zap.String("captured", booking.FormatAmount(record.Amount)+" "+record.Currency),
		zap.String("expected", booking.FormatAmount(req.TotalAmount)+" "+booking.Currency),
		zap.Strings("services", serviceNames(req.ServiceDetails.Services)),
	)

	s.publish(ctx, events.PaymentReviewRequired, record.OrderID, events.PaymentReviewRequiredEvent{
		OrderID:        record.OrderID,
		PaymentID:      req.PaymentID,
		TransactionID:  record.TransactionID,
		CapturedAmount: record.Amount,
		ExpectedAmount: req.TotalAmount,
		Currency:       record.Currency,
		OccurredAt:     record.CreatedAt,
	})

	return &CaptureConfirmResult{
		ReviewRequired: true,
		Message:        ReviewMessage,
		OrderID:        record.OrderID,
		TransactionID:  record.TransactionID,
		Amount:         record.Amount,
		Currency:       record.Currency,
	}
}

// SendManualInstructions emails bank-transfer instructions to the customer and,
// only once they went out, an order confirmation to the business.
func (s *PaymentService) SendManualInstructions(ctx context.Context, req ManualInstructionsRequest) (*ManualInstructionsResult, error) {
	if req.ServiceDetails.IsVIP() {
		return nil, apperror.NewValidationError("bank transfer is not available for VIP orders")
	}
	if err := s.validateOrder(req.Customer, req.ServiceDetails, req.TotalAmount); err != nil {
		return nil, err
	}

	record, err := payment.NewManualRecord(req.TotalAmount, booking.Currency, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to build payment record: %w", err)
	}
	msg := notification.OrderMessage{Customer: req.Customer, Details: req.ServiceDetails, Record: record}

	instructions := s.notifier.NotifyManualInstructions(ctx, msg)
	if !instructions.Delivered {
		s.logger.Warn("manual payment instructions not delivered",
			zap.String("reason", instructions.Reason),
			zap.Bool("fallback_recorded", instructions.FallbackRecorded),
		)
		return &ManualInstructionsResult{Message: ManualFailureMessage}, nil
	}

	support := s.notifier.NotifyOrderConfirmation(ctx, msg)
	if !support.Delivered {
		s.logger.Warn("manual order confirmation not delivered",
			zap.String("order_id", record.OrderID),
			zap.String("reason", support.Reason),
		)
	}

	s.publish(ctx, events.ManualPaymentRequested, record.OrderID, events.ManualPaymentRequestedEvent{
		OrderID:         record.OrderID,
		PaymentID:       record.TransactionID,
		Amount:          record.Amount,
		Currency:        record.Currency,
		SupportNotified: support.Delivered,
		OccurredAt:      record.CreatedAt,
	})

	s.logger.Info("manual payment instructions sent",
		zap.String("order_id", record.OrderID),
		zap.Float64("amount", record.Amount),
	)
	return &ManualInstructionsResult{
		Success:          true,
		OrderID:          record.OrderID,
		PaymentID:        record.TransactionID,
		InstructionsSent: true,
		SupportEmailSent: support.Delivered,
	}, nil
}

// validateOrder rejects a submission before any provider call. Non-VIP totals
// must equal the server-side quote to the cent.
func (s *PaymentService) validateOrder(c booking.Customer, d booking.ServiceDetails, total float64) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}
	if total <= 0 {
		return apperror.NewFieldError("totalAmount", "total amount must be positive")
	}
	if d.IsVIP() {
		return nil
	}
	quote := s.pricing.Quote(d.Services, d.DistanceKm)
	if quote.IsZero() {
		return apperror.NewFieldError("serviceDetails.selectedServices", "no billable service selected")
	}
	if !booking.SameAmount(quote.Total, total) {
		return apperror.NewFieldError("totalAmount",
			fmt.Sprintf("total %s does not match the quoted %s", booking.FormatAmount(total), booking.FormatAmount(quote.Total)))
	}
	return nil
}

func (s *PaymentService) publish(ctx context.Context, eventType, key string, data interface{}) {
	if err := s.publisher.Publish(ctx, eventType, key, data); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func orderDescription(q booking.Quote) string {
	names := make([]string, 0, len(q.LineItems))
	for _, item := range q.LineItems {
		names = append(names, item.Name)
	}
	return "ENGEL-TRANS: " + strings.Join(names, ", ")
}

func serviceNames(codes []booking.ServiceCode) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}
