package notification

import (
	"context"
	"time"

	domain "github.com/engel-trans/service-checkout/internal/domain/notification"
	"github.com/engel-trans/service-checkout/internal/ports"
	"go.uber.org/zap"
)

// Mailboxes are the business addresses that receive internal messages.
type Mailboxes struct {
	To string
	CC string
}

// Dispatcher composes the transactional messages and delivers them. Send
// failures never propagate: they degrade to a fallback record and are
// reported in the returned Outcome.
type Dispatcher struct {
	sender   ports.MailSender
	recorder ports.FallbackRecorder
	renderer *Renderer
	business Mailboxes
	logger   *zap.Logger
	now      func() time.Time
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(sender ports.MailSender, recorder ports.FallbackRecorder, renderer *Renderer, business Mailboxes, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		sender:   sender,
		recorder: recorder,
		renderer: renderer,
		business: business,
		logger:   logger,
		now:      time.Now,
	}
}

// NotifyQuoteRequest sends a quote request, with any attachments, to the business.
func (d *Dispatcher) NotifyQuoteRequest(ctx context.Context, req domain.QuoteRequest) domain.Outcome {
	email := domain.Email{
		Kind:        domain.KindQuoteRequest,
		To:          nonEmpty(d.business.To),
		CC:          nonEmpty(d.business.CC),
		Attachments: req.Attachments,
	}
	subject, html, text, err := d.renderer.QuoteRequest(req, d.now())
	return d.deliver(ctx, email, subject, html, text, err)
}

// NotifyManualInstructions sends bank-transfer instructions to the customer,
// with the business in CC.
func (d *Dispatcher) NotifyManualInstructions(ctx context.Context, msg domain.OrderMessage) domain.Outcome {
	email := domain.Email{
		Kind:    domain.KindManualInstructions,
		OrderID: msg.Record.OrderID,
		To:      nonEmpty(msg.Customer.Email),
		CC:      nonEmpty(d.business.To),
	}
	subject, html, text, err := d.renderer.ManualInstructions(msg, d.now())
	return d.deliver(ctx, email, subject, html, text, err)
}

// NotifyOrderConfirmation tells the business that an order needs scheduling.
func (d *Dispatcher) NotifyOrderConfirmation(ctx context.Context, msg domain.OrderMessage) domain.Outcome {
	email := domain.Email{
		Kind:    domain.KindOrderConfirmation,
		OrderID: msg.Record.OrderID,
		To:      nonEmpty(d.business.To),
		CC:      nonEmpty(d.business.CC),
	}
	subject, html, text, err := d.renderer.OrderConfirmation(msg, d.now())
	return d.deliver(ctx, email, subject, html, text, err)
}

func (d *Dispatcher) deliver(ctx context.Context, email domain.Email, subject, html, text string, renderErr error) domain.Outcome {
	email.Subject = subject
	email.HTMLBody = html
	email.TextBody = text

	switch {
	case renderErr != nil:
		d.logger.Error("failed to render email", zap.String("kind", string(email.Kind)), zap.Error(renderErr))
		return d.fallback(ctx, email, renderErr.Error())
	case !d.sender.Configured():
		return d.fallback(ctx, email, "smtp credentials not configured")
	case len(email.To) == 0:
		return d.fallback(ctx, email, "no recipient configured")
	}

	if err := d.sender.Send(ctx, email); err != nil {
		d.logger.Error("failed to send email",
			zap.String("kind", string(email.Kind)),
			zap.String("order_id", email.OrderID),
			zap.Error(err),
		)
		return d.fallback(ctx, email, err.Error())
	}
	return domain.Delivered()
}

func (d *Dispatcher) fallback(ctx context.Context, email domain.Email, reason string) domain.Outcome {
	rec := domain.NewFallbackRecord(email, reason, d.now())
	out := domain.Outcome{Reason: reason}
	if err := d.recorder.Record(ctx, rec); err != nil {
		d.logger.Error("failed to record email fallback",
			zap.String("fallback_id", rec.ID.String()),
			zap.Error(err),
		)
		return out
	}
	out.FallbackRecorded = true
	return out
}

func nonEmpty(addrs ...string) []string {
	var out []string
	for _, a := range addrs {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}
