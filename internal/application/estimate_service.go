package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/engel-trans/service-checkout/internal/apperror"
	"github.com/engel-trans/service-checkout/internal/domain/booking"
	"github.com/engel-trans/service-checkout/internal/domain/notification"
	"github.com/engel-trans/service-checkout/internal/events"
	"github.com/engel-trans/service-checkout/internal/ports"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxEstimateFiles caps the attachments of one estimate request.
const MaxEstimateFiles = 5

// UploadedFile is a raw file received with an estimate request.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// EstimateRequest asks the business for a detailed quote.
type EstimateRequest struct {
	Customer booking.Customer
	Details  booking.ServiceDetails
	Files    []UploadedFile
}

// EstimateResult reports whether the request reached the business.
type EstimateResult struct {
	Accepted         bool `json:"accepted"`
	EmailSent        bool `json:"emailSent"`
	FallbackRecorded bool `json:"fallbackRecorded"`
	FilesAttached    int  `json:"filesAttached"`
}

// EstimateService forwards quote requests to the business.
type EstimateService struct {
	notifier  ports.Notifier
	publisher ports.EventPublisher
	pricing   booking.PricingStrategy
	logger    *zap.Logger
	now       func() time.Time
}

// NewEstimateService creates a new EstimateService.
func NewEstimateService(
	notifier ports.Notifier,
	publisher ports.EventPublisher,
	pricing booking.PricingStrategy,
	logger *zap.Logger,
) *EstimateService {
	return &EstimateService{
		notifier:  notifier,
		publisher: publisher,
		pricing:   pricing,
		logger:    logger,
		now:       time.Now,
	}
}

// RequestEstimate validates the request and its files, then emails the
// business. It never changes a price; the estimated total is informational.
func (s *EstimateService) RequestEstimate(ctx context.Context, req EstimateRequest) (*EstimateResult, error) {
	if err := req.Customer.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Details.StartAddress) == "" || strings.TrimSpace(req.Details.EndAddress) == "" {
		return nil, apperror.NewValidationError("start and end address are required for an estimate")
	}
	if len(req.Files) > MaxEstimateFiles {
		return nil, apperror.NewFieldError("files", fmt.Sprintf("at most %d files may be attached", MaxEstimateFiles))
	}

	attachments := make([]notification.Attachment, 0, len(req.Files))
	for _, f := range req.Files {
		a, err := SniffAttachment(f.Filename, f.Data)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, notification.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Data:        a.Data,
		})
	}

	var quote *booking.Quote
	if len(req.Details.Services) > 0 && req.Details.DistanceKm > 0 {
		q := s.pricing.Quote(req.Details.Services, req.Details.DistanceKm)
		if !q.IsZero() {
			quote = &q
		}
	}

	outcome := s.notifier.NotifyQuoteRequest(ctx, notification.QuoteRequest{
		Customer:    req.Customer,
		Details:     req.Details,
		Quote:       quote,
		Attachments: attachments,
	})

	evt := events.EstimateRequestedEvent{
		RequestID:    uuid.NewString(),
		CustomerName: req.Customer.Name,
		Services:     serviceNames(req.Details.Services),
		DistanceKm:   req.Details.DistanceKm,
		Attachments:  len(attachments),
		EmailSent:    outcome.Delivered,
		OccurredAt:   s.now().UTC(),
	}
	if quote != nil {
		evt.EstimatedTotal = quote.Total
	}
	if err := s.publisher.Publish(ctx, events.EstimateRequested, evt.RequestID, evt); err != nil {
		s.logger.Error("failed to publish event", zap.String("event_type", events.EstimateRequested), zap.Error(err))
	}

	s.logger.Info("estimate request handled",
		zap.String("request_id", evt.RequestID),
		zap.Bool("email_sent", outcome.Delivered),
		zap.Int("files", len(attachments)),
	)
	return &EstimateResult{
		Accepted:         outcome.Delivered || outcome.FallbackRecorded,
		EmailSent:        outcome.Delivered,
		FallbackRecorded: outcome.FallbackRecorded,
		FilesAttached:    len(attachments),
	}, nil
}

// SniffAttachment validates a file by its content, ignoring the type the
// client claimed.
func SniffAttachment(filename string, data []byte) (booking.Attachment, error) {
	detected := mimetype.Detect(data)
	a, err := booking.NewAttachment(filename, detected.String(), data)
	if err != nil {
		return booking.Attachment{}, apperror.NewFieldError("files", err.Error())
	}
	return a, nil
}
