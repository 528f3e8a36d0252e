package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultPlacesURL = "https://places.googleapis.com/v1/places:searchText"
	defaultRoutesURL = "https://routes.googleapis.com/directions/v2:computeRoutes"

	tracerName = "github.com/engel-trans/service-checkout/internal/maps"
)

// StatusError is a non-2xx answer from the provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("maps provider returned %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth one more attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client talks to the Google Places (New) and Routes APIs. Both lookups are
// idempotent and get a single retry on transport errors, 429 and 5xx.
type Client struct {
	apiKey     string
	placesURL  string
	routesURL  string
	httpClient *http.Client
	maxRetries uint64
	backoffMin time.Duration
	tracer     trace.Tracer
	logger     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoints overrides the provider URLs.
func WithEndpoints(placesURL, routesURL string) Option {
	return func(c *Client) {
		c.placesURL = placesURL
		c.routesURL = routesURL
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryInterval sets the wait before the retry.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.backoffMin = d }
}

// NewClient creates a maps Client.
func NewClient(apiKey string, timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		placesURL:  defaultPlacesURL,
		routesURL:  defaultRoutesURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: 1,
		backoffMin: 250 * time.Millisecond,
		tracer:     otel.Tracer(tracerName),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

func (c *Client) post(ctx context.Context, span string, url, fieldMask string, body, out interface{}) error {
	ctx, sp := c.tracer.Start(ctx, span, trace.WithSpanKind(trace.SpanKindClient))
	defer sp.End()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", span, err)
	}

	attempt := 0
	op := func() error {
		attempt++
		err := c.do(ctx, url, fieldMask, payload, out)
		if err == nil {
			return nil
		}
		var pe *backoff.PermanentError
		if errors.As(err, &pe) {
			return err
		}
		var se *StatusError
		if errors.As(err, &se) && !se.Retryable() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		c.logger.Warn("maps request failed",
			zap.String("operation", span),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.backoffMin
	b.MaxInterval = 4 * c.backoffMin
	err = backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))

	sp.SetAttributes(attribute.Int("maps.attempts", attempt))
	if err != nil {
		sp.RecordError(err)
		sp.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) do(ctx context.Context, url, fieldMask string, payload []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}
