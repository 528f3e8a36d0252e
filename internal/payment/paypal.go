package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/engel-trans/service-checkout/internal/apperror"
	"github.com/engel-trans/service-checkout/internal/domain/booking"
	domain "github.com/engel-trans/service-checkout/internal/domain/payment"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	sandboxURL = "https://api-m.sandbox.paypal.com"
	liveURL    = "https://api-m.paypal.com"

	// tokenLeeway renews the access token this long before it expires.
	tokenLeeway = time.Minute

	issueAlreadyCaptured = "ORDER_ALREADY_CAPTURED"
)

// PayPalClient is a PayPal Orders v2 gateway. Calls are never retried;
// order creation carries a PayPal-Request-Id idempotency key.
type PayPalClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
	tracer       trace.Tracer
	logger       *zap.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
	now         func() time.Time
}

// Option customizes a PayPalClient.
type Option func(*PayPalClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *PayPalClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithClock replaces the clock used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *PayPalClient) { c.now = now }
}

// NewPayPalClient creates a PayPal gateway for the sandbox or live environment.
func NewPayPalClient(clientID, clientSecret, environment string, timeout time.Duration, logger *zap.Logger, opts ...Option) *PayPalClient {
	base := sandboxURL
	if environment == "live" {
		base = liveURL
	}
	c := &PayPalClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      base,
		httpClient:   &http.Client{Timeout: timeout},
		tracer:       otel.Tracer("github.com/engel-trans/service-checkout/internal/payment"),
		logger:       logger,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether client credentials are present.
func (c *PayPalClient) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

type money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnit struct {
	ReferenceID string `json:"reference_id,omitempty"`
	Description string `json:"description,omitempty"`
	Amount      money  `json:"amount"`
}

type createOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type orderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
				Amount money  `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

type apiError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Details []struct {
		Issue       string `json:"issue"`
		Description string `json:"description"`
	} `json:"details"`
}

// failure is a non-2xx PayPal answer.
type failure struct {
	status int
	body   apiError
}

func (f *failure) Error() string {
	msg := f.body.Message
	if msg == "" {
		msg = http.StatusText(f.status)
	}
	return fmt.Sprintf("status %d: %s", f.status, msg)
}

func (f *failure) hasIssue(issue string) bool {
	for _, d := range f.body.Details {
		if d.Issue == issue {
			return true
		}
	}
	return false
}

// CreateOrder opens a CAPTURE intent order for the given amount.
func (c *PayPalClient) CreateOrder(ctx context.Context, intent domain.OrderIntent) (domain.CreatedOrder, error) {
	if !c.Configured() {
		return domain.CreatedOrder{}, apperror.NewNotConfiguredError("paypal")
	}
	if intent.Amount <= 0 {
		return domain.CreatedOrder{}, apperror.NewFieldError("amount", "amount must be positive")
	}
	currency := intent.Currency
	if currency == "" {
		currency = booking.Currency
	}

	ctx, span := c.tracer.Start(ctx, "paypal.createOrder", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	body := createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			ReferenceID: intent.ReferenceID,
			Description: truncate(intent.Description, 127),
			Amount:      money{CurrencyCode: currency, Value: booking.FormatAmount(intent.Amount)},
		}},
	}
	requestID := uuid.NewString()
	span.SetAttributes(attribute.String("paypal.request_id", requestID))

	var resp orderResponse
	if err := c.call(ctx, http.MethodPost, "/v2/checkout/orders", requestID, body, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.CreatedOrder{}, apperror.NewUpstreamError("paypal", "create order failed", err)
	}

	c.logger.Info("paypal order created",
		zap.String("order_id", resp.ID),
		zap.String("status", resp.Status),
		zap.String("amount", booking.FormatAmount(intent.Amount)),
	)
	return domain.CreatedOrder{ID: resp.ID, Status: resp.Status}, nil
}

// CaptureOrder captures an approved order. An order that was already
// captured is read back and accepted when PayPal reports it COMPLETED.
func (c *PayPalClient) CaptureOrder(ctx context.Context, orderID string) (domain.Capture, error) {
	if !c.Configured() {
		return domain.Capture{}, apperror.NewNotConfiguredError("paypal")
	}
	if strings.TrimSpace(orderID) == "" {
		return domain.Capture{}, apperror.NewFieldError("paymentId", "payment id is required")
	}

	ctx, span := c.tracer.Start(ctx, "paypal.captureOrder", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("paypal.order_id", orderID))

	path := "/v2/checkout/orders/" + url.PathEscape(orderID)
	var resp orderResponse
	err := c.call(ctx, http.MethodPost, path+"/capture", uuid.NewString(), struct{}{}, &resp)
	var f *failure
	if errors.As(err, &f) && f.hasIssue(issueAlreadyCaptured) {
		c.logger.Info("paypal order already captured, reading order", zap.String("order_id", orderID))
		resp = orderResponse{}
		err = c.call(ctx, http.MethodGet, path, "", nil, &resp)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Capture{}, apperror.NewUpstreamError("paypal", "capture failed", err)
	}

	capture := toCapture(resp)
	if !capture.Completed() {
		return domain.Capture{}, apperror.NewUpstreamError("paypal",
			fmt.Sprintf("order %s is %s, not COMPLETED", orderID, capture.Status), nil)
	}
	c.logger.Info("paypal order captured",
		zap.String("order_id", orderID),
		zap.String("transaction_id", capture.TransactionID),
	)
	return capture, nil
}

func toCapture(resp orderResponse) domain.Capture {
	capture := domain.Capture{OrderID: resp.ID, TransactionID: resp.ID, Status: resp.Status}
	if len(resp.PurchaseUnits) == 0 || len(resp.PurchaseUnits[0].Payments.Captures) == 0 {
		return capture
	}
	cp := resp.PurchaseUnits[0].Payments.Captures[0]
	capture.TransactionID = cp.ID
	capture.Currency = cp.Amount.CurrencyCode
	if v, err := strconv.ParseFloat(cp.Amount.Value, 64); err == nil {
		capture.Amount = v
	}
	return capture
}

func (c *PayPalClient) call(ctx context.Context, method, path, requestID string, body, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("PayPal-Request-Id", requestID)
	}

	return c.do(req, out)
}

func (c *PayPalClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f := &failure{status: resp.StatusCode}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 8192)).Decode(&f.body)
		return f
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// token returns a cached OAuth2 client-credentials token, fetching a new one
// when the cached token is about to expire.
func (c *PayPalClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tr tokenResponse
	if err := c.do(req, &tr); err != nil {
		return "", fmt.Errorf("failed to obtain access token: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response carried no access token")
	}

	c.accessToken = tr.AccessToken
	c.expiresAt = c.now().Add(time.Duration(tr.ExpiresIn)*time.Second - tokenLeeway)
	return c.accessToken, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
