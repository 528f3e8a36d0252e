package application

import (
	"context"
	"errors"
	"sync"

	"github.com/engel-trans/service-checkout/internal/apperror"
	"github.com/engel-trans/service-checkout/internal/domain/booking"
	"github.com/engel-trans/service-checkout/internal/domain/places"
	"go.uber.org/zap"
)

// ErrSuperseded is returned for a lookup whose result arrived after a newer
// request for the same field was started. The result is never applied.
var ErrSuperseded = errors.New("superseded by a newer request")

// Field identifies one of the two address inputs.
type Field int

const (
	FieldPickup Field = iota
	FieldDestination
)

func (f Field) String() string {
	if f == FieldPickup {
		return "pickup"
	}
	return "destination"
}

// AddressLookup is the lookup side used by a Flow.
type AddressLookup interface {
	SearchAddresses(ctx context.Context, req SearchAddressesRequest) SearchAddressesResult
	ResolveDistance(ctx context.Context, req DistanceRequest) (*DistanceResult, error)
}

// PaymentProcessor is the payment side used by a Flow.
type PaymentProcessor interface {
	CreateOrder(ctx context.Context, req QuoteRequest) (*CreateOrderResult, error)
	ConfirmCapture(ctx context.Context, req CaptureConfirmRequest) (*CaptureConfirmResult, error)
	SendManualInstructions(ctx context.Context, req ManualInstructionsRequest) (*ManualInstructionsResult, error)
}

// EstimateRequester forwards quote requests.
type EstimateRequester interface {
	RequestEstimate(ctx context.Context, req EstimateRequest) (*EstimateResult, error)
}

// FlowSnapshot is a read-only view of a Flow.
type FlowSnapshot struct {
	State        booking.CheckoutState
	Customer     booking.Customer
	Pickup       booking.Address
	Destination  booking.Address
	DistanceKm   *float64
	Services     []booking.ServiceCode
	Quote        booking.Quote
	QuotePending bool
	VIP          bool
	PaymentID    string
	Message      string
}

// Flow drives one booking form through the checkout states. Lookups run
// outside the lock; per-field sequence numbers make the newest request win.
type Flow struct {
	mu        sync.Mutex
	state     booking.CheckoutState
	draft     *booking.Draft
	paymentID string
	message   string
	capture   CaptureConfirmRequest

	searchSeq    [2]int64
	searchCancel [2]context.CancelFunc
	addressGen   int64

	lookup    AddressLookup
	payments  PaymentProcessor
	estimates EstimateRequester
	pricing   booking.PricingStrategy
	logger    *zap.Logger
}

// NewFlow creates a Flow in CollectingDetails with an empty draft.
func NewFlow(
	lookup AddressLookup,
	payments PaymentProcessor,
	estimates EstimateRequester,
	pricing booking.PricingStrategy,
	logger *zap.Logger,
) *Flow {
	return &Flow{
		state:     booking.StateCollectingDetails,
		draft:     booking.NewDraft(),
		lookup:    lookup,
		payments:  payments,
		estimates: estimates,
		pricing:   pricing,
		logger:    logger,
	}
}

// State returns the current checkout state.
func (f *Flow) State() booking.CheckoutState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Snapshot returns the current form values and the freshly computed quote.
func (f *Flow) Snapshot() FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := FlowSnapshot{
		State:       f.state,
		Customer:    f.draft.Customer(),
		Pickup:      f.draft.Pickup(),
		Destination: f.draft.Destination(),
		Services:    f.draft.Services(),
		VIP:         f.draft.IsVIP(),
		PaymentID:   f.paymentID,
		Message:     f.message,
	}
	if km, ok := f.draft.DistanceKm(); ok {
		snap.DistanceKm = &km
	}
	snap.Quote, snap.QuotePending = f.currentQuote()
	return snap
}

// SetCustomer updates the contact fields.
func (f *Flow) SetCustomer(c booking.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editable(); err != nil {
		return err
	}
	f.draft.SetCustomer(c)
	return nil
}

// SetSchedule updates the preferred date and time.
func (f *Flow) SetSchedule(date, hour string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editable(); err != nil {
		return err
	}
	f.draft.SetSchedule(date, hour)
	return nil
}

// SetNotes updates the free-text notes.
func (f *Flow) SetNotes(notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editable(); err != nil {
		return err
	}
	f.draft.SetNotes(notes)
	return nil
}

// AddAttachment validates a file by content and adds it to the draft.
func (f *Flow) AddAttachment(filename string, data []byte) error {
	a, err := SniffAttachment(filename, data)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editable(); err != nil {
		return err
	}
	if len(f.draft.Attachments()) >= MaxEstimateFiles {
		return apperror.NewFieldError("files", "too many attachments")
	}
	f.draft.AddAttachment(a)
	return nil
}

// EditAddress replaces the typed text of a field. The resolved place id and
// the distance are cleared, so a resolved or quoted form falls back to
// CollectingDetails.
func (f *Flow) EditAddress(field Field, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editable(); err != nil {
		return err
	}
	f.setAddress(field, booking.Address{Text: text})
	f.addressGen++
	if !f.draft.IsVIP() && f.state != booking.StateCollectingDetails {
		f.state = booking.StateCollectingDetails
	}
	return nil
}

// SearchAddress runs an address search for field. Starting a search cancels
// the previous one on the same field; a result that is no longer the newest
// returns ErrSuperseded.
func (f *Flow) SearchAddress(ctx context.Context, field Field, query string) ([]places.Suggestion, error) {
	f.mu.Lock()
	if cancel := f.searchCancel[field]; cancel != nil {
		cancel()
	}
	f.searchSeq[field]++
	seq := f.searchSeq[field]
	ctx, cancel := context.WithCancel(ctx)
	f.searchCancel[field] = cancel
	f.mu.Unlock()

	result := f.lookup.SearchAddresses(ctx, SearchAddressesRequest{
		Query:         query,
		IsPickupField: field == FieldPickup,
		Sequence:      seq,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchSeq[field] != seq {
		f.logger.Debug("discarding superseded address search",
			zap.String("field", field.String()),
			zap.Int64("sequence", seq),
		)
		return nil, ErrSuperseded
	}
	cancel()
	f.searchCancel[field] = nil
	return result.Results, nil
}

// SelectAddress applies a suggestion to field. Once both fields are resolved
// the distance is fetched; on success the form becomes AddressesResolved, or
// Quoted when billable services are selected. A failed lookup leaves the state
// unchanged and is returned.
func (f *Flow) SelectAddress(ctx context.Context, field Field, s places.Suggestion) error {
	f.mu.Lock()
	if err := f.editable(); err != nil {
		f.mu.Unlock()
		return err
	}
	text := s.Label
	if text == "" {
		text = s.FormattedAddress
	}
	f.setAddress(field, booking.Address{Text: text, PlaceID: s.ID})
	f.addressGen++
	gen := f.addressGen
	if !f.draft.IsVIP() {
		f.state = booking.StateCollectingDetails
	}
	if !f.draft.BothAddressesResolved() {
		f.mu.Unlock()
		return nil
	}
	req := DistanceRequest{OriginID: f.draft.Pickup().PlaceID, DestinationID: f.draft.Destination().PlaceID}
	f.mu.Unlock()

	dist, err := f.lookup.ResolveDistance(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addressGen != gen || f.state.IsPaymentInProgress() {
		return ErrSuperseded
	}
	if err != nil {
		f.message = "Entfernung konnte nicht berechnet werden."
		return err
	}
	f.message = ""
	f.draft.SetDistanceKm(dist.DistanceKm)
	if f.draft.IsVIP() {
		return nil
	}
	f.state = booking.StateAddressesResolved
	if q, _ := f.currentQuote(); !q.IsZero() {
		f.state = booking.StateQuoted
	}
	return nil
}

// ToggleService selects or deselects a service and returns the recomputed
// quote. pending is true while no distance is known.
func (f *Flow) ToggleService(code booking.ServiceCode, selected bool) (quote booking.Quote, pending bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editable(); err != nil {
		quote, pending = f.currentQuote()
		return quote, pending, err
	}
	f.draft.ToggleService(code, selected)
	quote, pending = f.currentQuote()
	if pending || f.draft.IsVIP() {
		return quote, pending, nil
	}
	switch {
	case f.state == booking.StateAddressesResolved && !quote.IsZero():
		f.state = booking.StateQuoted
	case f.state == booking.StateQuoted && quote.IsZero():
		f.state = booking.StateAddressesResolved
	case f.state == booking.StateAwaitingPaymentChoice && quote.IsZero():
		f.state = booking.StateAddressesResolved
	}
	return quote, pending, nil
}

// RequestEstimate sends the draft as a quote request. It needs the contact
// fields and both address strings, and never changes state or totals.
func (f *Flow) RequestEstimate(ctx context.Context) (*EstimateResult, error) {
	f.mu.Lock()
	if err := f.draft.Customer().Validate(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	if !f.draft.HasAddressText() {
		f.mu.Unlock()
		return nil, apperror.NewValidationError("start and end address are required for an estimate")
	}
	req := EstimateRequest{
		Customer: f.draft.Customer(),
		Details:  booking.DetailsFromDraft(f.draft),
	}
	for _, a := range f.draft.Attachments() {
		req.Files = append(req.Files, UploadedFile{Filename: a.Filename, Data: a.Data})
	}
	f.mu.Unlock()

	return f.estimates.RequestEstimate(ctx, req)
}

// ProceedToPayment moves a quoted form with contact fields to
// AwaitingPaymentChoice.
func (f *Flow) ProceedToPayment() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != booking.StateQuoted {
		return apperror.NewInvalidStateError(f.state.String(), booking.StateAwaitingPaymentChoice.String())
	}
	if q, _ := f.currentQuote(); q.IsZero() {
		return apperror.NewValidationError("nothing to pay: select at least one service")
	}
	if err := f.draft.Customer().Validate(); err != nil {
		return err
	}
	return f.transition(booking.StateAwaitingPaymentChoice)
}

// EnterVIP switches to the VIP shortcut: amount plus VAT becomes the quote and
// the form jumps to AwaitingPaymentChoice, PayPal only.
func (f *Flow) EnterVIP(amount float64) error {
	if _, err := booking.VIPQuote(amount); err != nil {
		return apperror.NewFieldError("vipAmount", err.Error())
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.IsPaymentInProgress() || f.state == booking.StateCompleted {
		return apperror.NewInvalidStateError(f.state.String(), booking.StateAwaitingPaymentChoice.String())
	}
	f.draft.SetVIPAmount(amount)
	f.state = booking.StateAwaitingPaymentChoice
	return nil
}

// LeaveVIP drops the VIP amount and returns to the regular form.
func (f *Flow) LeaveVIP() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.draft.IsVIP() || f.state.IsPaymentInProgress() {
		return
	}
	f.draft.ClearVIP()
	f.state = f.regularState()
}

// ChoosePayPal opens a PayPal order and enters PayPalFlow. It returns the
// payment id the browser approves. The order details are frozen with the
// order, so the later capture confirms exactly what was charged.
func (f *Flow) ChoosePayPal(ctx context.Context) (string, error) {
	f.mu.Lock()
	if err := f.readyForPayment(); err != nil {
		f.mu.Unlock()
		return "", err
	}
	req := f.quoteRequest()
	quote, _ := f.currentQuote()
	capture := CaptureConfirmRequest{
		Customer:       f.draft.Customer(),
		ServiceDetails: booking.DetailsFromDraft(f.draft),
		TotalAmount:    quote.Total,
	}
	f.mu.Unlock()

	order, err := f.payments.CreateOrder(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.message = "Zahlung konnte nicht gestartet werden."
		return "", err
	}
	if f.state != booking.StateAwaitingPaymentChoice {
		return "", ErrSuperseded
	}
	if err := f.transition(booking.StatePayPalFlow); err != nil {
		return "", err
	}
	capture.PaymentID = order.PaymentID
	f.capture = capture
	f.paymentID = order.PaymentID
	f.message = ""
	return order.PaymentID, nil
}

// CancelPayPal returns from PayPalFlow to AwaitingPaymentChoice, draft untouched.
func (f *Flow) CancelPayPal() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != booking.StatePayPalFlow {
		return apperror.NewInvalidStateError(f.state.String(), booking.StateAwaitingPaymentChoice.String())
	}
	f.paymentID = ""
	f.capture = CaptureConfirmRequest{}
	return f.transition(booking.StateAwaitingPaymentChoice)
}

// ApprovePayPal captures the approved order with the details frozen by
// ChoosePayPal. Success completes the booking and resets the draft; a capture
// failure returns to AwaitingPaymentChoice with the draft untouched. A capture
// held for review also returns there, keeping the review message.
func (f *Flow) ApprovePayPal(ctx context.Context) (*CaptureConfirmResult, error) {
	f.mu.Lock()
	if f.state != booking.StatePayPalFlow {
		err := apperror.NewInvalidStateError(f.state.String(), booking.StateCompleted.String())
		f.mu.Unlock()
		return nil, err
	}
	req := f.capture
	f.mu.Unlock()

	result, err := f.payments.ConfirmCapture(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.paymentID = ""
		f.capture = CaptureConfirmRequest{}
		f.message = "Zahlung konnte nicht abgeschlossen werden."
		_ = f.transition(booking.StateAwaitingPaymentChoice)
		return nil, err
	}
	if !result.Success {
		f.logger.Warn("paypal capture held for review", zap.String("payment_id", req.PaymentID))
		f.paymentID = ""
		f.capture = CaptureConfirmRequest{}
		f.message = result.Message
		_ = f.transition(booking.StateAwaitingPaymentChoice)
		return result, nil
	}
	f.complete()
	return result, nil
}

// ChooseManualTransfer sends bank-transfer instructions. Delivery completes
// the booking; otherwise the form returns to AwaitingPaymentChoice with a
// contact-us message.
func (f *Flow) ChooseManualTransfer(ctx context.Context) (*ManualInstructionsResult, error) {
	f.mu.Lock()
	if err := f.readyForPayment(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	if f.draft.IsVIP() {
		f.mu.Unlock()
		return nil, apperror.NewValidationError("bank transfer is not available for VIP orders")
	}
	if err := f.transition(booking.StateManualTransferFlow); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	quote, _ := f.currentQuote()
	req := ManualInstructionsRequest{
		Customer:       f.draft.Customer(),
		ServiceDetails: booking.DetailsFromDraft(f.draft),
		TotalAmount:    quote.Total,
	}
	f.mu.Unlock()

	result, err := f.payments.SendManualInstructions(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil || !result.InstructionsSent {
		f.message = ManualFailureMessage
		_ = f.transition(booking.StateAwaitingPaymentChoice)
		return result, err
	}
	f.complete()
	return result, nil
}

func (f *Flow) readyForPayment() error {
	if f.state != booking.StateAwaitingPaymentChoice {
		return apperror.NewInvalidStateError(f.state.String(), "payment")
	}
	if q, _ := f.currentQuote(); q.IsZero() {
		return apperror.NewValidationError("nothing to pay")
	}
	return f.draft.Customer().Validate()
}

func (f *Flow) complete() {
	_ = f.transition(booking.StateCompleted)
	f.logger.Info("checkout completed", zap.Bool("vip", f.draft.IsVIP()))
	f.draft.Reset()
	f.paymentID = ""
	f.capture = CaptureConfirmRequest{}
	f.message = ""
	f.addressGen++
	_ = f.transition(booking.StateCollectingDetails)
}

// editable rejects draft changes while a payment is open. It must be called
// with mu held.
func (f *Flow) editable() error {
	if f.state.IsPaymentInProgress() {
		return apperror.NewInvalidStateError(f.state.String(), "edit")
	}
	return nil
}

func (f *Flow) transition(target booking.CheckoutState) error {
	if !f.state.CanTransitionTo(target) {
		return apperror.NewInvalidStateError(f.state.String(), target.String())
	}
	f.state = target
	return nil
}

// currentQuote recomputes the quote from the draft. It must be called with mu held.
func (f *Flow) currentQuote() (booking.Quote, bool) {
	if amount, ok := f.draft.VIPAmount(); ok {
		q, _ := booking.VIPQuote(amount)
		return q, false
	}
	km, ok := f.draft.DistanceKm()
	if !ok {
		return booking.Quote{Currency: booking.Currency}, len(f.draft.Services()) > 0
	}
	return f.pricing.Quote(f.draft.Services(), km), false
}

func (f *Flow) quoteRequest() QuoteRequest {
	if amount, ok := f.draft.VIPAmount(); ok {
		return QuoteRequest{VIPAmount: &amount}
	}
	km, _ := f.draft.DistanceKm()
	return QuoteRequest{Services: f.draft.Services(), DistanceKm: km}
}

// regularState is the non-payment state implied by the draft.
func (f *Flow) regularState() booking.CheckoutState {
	if _, ok := f.draft.DistanceKm(); !ok || !f.draft.BothAddressesResolved() {
		return booking.StateCollectingDetails
	}
	if q, _ := f.currentQuote(); !q.IsZero() {
		return booking.StateQuoted
	}
	return booking.StateAddressesResolved
}

func (f *Flow) setAddress(field Field, a booking.Address) {
	if field == FieldPickup {
		f.draft.SetPickup(a)
		return
	}
	f.draft.SetDestination(a)
}
