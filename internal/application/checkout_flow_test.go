package application

import (
	"context"
	"errors"
	"testing"

	"github.com/engel-trans/service-checkout/internal/apperror"
	"github.com/engel-trans/service-checkout/internal/domain/booking"
	"github.com/engel-trans/service-checkout/internal/domain/notification"
	"github.com/engel-trans/service-checkout/internal/domain/payment"
	"github.com/engel-trans/service-checkout/internal/domain/places"
	"github.com/engel-trans/service-checkout/internal/domain/route"
	"github.com/engel-trans/service-checkout/internal/ports"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flowFixture struct {
	flow      *Flow
	places    *ports.MockPlaceProvider
	routes    *ports.MockRouteProvider
	gateway   *ports.MockPaymentGateway
	notifier  *ports.MockNotifier
	publisher *ports.MockEventPublisher
}

func newFlowFixture(t *testing.T) flowFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	fx := flowFixture{
		places:    ports.NewMockPlaceProvider(ctrl),
		routes:    ports.NewMockRouteProvider(ctrl),
		gateway:   ports.NewMockPaymentGateway(ctrl),
		notifier:  ports.NewMockNotifier(ctrl),
		publisher: ports.NewMockEventPublisher(ctrl),
	}
	fx.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	pricing := booking.NewStandardPricingStrategy(booking.StandardTariff())
	logger := zap.NewNop()
	lookup := NewCheckoutService(fx.places, fx.routes, pricing, false, logger)
	payments := NewPaymentService(fx.gateway, fx.notifier, fx.publisher, pricing, logger)
	estimates := NewEstimateService(fx.notifier, fx.publisher, pricing, logger)
	fx.flow = NewFlow(lookup, payments, estimates, pricing, logger)
	return fx
}

// resolve walks the form to AddressesResolved with a 100 km route.
func (fx flowFixture) resolve(t *testing.T) {
	t.Helper()
	fx.routes.EXPECT().ComputeRoute(gomock.Any(), "p1", "d1").Return(route.Route{DistanceMeters: 100000, DurationSeconds: 3600}, nil)
	require.NoError(t, fx.flow.SelectAddress(context.Background(), FieldPickup, places.Suggestion{ID: "p1", Label: "Hauptstraße 1, 10115 Berlin, Deutschland"}))
	require.NoError(t, fx.flow.SelectAddress(context.Background(), FieldDestination, places.Suggestion{ID: "d1", Label: "Potsdam, Deutschland"}))
}

func TestFlow_QuotedAfterAddressesWithServices(t *testing.T) {
	fx := newFlowFixture(t)

	q, pending, err := fx.flow.ToggleService(booking.ServiceTowingGermany, true)
	require.NoError(t, err)
	assert.True(t, pending)
	assert.True(t, q.IsZero())
	assert.Equal(t, booking.StateCollectingDetails, fx.flow.State())

	fx.resolve(t)
	snap := fx.flow.Snapshot()
	assert.Equal(t, booking.StateQuoted, snap.State)
	require.NotNil(t, snap.DistanceKm)
	assert.InDelta(t, 100, *snap.DistanceKm, 0.001)
	assert.InDelta(t, 190.40, snap.Quote.Total, 0.001)

	q, pending, err = fx.flow.ToggleService(booking.ServiceMoving, true)
	require.NoError(t, err)
	assert.False(t, pending)
	assert.InDelta(t, (160+150)*1.19, q.Total, 0.001)
	assert.Equal(t, booking.StateQuoted, fx.flow.State())

	fx.flow.ToggleService(booking.ServiceTowingGermany, false)
	fx.flow.ToggleService(booking.ServiceMoving, false)
	assert.Equal(t, booking.StateAddressesResolved, fx.flow.State())
}

func TestFlow_DistanceFailureKeepsState(t *testing.T) {
	fx := newFlowFixture(t)
	fx.routes.EXPECT().ComputeRoute(gomock.Any(), "p1", "d1").
		Return(route.Route{}, route.NewFailure(route.ReasonNoRoute, "no route found", nil))

	require.NoError(t, fx.flow.SelectAddress(context.Background(), FieldPickup, places.Suggestion{ID: "p1", Label: "A"}))
	err := fx.flow.SelectAddress(context.Background(), FieldDestination, places.Suggestion{ID: "d1", Label: "B"})

	var failure *route.Failure
	require.ErrorAs(t, err, &failure)
	snap := fx.flow.Snapshot()
	assert.Equal(t, booking.StateCollectingDetails, snap.State)
	assert.Nil(t, snap.DistanceKm)
	assert.NotEmpty(t, snap.Message)
}

func TestFlow_EditAddressInvalidatesDistance(t *testing.T) {
	fx := newFlowFixture(t)
	fx.flow.ToggleService(booking.ServiceTowingGermany, true)
	fx.resolve(t)
	require.Equal(t, booking.StateQuoted, fx.flow.State())

	require.NoError(t, fx.flow.EditAddress(FieldDestination, "Pots"))
	snap := fx.flow.Snapshot()
	assert.Equal(t, booking.StateCollectingDetails, snap.State)
	assert.Nil(t, snap.DistanceKm)
	assert.Empty(t, snap.Destination.PlaceID)
	assert.True(t, snap.QuotePending)
}

func TestFlow_SearchLatestRequestWins(t *testing.T) {
	fx := newFlowFixture(t)

	started := make(chan struct{})
	fx.places.EXPECT().SearchText(gomock.Any(), "Mü").DoAndReturn(
		func(ctx context.Context, _ string) ([]places.Place, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})
	fx.places.EXPECT().SearchText(gomock.Any(), "Münch").Return([]places.Place{place("m1", "München", "DE")}, nil)

	type outcome struct {
		res []places.Suggestion
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		res, err := fx.flow.SearchAddress(context.Background(), FieldPickup, "Mü")
		first <- outcome{res, err}
	}()
	<-started

	res, err := fx.flow.SearchAddress(context.Background(), FieldPickup, "Münch")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "m1", res[0].ID)

	old := <-first
	assert.ErrorIs(t, old.err, ErrSuperseded)
	assert.Nil(t, old.res)
}

func TestFlow_SearchFieldsAreIndependent(t *testing.T) {
	fx := newFlowFixture(t)
	fx.places.EXPECT().SearchText(gomock.Any(), "Wien").Return([]places.Place{place("w1", "Wien", "AT")}, nil).Times(2)

	pickup, err := fx.flow.SearchAddress(context.Background(), FieldPickup, "Wien")
	require.NoError(t, err)
	assert.Empty(t, pickup)

	dest, err := fx.flow.SearchAddress(context.Background(), FieldDestination, "Wien")
	require.NoError(t, err)
	assert.Len(t, dest, 1)
}

func TestFlow_ProceedToPaymentNeedsContactFields(t *testing.T) {
	fx := newFlowFixture(t)
	fx.flow.ToggleService(booking.ServiceTowingGermany, true)
	fx.resolve(t)

	err := fx.flow.ProceedToPayment()
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, booking.StateQuoted, fx.flow.State())

	fx.flow.SetCustomer(testCustomer)
	require.NoError(t, fx.flow.ProceedToPayment())
	assert.Equal(t, booking.StateAwaitingPaymentChoice, fx.flow.State())
}

func TestFlow_ProceedToPaymentRequiresQuote(t *testing.T) {
	fx := newFlowFixture(t)
	fx.flow.SetCustomer(testCustomer)
	fx.resolve(t)

	err := fx.flow.ProceedToPayment()
	assert.True(t, apperror.IsInvalidState(err))
}

func TestFlow_PayPalCaptureFailureKeepsDraft(t *testing.T) {
	fx := newFlowFixture(t)
	fx.flow.SetCustomer(testCustomer)
	fx.flow.ToggleService(booking.ServiceTowingGermany, true)
	fx.resolve(t)
	require.NoError(t, fx.flow.ProceedToPayment())

	fx.gateway.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(payment.CreatedOrder{ID: "PAY-1"}, nil)
	id, err := fx.flow.ChoosePayPal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", id)
	assert.Equal(t, booking.StatePayPalFlow, fx.flow.State())

	fx.gateway.EXPECT().CaptureOrder(gomock.Any(), "PAY-1").
		Return(payment.Capture{}, apperror.NewUpstreamError("paypal", "capture failed", errors.New("declined")))
	_, err = fx.flow.ApprovePayPal(context.Background())
	require.Error(t, err)

	snap := fx.flow.Snapshot()
	assert.Equal(t, booking.StateAwaitingPaymentChoice, snap.State)
	assert.Equal(t, testCustomer, snap.Customer)
	assert.InDelta(t, 190.40, snap.Quote.Total, 0.001)
	assert.Empty(t, snap.PaymentID)
}

func TestFlow_DraftLockedWhilePaymentOpen(t *testing.T) {
	fx := newFlowFixture(t)
	require.NoError(t, fx.flow.SetCustomer(testCustomer))
	fx.flow.ToggleService(booking.ServiceTowingGermany, true)
	fx.resolve(t)
	require.NoError(t, fx.flow.ProceedToPayment())

	fx.gateway.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(payment.CreatedOrder{ID: "PAY-L"}, nil)
	_, err := fx.flow.ChoosePayPal(context.Background())
	require.NoError(t, err)

	q, _, err := fx.flow.ToggleService(booking.ServiceMoving, true)
	assert.True(t, apperror.IsInvalidState(err))
	assert.InDelta(t, 190.40, q.Total, 0.001)

	other := booking.Customer{Name: "Erika Muster", Email: "erika@example.de", Phone: "+49 30 999"}
	edits := []struct {
		name string
		edit func() error
	}{
		{"customer", func() error { return fx.flow.SetCustomer(other) }},
		{"schedule", func() error { return fx.flow.SetSchedule("2026-11-02", "09") }},
		{"notes", func() error { return fx.flow.SetNotes("bitte anrufen") }},
		{"attachment", func() error { return fx.flow.AddAttachment("foto.png", pngBytes) }},
		{"address text", func() error { return fx.flow.EditAddress(FieldDestination, "Wien") }},
		{"address selection", func() error {
			return fx.flow.SelectAddress(context.Background(), FieldDestination, places.Suggestion{ID: "w1", Label: "Wien"})
		}},
	}
	for _, tt := range edits {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperror.IsInvalidState(tt.edit()))
		})
	}
	assert.Equal(t, booking.StatePayPalFlow, fx.flow.State())

	fx.gateway.EXPECT().CaptureOrder(gomock.Any(), "PAY-L").
		Return(payment.Capture{TransactionID: "CAP-L", Status: "COMPLETED", Amount: 190.40, Currency: "EUR"}, nil)
	fx.notifier.EXPECT().NotifyOrderConfirmation(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg notification.OrderMessage) notification.Outcome {
			assert.Equal(t, testCustomer, msg.Customer)
			assert.Equal(t, []booking.ServiceCode{booking.ServiceTowingGermany}, msg.Details.Services)
			assert.Equal(t, "Potsdam, Deutschland", msg.Details.EndAddress)
			assert.InDelta(t, 190.40, msg.Record.Amount, 0.001)
			return notification.Delivered()
		})

	res, err := fx.flow.ApprovePayPal(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestFlow_PayPalCaptureHeldForReview(t *testing.T) {
	fx := newFlowFixture(t)
	require.NoError(t, fx.flow.SetCustomer(testCustomer))
	fx.flow.ToggleService(booking.ServiceTowingGermany, true)
	fx.resolve(t)
	require.NoError(t, fx.flow.ProceedToPayment())

	fx.gateway.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(payment.CreatedOrder{ID: "PAY-R"}, nil)
	fx.gateway.EXPECT().CaptureOrder(gomock.Any(), "PAY-R").
		Return(payment.Capture{TransactionID: "CAP-R", Status: "COMPLETED", Amount: 1.19, Currency: "EUR"}, nil)

	_, err := fx.flow.ChoosePayPal(context.Background())
	require.NoError(t, err)
	res, err := fx.flow.ApprovePayPal(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, res.ReviewRequired)

	snap := fx.flow.Snapshot()
	assert.Equal(t, booking.StateAwaitingPaymentChoice, snap.State)
	assert.Equal(t, ReviewMessage, snap.Message)
	assert.Empty(t, snap.PaymentID)
	assert.Equal(t, testCustomer, snap.Customer)
}

func TestFlow_PayPalCancelReturnsToChoice(t *testing.T) {
	fx := newFlowFixture(t)
	fx.flow.SetCustomer(testCustomer)
	fx.flow.ToggleService(booking.ServiceMoving, true)
	fx.resolve(t)
	require.NoError(t, fx.flow.ProceedToPayment())

	fx.gateway.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(payment.CreatedOrder{ID: "PAY-2"}, nil)
	_, err := fx.flow.ChoosePayPal(context.Background())
	require.NoError(t, err)

	require.NoError(t, fx.flow.CancelPayPal())
	assert.Equal(t, booking.StateAwaitingPaymentChoice, fx.flow.State())
	assert.Equal(t, []booking.ServiceCode{booking.ServiceMoving}, fx.flow.Snapshot().Services)
}

func TestFlow_PayPalSuccessResetsDraftEvenWithoutEmail(t *testing.T) {
	fx := newFlowFixture(t)
	fx.flow.SetCustomer(testCustomer)
	fx.flow.ToggleService(booking.ServiceTowingGermany, true)
	fx.resolve(t)
	require.NoError(t, fx.flow.ProceedToPayment())

	fx.gateway.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(payment.CreatedOrder{ID: "PAY-3"}, nil)
	fx.gateway.EXPECT().CaptureOrder(gomock.Any(), "PAY-3").
		Return(payment.Capture{TransactionID: "CAP-3", Status: "COMPLETED", Amount: 190.40, Currency: "EUR"}, nil)
	fx.notifier.EXPECT().NotifyOrderConfirmation(gomock.Any(), gomock.Any()).
		Return(notification.Outcome{FallbackRecorded: true, Reason: "smtp down"})

	_, err := fx.flow.ChoosePayPal(context.Background())
	require.NoError(t, err)
	res, err := fx.flow.ApprovePayPal(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.EmailSent)

	snap := fx.flow.Snapshot()
	assert.Equal(t, booking.StateCollectingDetails, snap.State)
	assert.Empty(t, snap.Customer.Name)
	assert.Empty(t, snap.Services)
	assert.Nil(t, snap.DistanceKm)
}

func TestFlow_ManualTransfer(t *testing.T) {
	t.Run("undelivered instructions return to choice", func(t *testing.T) {
		fx := newFlowFixture(t)
		fx.flow.SetCustomer(testCustomer)
		fx.flow.ToggleService(booking.ServiceTowingGermany, true)
		fx.resolve(t)
		require.NoError(t, fx.flow.ProceedToPayment())

		fx.notifier.EXPECT().NotifyManualInstructions(gomock.Any(), gomock.Any()).
			Return(notification.Outcome{Reason: "smtp credentials not configured"})

		res, err := fx.flow.ChooseManualTransfer(context.Background())
		require.NoError(t, err)
		assert.False(t, res.InstructionsSent)

		snap := fx.flow.Snapshot()
		assert.Equal(t, booking.StateAwaitingPaymentChoice, snap.State)
		assert.Equal(t, ManualFailureMessage, snap.Message)
		assert.Equal(t, testCustomer, snap.Customer)
	})

	t.Run("delivered instructions complete", func(t *testing.T) {
		fx := newFlowFixture(t)
		fx.flow.SetCustomer(testCustomer)
		fx.flow.ToggleService(booking.ServiceTowingGermany, true)
		fx.resolve(t)
		require.NoError(t, fx.flow.ProceedToPayment())

		fx.notifier.EXPECT().NotifyManualInstructions(gomock.Any(), gomock.Any()).Return(notification.Delivered())
		fx.notifier.EXPECT().NotifyOrderConfirmation(gomock.Any(), gomock.Any()).Return(notification.Delivered())

		res, err := fx.flow.ChooseManualTransfer(context.Background())
		require.NoError(t, err)
		assert.True(t, res.InstructionsSent)
		assert.True(t, res.SupportEmailSent)
		assert.Equal(t, booking.StateCollectingDetails, fx.flow.State())
	})
}

func TestFlow_VIPShortcut(t *testing.T) {
	fx := newFlowFixture(t)

	require.NoError(t, fx.flow.EnterVIP(50))
	snap := fx.flow.Snapshot()
	assert.Equal(t, booking.StateAwaitingPaymentChoice, snap.State)
	assert.True(t, snap.VIP)
	assert.InDelta(t, 59.50, snap.Quote.Total, 0.001)
	assert.False(t, snap.QuotePending)

	fx.flow.SetCustomer(testCustomer)
	_, err := fx.flow.ChooseManualTransfer(context.Background())
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, booking.StateAwaitingPaymentChoice, fx.flow.State())

	fx.gateway.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, intent payment.OrderIntent) (payment.CreatedOrder, error) {
			assert.InDelta(t, 59.50, intent.Amount, 0.001)
			return payment.CreatedOrder{ID: "PAY-V"}, nil
		})
	fx.gateway.EXPECT().CaptureOrder(gomock.Any(), "PAY-V").
		Return(payment.Capture{TransactionID: "CAP-V", Status: "COMPLETED", Amount: 59.50, Currency: "EUR"}, nil)
	fx.notifier.EXPECT().NotifyOrderConfirmation(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg notification.OrderMessage) notification.Outcome {
			assert.True(t, msg.Details.IsVIP())
			return notification.Delivered()
		})

	_, err = fx.flow.ChoosePayPal(context.Background())
	require.NoError(t, err)
	res, err := fx.flow.ApprovePayPal(context.Background())
	require.NoError(t, err)
	assert.True(t, res.EmailSent)
	assert.Equal(t, booking.StateCollectingDetails, fx.flow.State())
	assert.False(t, fx.flow.Snapshot().VIP)
}

func TestFlow_EnterVIPRejectsNonPositive(t *testing.T) {
	fx := newFlowFixture(t)
	assert.True(t, apperror.IsValidation(fx.flow.EnterVIP(0)))
	assert.Equal(t, booking.StateCollectingDetails, fx.flow.State())
}

func TestFlow_LeaveVIPRestoresRegularState(t *testing.T) {
	fx := newFlowFixture(t)
	fx.flow.ToggleService(booking.ServiceTowingGermany, true)
	fx.resolve(t)

	require.NoError(t, fx.flow.EnterVIP(100))
	fx.flow.LeaveVIP()
	assert.Equal(t, booking.StateQuoted, fx.flow.State())
}

func TestFlow_RequestEstimateIsASideTransition(t *testing.T) {
	fx := newFlowFixture(t)

	_, err := fx.flow.RequestEstimate(context.Background())
	assert.True(t, apperror.IsValidation(err))

	require.NoError(t, fx.flow.SetCustomer(testCustomer))
	require.NoError(t, fx.flow.EditAddress(FieldPickup, "Berlin"))
	require.NoError(t, fx.flow.EditAddress(FieldDestination, "Wien"))
	require.NoError(t, fx.flow.AddAttachment("foto.png", pngBytes))

	fx.notifier.EXPECT().NotifyQuoteRequest(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req notification.QuoteRequest) notification.Outcome {
			assert.Equal(t, "Berlin", req.Details.StartAddress)
			assert.Len(t, req.Attachments, 1)
			return notification.Delivered()
		})

	res, err := fx.flow.RequestEstimate(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, booking.StateCollectingDetails, fx.flow.State())
	assert.Equal(t, "Berlin", fx.flow.Snapshot().Pickup.Text)
}
