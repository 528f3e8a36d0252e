//go:build integration

package main_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/engel-trans/service-checkout/internal/application"
	"github.com/engel-trans/service-checkout/internal/cache"
	"github.com/engel-trans/service-checkout/internal/domain/booking"
	domain "github.com/engel-trans/service-checkout/internal/domain/notification"
	"github.com/engel-trans/service-checkout/internal/domain/payment"
	"github.com/engel-trans/service-checkout/internal/domain/places"
	"github.com/engel-trans/service-checkout/internal/events"
	"github.com/engel-trans/service-checkout/internal/notification"
	"github.com/engel-trans/service-checkout/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestUndeliveredConfirmation_IsStored verifies that an order confirmation
// sent without SMTP credentials lands in the fallback table.
func TestUndeliveredConfirmation_IsStored(t *testing.T) {
	db := setupPostgres(t)
	logger := zap.NewNop()
	repo := repository.NewGormFallbackRepository(db)

	renderer, err := notification.NewRenderer(booking.StandardTariff(), notification.BankDetails{IBAN: "DE00 1234"})
	require.NoError(t, err)
	dispatcher := notification.NewDispatcher(
		notification.NewSMTPSender("", 465, "", "", "", logger),
		notification.NewMultiRecorder(notification.NewLogRecorder(logger), repo),
		renderer,
		notification.Mailboxes{To: "ops@example.de"},
		logger,
	)

	record, err := payment.NewPayPalRecord("TX-INT-1", 190.40, "EUR", time.Now())
	require.NoError(t, err)
	outcome := dispatcher.NotifyOrderConfirmation(context.Background(), domain.OrderMessage{
		Customer: booking.Customer{Name: "Max Muster", Email: "max@example.de", Phone: "+49 170 1234567"},
		Details: booking.ServiceDetails{
			StartAddress: "Berlin",
			EndAddress:   "Potsdam",
			DistanceKm:   100,
			Services:     []booking.ServiceCode{booking.ServiceTowingGermany},
		},
		Record: record,
	})
	assert.False(t, outcome.Delivered)
	require.True(t, outcome.FallbackRecorded)

	records, total, err := repo.List(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, record.OrderID, records[0].OrderID)
	assert.Equal(t, []string{"ops@example.de"}, records[0].Recipients)
	assert.Equal(t, "smtp credentials not configured", records[0].Reason)

	stored, err := repo.FindByID(context.Background(), records[0].ID)
	require.NoError(t, err)
	assert.Contains(t, stored.TextBody, "Max Muster")
}

// TestOrderCompleted_IsPublished verifies the CloudEvent written for a
// completed order can be read back from the topic.
func TestOrderCompleted_IsPublished(t *testing.T) {
	brokers := setupKafka(t)
	producer := events.NewProducer(brokers, eventsTopic, zap.NewNop())
	defer func() { _ = producer.Close() }()

	err := producer.Publish(context.Background(), events.OrderCompleted, "ORD-INT-1", events.OrderCompletedEvent{
		OrderID:       "ORD-INT-1",
		TransactionID: "TX-INT-1",
		Amount:        190.40,
		Currency:      "EUR",
		Services:      []string{"towing-germany"},
		EmailSent:     true,
		OccurredAt:    time.Now().UTC(),
	})
	require.NoError(t, err)

	ce := consumeOneEvent(t, brokers, eventsTopic, events.OrderCompleted, 30*time.Second)
	assert.Equal(t, events.Source, ce.Source)

	var data events.OrderCompletedEvent
	require.NoError(t, ce.ParseData(&data))
	assert.Equal(t, "ORD-INT-1", data.OrderID)
	assert.InDelta(t, 190.40, data.Amount, 0.001)
}

type countingPlaces struct {
	calls atomic.Int32
}

func (c *countingPlaces) SearchText(_ context.Context, query string) ([]places.Place, error) {
	c.calls.Add(1)
	return []places.Place{{
		ID:               "p-" + query,
		DisplayName:      query,
		FormattedAddress: query + ", 10115 Berlin, Deutschland",
		Components:       []places.Component{{LongText: "Deutschland", ShortText: "DE", Types: []string{"country"}}},
	}}, nil
}

// TestAddressSearch_IsCachedInRedis verifies a repeated query is served from Redis.
func TestAddressSearch_IsCachedInRedis(t *testing.T) {
	addr := setupRedis(t)
	store := cache.NewCache(addr, "", "", 0, time.Minute)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Ping(context.Background()))

	provider := &countingPlaces{}
	svc := application.NewCheckoutService(
		cache.NewPlaceProvider(provider, store, zap.NewNop()),
		nil,
		booking.NewStandardPricingStrategy(booking.StandardTariff()),
		false,
		zap.NewNop(),
	)

	req := application.SearchAddressesRequest{Query: "Hauptstraße", IsPickupField: true}
	first := svc.SearchAddresses(context.Background(), req)
	second := svc.SearchAddresses(context.Background(), req)

	require.Len(t, first.Results, 1)
	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, int32(1), provider.calls.Load())
}
