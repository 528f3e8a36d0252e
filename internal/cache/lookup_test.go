package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/engel-trans/service-checkout/internal/domain/places"
	"github.com/engel-trans/service-checkout/internal/domain/route"
	"github.com/engel-trans/service-checkout/internal/ports"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryStore struct {
	data    map[string][]byte
	readErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (m *memoryStore) GetJSON(_ context.Context, key string, out interface{}) error {
	if m.readErr != nil {
		return m.readErr
	}
	raw, ok := m.data[key]
	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(raw, out)
}

func (m *memoryStore) SetJSON(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func TestPlaceProvider_CachesHits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	next := ports.NewMockPlaceProvider(ctrl)
	store := newMemoryStore()
	provider := NewPlaceProvider(next, store, zap.NewNop())

	want := []places.Place{{ID: "p1", FormattedAddress: "Berlin, Deutschland"}}
	next.EXPECT().SearchText(gomock.Any(), "Berlin  Mitte").Return(want, nil).Times(1)

	got, err := provider.SearchText(context.Background(), "Berlin  Mitte")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = provider.SearchText(context.Background(), "berlin mitte")
	require.NoError(t, err)
	assert.Equal(t, "p1", got[0].ID)
}

func TestPlaceProvider_DoesNotCacheEmptyOrErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	next := ports.NewMockPlaceProvider(ctrl)
	store := newMemoryStore()
	provider := NewPlaceProvider(next, store, zap.NewNop())

	gomock.InOrder(
		next.EXPECT().SearchText(gomock.Any(), "xy").Return(nil, errors.New("boom")),
		next.EXPECT().SearchText(gomock.Any(), "xy").Return([]places.Place{}, nil),
	)

	_, err := provider.SearchText(context.Background(), "xy")
	assert.Error(t, err)
	_, err = provider.SearchText(context.Background(), "xy")
	assert.NoError(t, err)
	assert.Empty(t, store.data)
}

func TestPlaceProvider_StoreFailureFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	next := ports.NewMockPlaceProvider(ctrl)
	store := newMemoryStore()
	store.readErr = errors.New("connection refused")
	provider := NewPlaceProvider(next, store, zap.NewNop())

	next.EXPECT().SearchText(gomock.Any(), "Graz").Return([]places.Place{{ID: "g"}}, nil)

	got, err := provider.SearchText(context.Background(), "Graz")
	require.NoError(t, err)
	assert.Equal(t, "g", got[0].ID)
}

func TestRouteProvider_CachesRoutesNotFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	next := ports.NewMockRouteProvider(ctrl)
	store := newMemoryStore()
	provider := NewRouteProvider(next, store, zap.NewNop())

	failure := route.NewFailure(route.ReasonNoRoute, "no route found", nil)
	gomock.InOrder(
		next.EXPECT().ComputeRoute(gomock.Any(), "a", "b").Return(route.Route{}, failure),
		next.EXPECT().ComputeRoute(gomock.Any(), "a", "b").Return(route.Route{DistanceMeters: 5000, DurationSeconds: 600}, nil),
	)

	_, err := provider.ComputeRoute(context.Background(), "a", "b")
	assert.ErrorIs(t, err, failure)

	r, err := provider.ComputeRoute(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 5000, r.DistanceMeters)

	r, err = provider.ComputeRoute(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 600, r.DurationSeconds)
	assert.Contains(t, store.data, RouteKey("a", "b"))
}

func TestRouteProvider_RejectsEmptyIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := NewRouteProvider(ports.NewMockRouteProvider(ctrl), newMemoryStore(), zap.NewNop())
	_, err := provider.ComputeRoute(context.Background(), "a", "")
	var f *route.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, route.ReasonMissingDestination, f.Reason)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, PlacesKey("Berlin Mitte"), PlacesKey("  berlin   MITTE "))
	assert.NotEqual(t, PlacesKey("Berlin"), PlacesKey("Bern"))
	assert.Equal(t, "checkout:routes:a:b", RouteKey("a", "b"))
}
