package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/engel-trans/service-checkout/internal/domain/places"
	"github.com/engel-trans/service-checkout/internal/domain/route"
	"github.com/engel-trans/service-checkout/internal/ports"
	"go.uber.org/zap"
)

const (
	placesPrefix = "checkout:places:"
	routesPrefix = "checkout:routes:"
)

// Store is the subset of Cache the lookup decorators need.
type Store interface {
	GetJSON(ctx context.Context, key string, out interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}) error
}

// PlaceProvider caches successful text searches. Cache errors are logged and
// the call falls through to the wrapped provider.
type PlaceProvider struct {
	next   ports.PlaceProvider
	store  Store
	logger *zap.Logger
}

// NewPlaceProvider wraps next with a cache.
func NewPlaceProvider(next ports.PlaceProvider, store Store, logger *zap.Logger) *PlaceProvider {
	return &PlaceProvider{next: next, store: store, logger: logger}
}

// SearchText implements ports.PlaceProvider.
func (p *PlaceProvider) SearchText(ctx context.Context, query string) ([]places.Place, error) {
	key := PlacesKey(query)

	var cached []places.Place
	err := p.store.GetJSON(ctx, key, &cached)
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, ErrMiss):
		p.logger.Warn("places cache read failed", zap.String("key", key), zap.Error(err))
	}

	result, err := p.next.SearchText(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(result) > 0 {
		if err := p.store.SetJSON(ctx, key, result); err != nil {
			p.logger.Warn("places cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}

// RouteProvider caches resolved routes. Failures are never cached.
type RouteProvider struct {
	next   ports.RouteProvider
	store  Store
	logger *zap.Logger
}

// NewRouteProvider wraps next with a cache.
func NewRouteProvider(next ports.RouteProvider, store Store, logger *zap.Logger) *RouteProvider {
	return &RouteProvider{next: next, store: store, logger: logger}
}

// ComputeRoute implements ports.RouteProvider.
func (p *RouteProvider) ComputeRoute(ctx context.Context, originID, destinationID string) (route.Route, error) {
	if err := route.ValidateEndpoints(originID, destinationID); err != nil {
		return route.Route{}, err
	}
	key := RouteKey(originID, destinationID)

	var cached route.Route
	err := p.store.GetJSON(ctx, key, &cached)
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, ErrMiss):
		p.logger.Warn("routes cache read failed", zap.String("key", key), zap.Error(err))
	}

	r, err := p.next.ComputeRoute(ctx, originID, destinationID)
	if err != nil {
		return route.Route{}, err
	}
	if err := p.store.SetJSON(ctx, key, r); err != nil {
		p.logger.Warn("routes cache write failed", zap.String("key", key), zap.Error(err))
	}
	return r, nil
}

// PlacesKey normalizes a query into a cache key.
func PlacesKey(query string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(query), " "))
	sum := sha256.Sum256([]byte(norm))
	return placesPrefix + hex.EncodeToString(sum[:16])
}

// RouteKey builds the cache key of a directed origin/destination pair.
func RouteKey(originID, destinationID string) string {
	return routesPrefix + originID + ":" + destinationID
}
