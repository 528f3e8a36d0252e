package application

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/engel-trans/service-checkout/internal/apperror"
	"github.com/engel-trans/service-checkout/internal/domain/booking"
	"github.com/engel-trans/service-checkout/internal/domain/places"
	"github.com/engel-trans/service-checkout/internal/domain/route"
	"github.com/engel-trans/service-checkout/internal/ports"
	"go.uber.org/zap"
)

// SearchAddressesRequest holds an address autocomplete query.
type SearchAddressesRequest struct {
	Query         string `json:"query"`
	IsPickupField bool   `json:"isPickupField"`
	Sequence      int64  `json:"sequence,omitempty"`
}

// SearchAddressesResult is the filtered suggestion list. Sequence echoes the
// client's request number.
type SearchAddressesResult struct {
	Results  []places.Suggestion `json:"results"`
	Sequence int64               `json:"sequence,omitempty"`
}

// DistanceRequest holds the two resolved place ids of a route.
type DistanceRequest struct {
	OriginID      string `json:"originId"`
	DestinationID string `json:"destinationId"`
}

// DistanceResult is a resolved driving route.
type DistanceResult struct {
	DistanceMeters  int     `json:"distanceMeters"`
	DurationSeconds int     `json:"durationSeconds"`
	DistanceKm      float64 `json:"distanceKm"`
	Polyline        string  `json:"polyline,omitempty"`
}

// QuoteRequest prices either a service selection over a distance or a VIP amount.
type QuoteRequest struct {
	Services   []booking.ServiceCode `json:"services"`
	DistanceKm float64               `json:"distanceKm"`
	VIPAmount  *float64              `json:"vipAmount,omitempty"`
}

// CheckoutService answers the lookups and price calculations of the booking form.
type CheckoutService struct {
	places       ports.PlaceProvider
	routes       ports.RouteProvider
	pricing      booking.PricingStrategy
	textFallback bool
	logger       *zap.Logger
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	placeProvider ports.PlaceProvider,
	routeProvider ports.RouteProvider,
	pricing booking.PricingStrategy,
	textFallback bool,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		places:       placeProvider,
		routes:       routeProvider,
		pricing:      pricing,
		textFallback: textFallback,
		logger:       logger,
	}
}

// SearchAddresses returns at most ten suggestions in the countries allowed for
// the field. Short queries and provider failures yield an empty list.
func (s *CheckoutService) SearchAddresses(ctx context.Context, req SearchAddressesRequest) SearchAddressesResult {
	result := SearchAddressesResult{Results: []places.Suggestion{}, Sequence: req.Sequence}

	query := strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(query) < places.MinQueryRunes {
		return result
	}

	candidates, err := s.places.SearchText(ctx, query)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("address search failed",
				zap.Bool("pickup", req.IsPickupField),
				zap.Error(err),
			)
		}
		return result
	}

	result.Results = places.PolicyFor(req.IsPickupField, s.textFallback).Filter(candidates)
	s.logger.Debug("address search",
		zap.Bool("pickup", req.IsPickupField),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(result.Results)),
	)
	return result
}

// ResolveDistance computes the driving distance between two place ids. Every
// failure is a *route.Failure; an empty id fails without a provider call.
func (s *CheckoutService) ResolveDistance(ctx context.Context, req DistanceRequest) (*DistanceResult, error) {
	if err := route.ValidateEndpoints(req.OriginID, req.DestinationID); err != nil {
		return nil, err
	}

	r, err := s.routes.ComputeRoute(ctx, req.OriginID, req.DestinationID)
	if err != nil {
		var failure *route.Failure
		if !errors.As(err, &failure) {
			failure = route.NewFailure(route.ReasonProvider, "distance could not be calculated", err)
		}
		s.logger.Warn("distance resolution failed",
			zap.String("reason", string(failure.Reason)),
			zap.Error(err),
		)
		return nil, failure
	}

	return &DistanceResult{
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
		DistanceKm:      r.DistanceKm(),
		Polyline:        r.Polyline,
	}, nil
}

// Quote prices a request. A VIP amount takes precedence over services.
func (s *CheckoutService) Quote(req QuoteRequest) (booking.Quote, error) {
	return priceRequest(s.pricing, req)
}

func priceRequest(pricing booking.PricingStrategy, req QuoteRequest) (booking.Quote, error) {
	if req.VIPAmount != nil {
		q, err := booking.VIPQuote(*req.VIPAmount)
		if err != nil {
			return booking.Quote{}, apperror.NewFieldError("vipAmount", err.Error())
		}
		return q, nil
	}
	if req.DistanceKm < 0 {
		return booking.Quote{}, apperror.NewFieldError("distanceKm", "distance must not be negative")
	}
	return pricing.Quote(req.Services, req.DistanceKm), nil
}
