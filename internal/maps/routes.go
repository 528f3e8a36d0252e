package maps

import (
	"context"

	"github.com/engel-trans/service-checkout/internal/domain/route"
)

const routesFieldMask = "routes.duration,routes.distanceMeters,routes.polyline.encodedPolyline"

type waypoint struct {
	PlaceID string `json:"placeId"`
}

type computeRoutesRequest struct {
	Origin                   waypoint `json:"origin"`
	Destination              waypoint `json:"destination"`
	TravelMode               string   `json:"travelMode"`
	RoutingPreference        string   `json:"routingPreference"`
	ComputeAlternativeRoutes bool     `json:"computeAlternativeRoutes"`
	LanguageCode             string   `json:"languageCode"`
	Units                    string   `json:"units"`
}

type computeRoutesResponse struct {
	Routes []struct {
		DistanceMeters int    `json:"distanceMeters"`
		Duration       string `json:"duration"`
		Polyline       struct {
			EncodedPolyline string `json:"encodedPolyline"`
		} `json:"polyline"`
	} `json:"routes"`
}

// ComputeRoute resolves the driving route between two place ids. Every
// failure comes back as a *route.Failure.
func (c *Client) ComputeRoute(ctx context.Context, originID, destinationID string) (route.Route, error) {
	if err := route.ValidateEndpoints(originID, destinationID); err != nil {
		return route.Route{}, err
	}
	if !c.Configured() {
		return route.Route{}, route.NewFailure(route.ReasonNotConfigured, "maps api key is not configured", nil)
	}

	body := computeRoutesRequest{
		Origin:                   waypoint{PlaceID: originID},
		Destination:              waypoint{PlaceID: destinationID},
		TravelMode:               "DRIVE",
		RoutingPreference:        "TRAFFIC_UNAWARE",
		ComputeAlternativeRoutes: false,
		LanguageCode:             "de-DE",
		Units:                    "METRIC",
	}

	var resp computeRoutesResponse
	if err := c.post(ctx, "routes.computeRoutes", c.routesURL, routesFieldMask, body, &resp); err != nil {
		return route.Route{}, route.NewFailure(route.ReasonProvider, "routes api request failed", err)
	}
	if len(resp.Routes) == 0 {
		return route.Route{}, route.NewFailure(route.ReasonNoRoute, "no route found", nil)
	}

	first := resp.Routes[0]
	seconds, err := route.ParseDuration(first.Duration)
	if err != nil {
		return route.Route{}, route.NewFailure(route.ReasonProvider, "unexpected duration", err)
	}
	return route.Route{
		DistanceMeters:  first.DistanceMeters,
		DurationSeconds: seconds,
		Polyline:        first.Polyline.EncodedPolyline,
	}, nil
}
