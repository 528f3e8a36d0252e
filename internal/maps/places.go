package maps

import (
	"context"

	"github.com/engel-trans/service-checkout/internal/apperror"
	"github.com/engel-trans/service-checkout/internal/domain/places"
)

const placesFieldMask = "places.id,places.displayName,places.formattedAddress,places.location,places.addressComponents"

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchTextRequest struct {
	TextQuery      string `json:"textQuery"`
	MaxResultCount int    `json:"maxResultCount"`
	LocationBias   struct {
		Rectangle struct {
			Low  latLng `json:"low"`
			High latLng `json:"high"`
		} `json:"rectangle"`
	} `json:"locationBias"`
}

type searchTextResponse struct {
	Places []struct {
		ID          string `json:"id"`
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress  string `json:"formattedAddress"`
		Location          latLng `json:"location"`
		AddressComponents []struct {
			LongText  string   `json:"longText"`
			ShortText string   `json:"shortText"`
			Types     []string `json:"types"`
		} `json:"addressComponents"`
	} `json:"places"`
}

// SearchText runs a Places text search biased to central Europe and returns
// up to 20 unfiltered candidates.
func (c *Client) SearchText(ctx context.Context, query string) ([]places.Place, error) {
	if !c.Configured() {
		return nil, apperror.NewNotConfiguredError("maps api key")
	}

	var body searchTextRequest
	body.TextQuery = query
	body.MaxResultCount = 20
	body.LocationBias.Rectangle.Low = latLng{Latitude: 44.0, Longitude: 8.0}
	body.LocationBias.Rectangle.High = latLng{Latitude: 55.0, Longitude: 20.0}

	var resp searchTextResponse
	if err := c.post(ctx, "places.searchText", c.placesURL, placesFieldMask, body, &resp); err != nil {
		return nil, apperror.NewUpstreamError("places", "text search failed", err)
	}

	out := make([]places.Place, 0, len(resp.Places))
	for _, p := range resp.Places {
		place := places.Place{
			ID:               p.ID,
			DisplayName:      p.DisplayName.Text,
			FormattedAddress: p.FormattedAddress,
			Latitude:         p.Location.Latitude,
			Longitude:        p.Location.Longitude,
		}
		for _, comp := range p.AddressComponents {
			place.Components = append(place.Components, places.Component{
				LongText:  comp.LongText,
				ShortText: comp.ShortText,
				Types:     comp.Types,
			})
		}
		out = append(out, place)
	}
	return out, nil
}
