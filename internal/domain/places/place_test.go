package places

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func country(code string) Component {
	return Component{LongText: code, ShortText: code, Types: []string{"country", "political"}}
}

func TestPlace_Label(t *testing.T) {
	tests := []struct {
		name  string
		place Place
		want  string
	}{
		{
			name: "street number and route",
			place: Place{
				FormattedAddress: "Hauptstraße 5, 10115 Berlin, Deutschland",
				Components: []Component{
					{LongText: "5", Types: []string{"street_number"}},
					{LongText: "Hauptstraße", Types: []string{"route"}},
				},
			},
			want: "5 Hauptstraße, 10115 Berlin, Deutschland",
		},
		{
			name: "route only",
			place: Place{
				FormattedAddress: "Ringstraße, 1010 Wien, Österreich",
				Components:       []Component{{LongText: "Ringstraße", Types: []string{"route"}}},
			},
			want: "Ringstraße, 1010 Wien, Österreich",
		},
		{
			name:  "display name",
			place: Place{DisplayName: "Flughafen München", FormattedAddress: "Nordallee 25, 85356 München, Deutschland"},
			want:  "Flughafen München",
		},
		{
			name:  "formatted address",
			place: Place{FormattedAddress: "Zagreb, Kroatien"},
			want:  "Zagreb, Kroatien",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.place.Label())
		})
	}
}

func TestCountryPolicy_StructuredCodes(t *testing.T) {
	de := Place{ID: "de", Components: []Component{country("DE")}}
	at := Place{ID: "at", Components: []Component{country("at")}}
	it := Place{ID: "it", Components: []Component{country("IT")}}

	pickup := PolicyFor(true, false)
	assert.True(t, pickup.Allows(de))
	assert.False(t, pickup.Allows(at))

	dest := PolicyFor(false, false)
	assert.True(t, dest.Allows(de))
	assert.True(t, dest.Allows(at))
	assert.False(t, dest.Allows(it))
}

func TestPlace_CountryCodeFromLongText(t *testing.T) {
	longOnly := func(name string) Place {
		return Place{Components: []Component{{LongText: name, Types: []string{"country", "political"}}}}
	}
	tests := []struct {
		name  string
		place Place
		want  string
	}{
		{"short code wins", Place{Components: []Component{{LongText: "Deutschland", ShortText: " de ", Types: []string{"country"}}}}, "DE"},
		{"german name", longOnly("Deutschland"), "DE"},
		{"english name mixed case", longOnly("  Austria "), "AT"},
		{"local name", longOnly("Österreich"), "AT"},
		{"german exonym", longOnly("Kroatien"), "HR"},
		{"code in long text", longOnly("si"), "SI"},
		{"unknown country", longOnly("Italia"), ""},
		{"empty component", longOnly(""), ""},
		{"no country component", Place{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.place.CountryCode())
		})
	}

	pickup := PolicyFor(true, false)
	assert.True(t, pickup.Allows(longOnly("Deutschland")))
	assert.False(t, pickup.Allows(longOnly("Österreich")))
	assert.False(t, PolicyFor(false, false).Allows(longOnly("Italia")))
}

func TestCountryPolicy_TextFallback(t *testing.T) {
	noComponents := Place{ID: "x", FormattedAddress: "Marienplatz 1, 80331 München, Germany"}
	lookalike := Place{ID: "y", FormattedAddress: "Germany Street 4, Toronto, Canada"}

	off := PolicyFor(true, false)
	assert.False(t, off.Allows(noComponents))

	on := PolicyFor(true, true)
	assert.True(t, on.Allows(noComponents))
	assert.False(t, on.Allows(lookalike))

	// A structured code always wins over the text.
	mislabelled := Place{FormattedAddress: "Somewhere, Germany", Components: []Component{country("PL")}}
	assert.False(t, on.Allows(mislabelled))
}

func TestCountryPolicy_FilterCapsAndKeepsOrder(t *testing.T) {
	var candidates []Place
	for i := 0; i < 20; i++ {
		code := "DE"
		if i%3 == 0 {
			code = "FR"
		}
		candidates = append(candidates, Place{
			ID:               fmt.Sprintf("p%d", i),
			DisplayName:      fmt.Sprintf("Place %d", i),
			FormattedAddress: "x",
			Components:       []Component{country(code)},
		})
	}

	got := PolicyFor(false, false).Filter(candidates)
	require.Len(t, got, MaxSuggestions)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "p2", got[1].ID)
	assert.Equal(t, "p4", got[2].ID)
	assert.Equal(t, "Place 1", got[0].Label)
}

func TestCountryPolicy_FilterEmpty(t *testing.T) {
	got := PolicyFor(true, false).Filter(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
