package places

import (
	"regexp"
	"strings"
)

// MaxSuggestions caps the filtered result list.
const MaxSuggestions = 10

// MinQueryRunes is the minimum trimmed query length, counted in runes.
const MinQueryRunes = 2

// Component is one structured address component returned by the provider.
type Component struct {
	LongText  string
	ShortText string
	Types     []string
}

// HasType reports whether the component carries the given type.
func (c Component) HasType(t string) bool {
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}

// Place is a provider search hit normalized away from the provider schema.
type Place struct {
	ID               string
	DisplayName      string
	FormattedAddress string
	Latitude         float64
	Longitude        float64
	Components       []Component
}

// component returns the first component of the given type.
func (p Place) component(t string) (Component, bool) {
	for _, c := range p.Components {
		if c.HasType(t) {
			return c, true
		}
	}
	return Component{}, false
}

// CountryCode returns the ISO 3166-1 alpha-2 code from the structured country
// component. Without a short code, a long name of a known country is mapped to
// its code.
func (p Place) CountryCode() string {
	c, ok := p.component("country")
	if !ok {
		return ""
	}
	if code := strings.TrimSpace(c.ShortText); code != "" {
		return strings.ToUpper(code)
	}
	return codeForName(c.LongText)
}

func codeForName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	for code, names := range countryNames {
		if strings.EqualFold(name, code) {
			return code
		}
		for _, n := range names {
			if n == name {
				return code
			}
		}
	}
	return ""
}

// Label builds the street-focused display label shown in the suggestion list.
func (p Place) Label() string {
	tail := lastParts(p.FormattedAddress, 2)
	route, hasRoute := p.component("route")
	number, hasNumber := p.component("street_number")

	switch {
	case hasRoute && hasNumber && route.LongText != "" && number.LongText != "":
		return joinNonEmpty(number.LongText+" "+route.LongText, tail)
	case hasRoute && route.LongText != "":
		return joinNonEmpty(route.LongText, tail)
	case p.DisplayName != "":
		return p.DisplayName
	default:
		return p.FormattedAddress
	}
}

// Suggestion is the public shape of a filtered search result.
type Suggestion struct {
	ID               string `json:"id"`
	Label            string `json:"label"`
	FormattedAddress string `json:"formattedAddress"`
}

// ToSuggestion converts a place into its suggestion representation.
func (p Place) ToSuggestion() Suggestion {
	return Suggestion{ID: p.ID, Label: p.Label(), FormattedAddress: p.FormattedAddress}
}

// CountryPolicy is an allow-list of ISO country codes.
type CountryPolicy struct {
	Allowed []string
	// TextFallback matches a trailing country name in the formatted address
	// when the place has no structured country component. The match is
	// approximate and must not be relied on for compliance.
	TextFallback bool
}

var (
	// PickupCountries restricts pickups to Germany.
	PickupCountries = []string{"DE"}
	// DestinationCountries is the service area for destinations.
	DestinationCountries = []string{"DE", "AT", "SI", "HR"}
)

// countryNames maps codes to the local and English names matched by the text fallback.
var countryNames = map[string][]string{
	"DE": {"germany", "deutschland"},
	"AT": {"austria", "österreich"},
	"SI": {"slovenia", "slovenija", "slowenien"},
	"HR": {"croatia", "hrvatska", "kroatien"},
}

// PolicyFor returns the allow-list for the pickup or the destination field.
func PolicyFor(isPickup, textFallback bool) CountryPolicy {
	allowed := DestinationCountries
	if isPickup {
		allowed = PickupCountries
	}
	return CountryPolicy{Allowed: allowed, TextFallback: textFallback}
}

// Allows reports whether the place lies in an allowed country.
func (cp CountryPolicy) Allows(p Place) bool {
	if code := p.CountryCode(); code != "" {
		return cp.allowsCode(code)
	}
	if !cp.TextFallback {
		return false
	}
	tail := strings.ToLower(strings.TrimSpace(lastParts(p.FormattedAddress, 1)))
	for _, code := range cp.Allowed {
		for _, name := range countryNames[code] {
			if tail == name || trailingPostcodeCountry.MatchString(tail) && strings.HasSuffix(tail, name) {
				return true
			}
		}
	}
	return false
}

// trailingPostcodeCountry matches lines such as "d-80331 deutschland".
var trailingPostcodeCountry = regexp.MustCompile(`^[a-z]{0,2}-?\d{4,5}\s+\p{L}+$`)

func (cp CountryPolicy) allowsCode(code string) bool {
	for _, a := range cp.Allowed {
		if a == code {
			return true
		}
	}
	return false
}

// Filter keeps allowed places in provider order, capped at MaxSuggestions.
func (cp CountryPolicy) Filter(candidates []Place) []Suggestion {
	out := make([]Suggestion, 0, MaxSuggestions)
	for _, p := range candidates {
		if len(out) == MaxSuggestions {
			break
		}
		if cp.Allows(p) {
			out = append(out, p.ToSuggestion())
		}
	}
	return out
}

func lastParts(formatted string, n int) string {
	parts := strings.Split(formatted, ",")
	if len(parts) > n {
		parts = parts[len(parts)-n:]
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ", ")
}

func joinNonEmpty(head, tail string) string {
	if tail == "" {
		return head
	}
	return head + ", " + tail
}
