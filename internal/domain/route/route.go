package route

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Route is a resolved driving route between two places.
type Route struct {
	DistanceMeters  int    `json:"distanceMeters"`
	DurationSeconds int    `json:"durationSeconds"`
	Polyline        string `json:"polyline,omitempty"`
}

// DistanceKm returns the distance in kilometres rounded to one decimal, the
// precision used for pricing.
func (r Route) DistanceKm() float64 {
	return math.Round(float64(r.DistanceMeters)/100) / 10
}

// Reason classifies why a route could not be resolved.
type Reason string

const (
	ReasonMissingOrigin      Reason = "missing_origin"
	ReasonMissingDestination Reason = "missing_destination"
	ReasonNoRoute            Reason = "no_route"
	ReasonProvider           Reason = "provider_error"
	ReasonNotConfigured      Reason = "not_configured"
)

// Failure is the structured error returned when no distance is available.
// Callers must never read a Failure as a zero distance.
type Failure struct {
	Reason  Reason
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("route %s: %s: %v", f.Reason, f.Message, f.Err)
	}
	return fmt.Sprintf("route %s: %s", f.Reason, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// NewFailure creates a Failure.
func NewFailure(reason Reason, message string, err error) *Failure {
	return &Failure{Reason: reason, Message: message, Err: err}
}

// ValidateEndpoints rejects empty place identifiers before any provider call.
func ValidateEndpoints(originID, destinationID string) error {
	if strings.TrimSpace(originID) == "" {
		return NewFailure(ReasonMissingOrigin, "origin place id is required", nil)
	}
	if strings.TrimSpace(destinationID) == "" {
		return NewFailure(ReasonMissingDestination, "destination place id is required", nil)
	}
	return nil
}

// ParseDuration parses protobuf-style duration strings such as "1234s" or
// "12.5s" into whole seconds.
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return int(math.Round(v)), nil
}
