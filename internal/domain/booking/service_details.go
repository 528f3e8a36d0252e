package booking

import (
	"math"
	"strings"

	"github.com/engel-trans/service-checkout/internal/apperror"
)

// ServiceDetails is the booking summary the form submits with a payment.
type ServiceDetails struct {
	StartAddress string        `json:"startAddress"`
	EndAddress   string        `json:"endAddress"`
	DistanceKm   float64       `json:"distance"`
	Services     []ServiceCode `json:"selectedServices"`
	BookingDate  string        `json:"bookingDate,omitempty"`
	BookingTime  string        `json:"bookingTime,omitempty"`
	Notes        string        `json:"additionalNotes,omitempty"`
}

// IsVIP reports whether the order is a VIP direct payment.
func (s ServiceDetails) IsVIP() bool {
	return len(s.Services) == 1 && s.Services[0] == ServiceVIPTransfer
}

// Validate checks the fields needed to price and fulfil a non-VIP order.
func (s ServiceDetails) Validate() error {
	if s.IsVIP() {
		return nil
	}
	if strings.TrimSpace(s.StartAddress) == "" {
		return apperror.NewFieldError("serviceDetails.startAddress", "start address is required")
	}
	if strings.TrimSpace(s.EndAddress) == "" {
		return apperror.NewFieldError("serviceDetails.endAddress", "end address is required")
	}
	if len(s.Services) == 0 {
		return apperror.NewFieldError("serviceDetails.selectedServices", "at least one service is required")
	}
	if s.DistanceKm < 0 || math.IsNaN(s.DistanceKm) {
		return apperror.NewFieldError("serviceDetails.distance", "distance must not be negative")
	}
	return nil
}

// DetailsFromDraft builds the service details of a draft.
func DetailsFromDraft(d *Draft) ServiceDetails {
	details := ServiceDetails{
		StartAddress: d.Pickup().Text,
		EndAddress:   d.Destination().Text,
		Services:     d.Services(),
		BookingDate:  d.BookingDate(),
		BookingTime:  d.BookingTime(),
		Notes:        d.Notes(),
	}
	if km, ok := d.DistanceKm(); ok {
		details.DistanceKm = km
	}
	if d.IsVIP() {
		details.Services = []ServiceCode{ServiceVIPTransfer}
	}
	return details
}
