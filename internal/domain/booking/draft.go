package booking

import (
	"net/mail"
	"strings"

	"github.com/engel-trans/service-checkout/internal/apperror"
)

// Customer holds the contact fields of a booking.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate checks that every contact field is present and the email parses.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewFieldError("customer.name", "name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return apperror.NewFieldError("customer.email", "email is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return apperror.NewFieldError("customer.email", "email is invalid")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return apperror.NewFieldError("customer.phone", "phone is required")
	}
	return nil
}

// Address is an address string plus the provider place id it was resolved to.
type Address struct {
	Text    string `json:"text"`
	PlaceID string `json:"placeId"`
}

// Resolved reports whether the address was chosen from a suggestion.
func (a Address) Resolved() bool { return a.PlaceID != "" }

// Draft is the single in-memory booking form. It is mutated by user input and
// reset after a successful submission.
type Draft struct {
	customer    Customer
	bookingDate string
	bookingTime string
	pickup      Address
	destination Address
	distanceKm  *float64
	services    []ServiceCode
	notes       string
	attachments []Attachment
	vipAmount   *float64
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{}
}

// --- Getters ---

// Customer returns the contact fields.
func (d *Draft) Customer() Customer { return d.customer }

// BookingDate returns the preferred date as entered.
func (d *Draft) BookingDate() string { return d.bookingDate }

// BookingTime returns the preferred time as entered.
func (d *Draft) BookingTime() string { return d.bookingTime }

// Pickup returns the pickup address.
func (d *Draft) Pickup() Address { return d.pickup }

// Destination returns the destination address.
func (d *Draft) Destination() Address { return d.destination }

// DistanceKm returns the resolved distance, or false while it is unknown.
func (d *Draft) DistanceKm() (float64, bool) {
	if d.distanceKm == nil {
		return 0, false
	}
	return *d.distanceKm, true
}

// Services returns a copy of the selected service codes in selection order.
func (d *Draft) Services() []ServiceCode {
	out := make([]ServiceCode, len(d.services))
	copy(out, d.services)
	return out
}

// Notes returns the free-text notes.
func (d *Draft) Notes() string { return d.notes }

// Attachments returns the attached files.
func (d *Draft) Attachments() []Attachment { return d.attachments }

// VIPAmount returns the direct net amount when the VIP shortcut is active.
func (d *Draft) VIPAmount() (float64, bool) {
	if d.vipAmount == nil {
		return 0, false
	}
	return *d.vipAmount, true
}

// IsVIP reports whether the VIP shortcut is active.
func (d *Draft) IsVIP() bool { return d.vipAmount != nil }

// --- Behavior ---

// SetCustomer replaces the contact fields.
func (d *Draft) SetCustomer(c Customer) {
	d.customer = Customer{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
	}
}

// SetSchedule stores the preferred booking date and time.
func (d *Draft) SetSchedule(date, hour string) {
	d.bookingDate = strings.TrimSpace(date)
	d.bookingTime = strings.TrimSpace(hour)
}

// SetNotes stores the free-text notes.
func (d *Draft) SetNotes(notes string) { d.notes = notes }

// AddAttachment appends a validated attachment.
func (d *Draft) AddAttachment(a Attachment) { d.attachments = append(d.attachments, a) }

// RemoveAttachment drops the attachment at index i if it exists.
func (d *Draft) RemoveAttachment(i int) {
	if i < 0 || i >= len(d.attachments) {
		return
	}
	d.attachments = append(d.attachments[:i], d.attachments[i+1:]...)
}

// SetPickup replaces the pickup address and invalidates the distance.
func (d *Draft) SetPickup(a Address) {
	d.pickup = a
	d.distanceKm = nil
}

// SetDestination replaces the destination address and invalidates the distance.
func (d *Draft) SetDestination(a Address) {
	d.destination = a
	d.distanceKm = nil
}

// BothAddressesResolved reports whether both addresses carry place ids.
func (d *Draft) BothAddressesResolved() bool {
	return d.pickup.Resolved() && d.destination.Resolved()
}

// HasAddressText reports whether both address fields are filled in.
func (d *Draft) HasAddressText() bool {
	return strings.TrimSpace(d.pickup.Text) != "" && strings.TrimSpace(d.destination.Text) != ""
}

// SetDistanceKm records the resolved distance.
func (d *Draft) SetDistanceKm(km float64) {
	d.distanceKm = &km
}

// ToggleService adds or removes a code, keeping selection order and no duplicates.
func (d *Draft) ToggleService(code ServiceCode, selected bool) {
	idx := -1
	for i, c := range d.services {
		if c == code {
			idx = i
			break
		}
	}
	switch {
	case selected && idx < 0:
		d.services = append(d.services, code)
	case !selected && idx >= 0:
		d.services = append(d.services[:idx], d.services[idx+1:]...)
	}
}

// SetVIPAmount activates the VIP shortcut with the given net amount.
func (d *Draft) SetVIPAmount(amount float64) { d.vipAmount = &amount }

// ClearVIP leaves the VIP shortcut.
func (d *Draft) ClearVIP() { d.vipAmount = nil }

// Reset clears every field.
func (d *Draft) Reset() { *d = Draft{} }
