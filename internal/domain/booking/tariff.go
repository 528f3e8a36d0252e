package booking

// ServiceCode identifies a bookable transport service.
type ServiceCode string

const (
	ServiceTowingGermany   ServiceCode = "towing-germany"
	ServiceTowingOutside   ServiceCode = "towing-outside"
	ServiceMoving          ServiceCode = "moving"
	ServiceVehicleTransfer ServiceCode = "vehicle-transfer"

	// ServiceVIPTransfer labels direct-amount orders. It has no tariff row.
	ServiceVIPTransfer ServiceCode = "vip-transfer"
)

// TaxRate is the German VAT applied to every quote.
const TaxRate = 0.19

// Currency is the only currency the business invoices in.
const Currency = "EUR"

// TariffRow is a service code's base fee and per-kilometer rate in euros.
type TariffRow struct {
	Code      ServiceCode `json:"code"`
	Name      string      `json:"name"`
	BaseFee   float64     `json:"baseFee"`
	PerKmRate float64     `json:"perKmRate"`
}

// Tariff is an immutable lookup table of tariff rows.
type Tariff struct {
	rows  map[ServiceCode]TariffRow
	order []ServiceCode
}

// NewTariff builds a Tariff from the given rows. Later duplicates win.
func NewTariff(rows ...TariffRow) *Tariff {
	t := &Tariff{rows: make(map[ServiceCode]TariffRow, len(rows))}
	for _, r := range rows {
		if _, exists := t.rows[r.Code]; !exists {
			t.order = append(t.order, r.Code)
		}
		t.rows[r.Code] = r
	}
	return t
}

// StandardTariff returns the company's published rate table.
func StandardTariff() *Tariff {
	return NewTariff(
		TariffRow{Code: ServiceTowingGermany, Name: "Abschleppen innerhalb Deutschlands", BaseFee: 60, PerKmRate: 1.0},
		TariffRow{Code: ServiceTowingOutside, Name: "Abschleppen außerhalb Deutschlands", BaseFee: 100, PerKmRate: 0.8},
		TariffRow{Code: ServiceMoving, Name: "Umzugsservice", BaseFee: 0, PerKmRate: 1.5},
		TariffRow{Code: ServiceVehicleTransfer, Name: "Überführung auf eigener Achse (mit oder ohne TÜV, versichert)", BaseFee: 0, PerKmRate: 1.5},
	)
}

// Lookup returns the row for code.
func (t *Tariff) Lookup(code ServiceCode) (TariffRow, bool) {
	row, ok := t.rows[code]
	return row, ok
}

// Rows returns the rows in their published order.
func (t *Tariff) Rows() []TariffRow {
	out := make([]TariffRow, 0, len(t.order))
	for _, c := range t.order {
		out = append(out, t.rows[c])
	}
	return out
}

// DisplayName returns a human label for any code, including ones without a row.
func (t *Tariff) DisplayName(code ServiceCode) string {
	if code == ServiceVIPTransfer {
		return "VIP Transfer - Direktzahlung"
	}
	if row, ok := t.rows[code]; ok {
		return row.Name
	}
	return string(code)
}
