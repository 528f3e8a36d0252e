package booking

import (
	"fmt"
	"math"
)

// LineItem is the cost of one selected service over the quoted distance.
type LineItem struct {
	Code       ServiceCode `json:"code"`
	Name       string      `json:"name"`
	BaseFee    float64     `json:"baseFee"`
	PerKmRate  float64     `json:"perKmRate"`
	DistanceKm float64     `json:"distanceKm"`
	Cost       float64     `json:"cost"`
}

// Quote is a derived, never stored price breakdown. Amounts are rounded to cents
// and Subtotal + Tax always equals Total.
type Quote struct {
	LineItems []LineItem `json:"lineItems"`
	Subtotal  float64    `json:"subtotal"`
	Tax       float64    `json:"tax"`
	Total     float64    `json:"total"`
	Currency  string     `json:"currency"`
}

// IsZero reports whether the quote has nothing to charge.
func (q Quote) IsZero() bool { return q.Total <= 0 }

// TotalCents returns the total in euro cents.
func (q Quote) TotalCents() int64 { return toCents(q.Total) }

// PricingStrategy computes quotes for a set of services.
type PricingStrategy interface {
	Quote(codes []ServiceCode, distanceKm float64) Quote
}

// StandardPricingStrategy prices services linearly from a tariff table.
type StandardPricingStrategy struct {
	tariff *Tariff
}

// NewStandardPricingStrategy creates a StandardPricingStrategy over tariff.
func NewStandardPricingStrategy(tariff *Tariff) *StandardPricingStrategy {
	return &StandardPricingStrategy{tariff: tariff}
}

// Quote prices every known code as baseFee + perKmRate × distanceKm and adds VAT.
//
// Unknown codes are skipped, so stale selections referencing removed rows are
// harmless. Duplicates count once and a negative distance is treated as zero.
func (s *StandardPricingStrategy) Quote(codes []ServiceCode, distanceKm float64) Quote {
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		distanceKm = 0
	}

	seen := make(map[ServiceCode]struct{}, len(codes))
	items := make([]LineItem, 0, len(codes))
	var subtotal float64
	for _, code := range codes {
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		row, ok := s.tariff.Lookup(code)
		if !ok {
			continue
		}
		cost := row.BaseFee + row.PerKmRate*distanceKm
		subtotal += cost
		items = append(items, LineItem{
			Code:       row.Code,
			Name:       row.Name,
			BaseFee:    row.BaseFee,
			PerKmRate:  row.PerKmRate,
			DistanceKm: distanceKm,
			Cost:       round2(cost),
		})
	}

	return buildQuote(items, subtotal)
}

// VIPQuote turns a direct net amount into a tax-inclusive quote.
func VIPQuote(amount float64) (Quote, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Quote{}, fmt.Errorf("vip amount must be positive")
	}
	items := []LineItem{{
		Code: ServiceVIPTransfer,
		Name: "VIP Transfer - Direktzahlung",
		Cost: round2(amount),
	}}
	return buildQuote(items, amount), nil
}

func buildQuote(items []LineItem, subtotal float64) Quote {
	total := subtotal * (1 + TaxRate)
	sub := round2(subtotal)
	tot := round2(total)
	return Quote{
		LineItems: items,
		Subtotal:  sub,
		Tax:       round2(tot - sub),
		Total:     tot,
		Currency:  Currency,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// FormatAmount renders an amount with exactly two decimals, as payment APIs expect.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", round2(v))
}

// SameAmount reports whether two euro amounts are equal to the cent.
func SameAmount(a, b float64) bool {
	return toCents(a) == toCents(b)
}
