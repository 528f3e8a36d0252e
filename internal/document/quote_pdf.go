// Package document renders downloadable customer documents.
package document

import (
	"bytes"
	"fmt"
	"time"

	"github.com/engel-trans/service-checkout/internal/domain/booking"
	"github.com/phpdave11/gofpdf"
)

// QuoteInput is everything printed on a quote offer.
type QuoteInput struct {
	CustomerName string
	StartAddress string
	EndAddress   string
	Quote        booking.Quote
	IssuedAt     time.Time
}

// QuoteRenderer builds A4 PDF offers.
type QuoteRenderer struct {
	company  string
	contact  string
	validFor time.Duration
}

// NewQuoteRenderer creates a QuoteRenderer. contact is printed in the footer.
func NewQuoteRenderer(company, contact string) *QuoteRenderer {
	return &QuoteRenderer{company: company, contact: contact, validFor: 14 * 24 * time.Hour}
}

// Render returns the PDF bytes for in.
func (r *QuoteRenderer) Render(in QuoteInput) ([]byte, error) {
	if len(in.Quote.LineItems) == 0 {
		return nil, fmt.Errorf("quote has no line items")
	}
	issued := in.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Angebot "+r.company), false)
	pdf.SetAuthor(r.company, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(r.company))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, tr("Unverbindliches Angebot"))
	pdf.Ln(7)
	pdf.Cell(0, 7, tr("Datum: "+issued.Format("02.01.2006")))
	pdf.Ln(7)
	pdf.Cell(0, 7, tr("Gültig bis: "+issued.Add(r.validFor).Format("02.01.2006")))
	pdf.Ln(10)

	if in.CustomerName != "" {
		pdf.Cell(0, 7, tr("Kunde: "+in.CustomerName))
		pdf.Ln(7)
	}
	if in.StartAddress != "" || in.EndAddress != "" {
		pdf.MultiCell(0, 6, tr("Von: "+dash(in.StartAddress)), "", "", false)
		pdf.MultiCell(0, 6, tr("Nach: "+dash(in.EndAddress)), "", "", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(80, 8, tr("Leistung"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, tr("Grundpreis"), "1", 0, "R", true, 0, "")
	pdf.CellFormat(25, 8, tr("€/km"), "1", 0, "R", true, 0, "")
	pdf.CellFormat(25, 8, "km", "1", 0, "R", true, 0, "")
	pdf.CellFormat(25, 8, tr("Betrag"), "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range in.Quote.LineItems {
		pdf.CellFormat(80, 7, tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, tr(euro(item.BaseFee)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.2f", item.PerKmRate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.1f", item.DistanceKm), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, tr(euro(item.Cost)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	r.totalRow(pdf, tr("Zwischensumme"), tr(euro(in.Quote.Subtotal)))
	r.totalRow(pdf, tr("MwSt. 19%"), tr(euro(in.Quote.Tax)))
	pdf.SetFont("Helvetica", "B", 12)
	r.totalRow(pdf, tr("Gesamt"), tr(euro(in.Quote.Total)))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, tr("Alle Preise inklusive 19% deutscher MwSt. Servicebereich: Deutschland, Österreich, Slowenien, Kroatien."), "", "", false)
	if r.contact != "" {
		pdf.MultiCell(0, 5, tr("Kontakt: "+r.contact), "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render quote pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *QuoteRenderer) totalRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(155, 7, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, value, "", 1, "R", false, 0, "")
}

func euro(v float64) string {
	return "€" + booking.FormatAmount(v)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
