package notification

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/engel-trans/service-checkout/internal/domain/booking"
	domain "github.com/engel-trans/service-checkout/internal/domain/notification"
	"github.com/engel-trans/service-checkout/internal/domain/payment"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// BankDetails are printed in manual-payment instructions.
type BankDetails struct {
	Recipient string
	IBAN      string
	BIC       string
	Phone     string
}

// Renderer turns message data into HTML and plain-text bodies.
type Renderer struct {
	html   *htmltemplate.Template
	text   *texttemplate.Template
	tariff *booking.Tariff
	bank   BankDetails
	loc    *time.Location
}

// NewRenderer parses the embedded templates.
func NewRenderer(tariff *booking.Tariff, bank BankDetails) (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html templates: %w", err)
	}
	text, err := texttemplate.New("text").
		Funcs(texttemplate.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		loc = time.UTC
	}
	return &Renderer{html: html, text: text, tariff: tariff, bank: bank, loc: loc}, nil
}

type messageData struct {
	ReceivedAt      string
	Customer        booking.Customer
	Details         booking.ServiceDetails
	Services        []string
	Distance        string
	Total           string
	Record          payment.Record
	PaymentMethod   string
	PaymentStatus   string
	Bank            BankDetails
	Reference       string
	AttachmentNames []string
}

type customerBlock struct {
	Heading  string
	Customer booking.Customer
	Details  booking.ServiceDetails
}

// WithHeading is called from the templates to render the customer block.
func (m messageData) WithHeading(h string) customerBlock {
	return customerBlock{Heading: h, Customer: m.Customer, Details: m.Details}
}

func (r *Renderer) base(c booking.Customer, d booking.ServiceDetails, now time.Time) messageData {
	names := make([]string, 0, len(d.Services))
	for _, code := range d.Services {
		names = append(names, r.tariff.DisplayName(code))
	}
	return messageData{
		ReceivedAt: now.In(r.loc).Format("02.01.2006 15:04"),
		Customer:   c,
		Details:    d,
		Services:   names,
		Distance:   formatKm(d.DistanceKm),
		Bank:       r.bank,
		Reference:  "ENGEL-TRANS " + c.Name,
	}
}

// QuoteRequest renders the quote-request message for the business.
func (r *Renderer) QuoteRequest(req domain.QuoteRequest, now time.Time) (subject, html, text string, err error) {
	data := r.base(req.Customer, req.Details, now)
	if req.Quote != nil && !req.Quote.IsZero() {
		data.Total = formatEuro(req.Quote.Total)
	}
	for _, a := range req.Attachments {
		data.AttachmentNames = append(data.AttachmentNames, a.Filename)
	}
	subject = fmt.Sprintf("Transport-Angebotsanfrage - %s (%s km)", req.Customer.Name, data.Distance)
	html, text, err = r.render("quote_request", data)
	return subject, html, text, err
}

// ManualInstructions renders the bank-transfer instructions for the customer.
func (r *Renderer) ManualInstructions(msg domain.OrderMessage, now time.Time) (subject, html, text string, err error) {
	data := r.orderData(msg, now)
	subject = fmt.Sprintf("Zahlungsanweisung - ENGEL-TRANS (%s)", data.Total)
	html, text, err = r.render("manual_instructions", data)
	return subject, html, text, err
}

// OrderConfirmation renders the order confirmation for the business.
func (r *Renderer) OrderConfirmation(msg domain.OrderMessage, now time.Time) (subject, html, text string, err error) {
	data := r.orderData(msg, now)
	subject = fmt.Sprintf("Bestellung bestätigt - %s (Bestellung #%s)", msg.Customer.Name, msg.Record.OrderID)
	html, text, err = r.render("order_confirmation", data)
	return subject, html, text, err
}

func (r *Renderer) orderData(msg domain.OrderMessage, now time.Time) messageData {
	data := r.base(msg.Customer, msg.Details, now)
	data.Record = msg.Record
	data.Total = formatEuro(msg.Record.Amount)
	if msg.Record.IsManual() {
		data.PaymentMethod = "Überweisung (Banküberweisung)"
		data.PaymentStatus = "Anweisung gesendet - wartet auf Zahlungseingang"
	} else {
		data.PaymentMethod = "PayPal"
		data.PaymentStatus = "Bezahlt"
	}
	return data
}

func (r *Renderer) render(name string, data messageData) (string, string, error) {
	var html, text bytes.Buffer
	if err := r.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return "", "", fmt.Errorf("failed to render %s html: %w", name, err)
	}
	if err := r.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return "", "", fmt.Errorf("failed to render %s text: %w", name, err)
	}
	return html.String(), text.String(), nil
}

func formatEuro(v float64) string {
	return "€" + booking.FormatAmount(v)
}

func formatKm(km float64) string {
	return fmt.Sprintf("%.1f", km)
}
