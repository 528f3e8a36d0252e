package payment

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const idSuffixChars = "0123456789abcdefghijklmnopqrstuvwxyz"

// Method identifies how an order is paid.
type Method string

const (
	MethodPayPal Method = "paypal"
	MethodManual Method = "manual"
)

// Status is the payment state reported in notifications.
type Status string

const (
	StatusPaid             Status = "paid"
	StatusAwaitingTransfer Status = "awaiting_transfer"
)

// Record is the transient result of a payment, used for notifications and
// events only. It is never stored.
type Record struct {
	OrderID       string    `json:"orderId"`
	TransactionID string    `json:"transactionId"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Method        Method    `json:"method"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewPayPalRecord creates a paid record for a captured PayPal transaction.
func NewPayPalRecord(transactionID string, amount float64, currency string, now time.Time) (Record, error) {
	if strings.TrimSpace(transactionID) == "" {
		return Record{}, fmt.Errorf("transaction id is required")
	}
	orderID, err := GenerateOrderID(now)
	if err != nil {
		return Record{}, err
	}
	return Record{
		OrderID:       orderID,
		TransactionID: transactionID,
		Amount:        amount,
		Currency:      currency,
		Method:        MethodPayPal,
		Status:        StatusPaid,
		CreatedAt:     now.UTC(),
	}, nil
}

// NewManualRecord creates an awaiting-transfer record with a generated MANUAL- transaction id.
func NewManualRecord(amount float64, currency string, now time.Time) (Record, error) {
	orderID, err := GenerateOrderID(now)
	if err != nil {
		return Record{}, err
	}
	txID, err := GenerateManualID(now)
	if err != nil {
		return Record{}, err
	}
	return Record{
		OrderID:       orderID,
		TransactionID: txID,
		Amount:        amount,
		Currency:      currency,
		Method:        MethodManual,
		Status:        StatusAwaitingTransfer,
		CreatedAt:     now.UTC(),
	}, nil
}

// IsManual reports whether the record belongs to a bank transfer.
func (r Record) IsManual() bool { return r.Method == MethodManual }

// GenerateOrderID creates an order id in the format "ORD-<unixms>-<9 base36>".
func GenerateOrderID(now time.Time) (string, error) {
	return generateID("ORD", now)
}

// GenerateManualID creates a manual transaction id in the format "MANUAL-<unixms>-<9 base36>".
func GenerateManualID(now time.Time) (string, error) {
	return generateID("MANUAL", now)
}

func generateID(prefix string, now time.Time) (string, error) {
	suffix := make([]byte, 9)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(idSuffixChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate %s id: %w", strings.ToLower(prefix), err)
		}
		suffix[i] = idSuffixChars[n.Int64()]
	}
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), suffix), nil
}

// OrderIntent is the request to open a hosted checkout order.
type OrderIntent struct {
	Amount      float64
	Currency    string
	Description string
	ReferenceID string
}

// CreatedOrder is the provider's answer to an order intent.
type CreatedOrder struct {
	ID     string
	Status string
}

// Capture is the provider's answer to a capture call.
type Capture struct {
	OrderID       string
	TransactionID string
	Status        string
	Amount        float64
	Currency      string
}

// Completed reports whether the provider considers the funds captured.
func (c Capture) Completed() bool { return c.Status == "COMPLETED" }
