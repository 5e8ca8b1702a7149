package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is a single billable row on the invoice. It is immutable once
// created; the renderer consumes it as-is.
type LineItem struct {
	Description string
	Quantity    int
	UnitRate    decimal.Decimal
}

// Amount returns quantity x unit rate rounded to 2 places. The subtotal is
// the sum of these rounded amounts, so the printed rows always add up to the
// printed subtotal.
func (it LineItem) Amount() decimal.Decimal {
	return it.UnitRate.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
}

// Invoice is the fully resolved dataset handed to the layout engine. All
// lookups and fallbacks have already happened by the time one is built.
type Invoice struct {
	HotelName    string
	HotelAddress string
	HotelPhone   string
	TaxID        string

	GuestName     string
	RoomNumber    string
	InvoiceNumber string
	DateString    string

	Items          []LineItem
	TaxPercent     decimal.Decimal
	PaymentMode    string
	CurrencySymbol string
}

func (inv *Invoice) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range inv.Items {
		subtotal = subtotal.Add(it.Amount())
	}
	return subtotal
}

// TaxAmount is subtotal x percent / 100 rounded to 2 places.
func (inv *Invoice) TaxAmount() decimal.Decimal {
	return inv.Subtotal().Mul(inv.TaxPercent).Div(decimal.NewFromInt(100)).Round(2)
}

func (inv *Invoice) GrandTotal() decimal.Decimal {
	return inv.Subtotal().Add(inv.TaxAmount()).Round(2)
}

// HotelCandidate is an ephemeral enrichment result; only the phone number is
// ever carried onto the invoice.
type HotelCandidate struct {
	Name        string
	ApproxPrice decimal.Decimal
	Phone       string
}

// NewInvoiceNumber derives the default invoice number from the current time.
func NewInvoiceNumber(now time.Time) string {
	return "INV-" + now.Format("20060102150405")
}

// ParseItemLines parses custom items entered one per line as
// "description,quantity,rate". Malformed lines are skipped silently.
func ParseItemLines(raw string) []LineItem {
	var items []LineItem
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			continue
		}
		desc := strings.TrimSpace(parts[0])
		qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || qty <= 0 {
			continue
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
		if err != nil || rate.IsNegative() {
			continue
		}
		items = append(items, LineItem{Description: desc, Quantity: qty, UnitRate: rate})
	}
	return items
}
