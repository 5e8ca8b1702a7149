package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"testing"

	"bitbucket.org/mmdatafocus/hotelbill_backend/models"
	"github.com/shopspring/decimal"
)

func testInvoice(items int) *models.Invoice {
	inv := &models.Invoice{
		HotelName:      "NEO ROBOTIC INN",
		HotelAddress:   "87 Marine Drive, Mumbai",
		HotelPhone:     "+91-9876543210",
		TaxID:          "27ABCDE1234F1Z5",
		GuestName:      "Guest",
		RoomNumber:     "101",
		InvoiceNumber:  "INV-20240315093045",
		DateString:     "2024-03-15",
		TaxPercent:     decimal.RequireFromString("5"),
		PaymentMode:    "Cash",
		CurrencySymbol: "Rs.",
	}
	for i := 0; i < items; i++ {
		inv.Items = append(inv.Items, models.LineItem{
			Description: fmt.Sprintf("Room & Services %d", i+1),
			Quantity:    1,
			UnitRate:    decimal.NewFromInt(1000),
		})
	}
	return inv
}

func TestRender_ProducesPDF(t *testing.T) {
	out, err := Render(testInvoice(1), Options{})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("Render returned empty buffer")
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with PDF header: %q", out[:8])
	}
}

func TestRender_EmptyItems(t *testing.T) {
	// Empty item lists are not rejected; the invoice renders with a zero
	// subtotal.
	out, err := Render(testInvoice(0), Options{})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("Render returned empty buffer")
	}
}

func TestRender_WithLogo(t *testing.T) {
	logo := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for x := 0; x < 200; x++ {
		for y := 0; y < 100; y++ {
			logo.Set(x, y, color.RGBA{R: 40, G: 90, B: 200, A: 255})
		}
	}
	out, err := Render(testInvoice(2), Options{Logo: logo})
	if err != nil {
		t.Fatalf("Render with logo error: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("Render returned empty buffer")
	}
}

func TestBuildDocument_SinglePage(t *testing.T) {
	doc, err := buildDocument(testInvoice(5), Options{})
	if err != nil {
		t.Fatalf("buildDocument error: %v", err)
	}
	if got := doc.PageCount(); got != 1 {
		t.Fatalf("expected 1 page for 5 items, got %d", got)
	}
}

func TestBuildDocument_Paginates(t *testing.T) {
	// Enough rows to cross the low-water mark at least once.
	doc, err := buildDocument(testInvoice(60), Options{})
	if err != nil {
		t.Fatalf("buildDocument error: %v", err)
	}
	if got := doc.PageCount(); got < 2 {
		t.Fatalf("expected pagination for 60 items, got %d page(s)", got)
	}
}

func TestBuildDocument_PageCountMonotonic(t *testing.T) {
	prev := 0
	for _, n := range []int{1, 30, 60, 120} {
		doc, err := buildDocument(testInvoice(n), Options{})
		if err != nil {
			t.Fatalf("buildDocument(%d items) error: %v", n, err)
		}
		if doc.PageCount() < prev {
			t.Fatalf("page count decreased when adding items: %d items -> %d pages (previous %d)", n, doc.PageCount(), prev)
		}
		prev = doc.PageCount()
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"short", "short"},
		{"This description is exactly fifty characters long!", "This description is exactly fifty characters long!"[:50]},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, 50); got != tc.expected {
			t.Fatalf("truncate(%q) = %q, expected %q", tc.in, got, tc.expected)
		}
	}

	long := "An extremely long line item description that definitely exceeds the fifty character limit"
	got := truncate(long, 50)
	if len([]rune(got)) != 50 {
		t.Fatalf("truncated length = %d, expected 50", len([]rune(got)))
	}
	if got[len(got)-3:] != "..." {
		t.Fatalf("truncated string missing ellipsis: %q", got)
	}
}

func TestMoney(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"1000", "Rs.1,000.00"},
		{"0", "Rs.0.00"},
		{"1234567.5", "Rs.1,234,567.50"},
		{"999.99", "Rs.999.99"},
	}
	for _, tc := range cases {
		d := decimal.RequireFromString(tc.in)
		if got := money(d, "Rs."); got != tc.expected {
			t.Fatalf("money(%s) = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}

func TestValidateTTF_RejectsGarbage(t *testing.T) {
	if err := ValidateTTF(nil); err == nil {
		t.Fatal("expected error for empty font data")
	}
	if err := ValidateTTF([]byte("definitely not a font")); err == nil {
		t.Fatal("expected error for malformed font data")
	}
}
