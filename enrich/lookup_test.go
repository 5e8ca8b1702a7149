package enrich

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"bitbucket.org/mmdatafocus/hotelbill_backend/synth"
)

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f.text, f.err
}

func newTestClient(text string, err error) *Client {
	return NewClient(&fakeGenerator{text: text, err: err}, synth.New(rand.New(rand.NewSource(1))))
}

func TestLookupAddress_JSONObject(t *testing.T) {
	c := newTestClient(`Sure! {"address": "87 Marine Drive, Mumbai"}`, nil)
	addr, ok := c.LookupAddress(context.Background(), "Mumbai", false)
	if !ok {
		t.Fatal("expected ok")
	}
	if addr != "87 Marine Drive, Mumbai" {
		t.Fatalf("unexpected address %q", addr)
	}
}

func TestLookupAddress_PlainLine(t *testing.T) {
	c := newTestClient("\n\"14 Bandra Kurla Complex, Mumbai\"\nLet me know if you need more.", nil)
	addr, ok := c.LookupAddress(context.Background(), "Mumbai", false)
	if !ok {
		t.Fatal("expected ok")
	}
	if addr != "14 Bandra Kurla Complex, Mumbai" {
		t.Fatalf("unexpected address %q", addr)
	}
}

func TestLookupAddress_StreetKeywordLine(t *testing.T) {
	c := newTestClient("Connaught Place Road\n", nil)
	addr, ok := c.LookupAddress(context.Background(), "Delhi", false)
	if !ok || addr != "Connaught Place Road" {
		t.Fatalf("expected street keyword line, got %q ok=%v", addr, ok)
	}
}

func TestLookupAddress_GeneratorError(t *testing.T) {
	c := newTestClient("", errors.New("network down"))
	if _, ok := c.LookupAddress(context.Background(), "Mumbai", false); ok {
		t.Fatal("expected ok=false on generator error")
	}
}

func TestLookupAddress_NoUsableLine(t *testing.T) {
	c := newTestClient("", nil)
	if _, ok := c.LookupAddress(context.Background(), "Mumbai", false); ok {
		t.Fatal("expected ok=false on empty output")
	}
}

func TestSearchHotels_JSONArray(t *testing.T) {
	raw := `Here are some options:
[
  {"name": "Grand Plaza Mumbai", "approx_price": 2500, "phone": "+91-9812345670"},
  {"name": "Sunset Suites", "approx_price": "3,000"},
  {"name": "City Comfort", "price": 1800.50, "phone": "+91-9876543210"}
]`
	c := newTestClient(raw, nil)
	hotels, ok := c.SearchHotels(context.Background(), "Mumbai", 2000, 3000, false)
	if !ok {
		t.Fatal("expected ok")
	}
	if len(hotels) != 3 {
		t.Fatalf("expected 3 hotels, got %d", len(hotels))
	}
	if hotels[0].Name != "Grand Plaza Mumbai" || hotels[0].Phone != "+91-9812345670" {
		t.Fatalf("unexpected first hotel %+v", hotels[0])
	}
	if hotels[1].ApproxPrice.StringFixed(2) != "3000.00" {
		t.Fatalf("string price not parsed: %s", hotels[1].ApproxPrice)
	}
	if hotels[1].Phone == "" {
		t.Fatal("missing phone was not synthesized")
	}
	if hotels[2].ApproxPrice.StringFixed(2) != "1800.50" {
		t.Fatalf("fallback price field not used: %s", hotels[2].ApproxPrice)
	}
}

func TestSearchHotels_FreeTextLines(t *testing.T) {
	raw := "Grand Plaza - INR 2,500 - +91-9812345670\nSunset Suites - INR 3000\nnot a hotel line"
	c := newTestClient(raw, nil)
	hotels, ok := c.SearchHotels(context.Background(), "Mumbai", 2000, 3000, false)
	if !ok {
		t.Fatal("expected ok")
	}
	if len(hotels) != 2 {
		t.Fatalf("expected 2 hotels, got %d", len(hotels))
	}
	if hotels[0].Name != "Grand Plaza" {
		t.Fatalf("unexpected name %q", hotels[0].Name)
	}
	if hotels[0].ApproxPrice.StringFixed(2) != "2500.00" {
		t.Fatalf("price not parsed from line: %s", hotels[0].ApproxPrice)
	}
	if hotels[0].Phone != "+91-9812345670" {
		t.Fatalf("phone not extracted: %q", hotels[0].Phone)
	}
	if hotels[1].Phone == "" {
		t.Fatal("missing phone was not synthesized")
	}
}

func TestSearchHotels_CapsAtFive(t *testing.T) {
	raw := ""
	for i := 0; i < 8; i++ {
		raw += "Hotel - INR 1000\n"
	}
	c := newTestClient(raw, nil)
	hotels, ok := c.SearchHotels(context.Background(), "Pune", 800, 1200, false)
	if !ok {
		t.Fatal("expected ok")
	}
	if len(hotels) != 5 {
		t.Fatalf("expected cap at 5 hotels, got %d", len(hotels))
	}
}

func TestSearchHotels_TotalFailure(t *testing.T) {
	c := newTestClient("I cannot help with that.", nil)
	if _, ok := c.SearchHotels(context.Background(), "Mumbai", 2000, 3000, false); ok {
		t.Fatal("expected ok=false when nothing parseable")
	}
}
