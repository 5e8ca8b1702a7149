package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/hotelbill_backend/config"
	"bitbucket.org/mmdatafocus/hotelbill_backend/models"
	"bitbucket.org/mmdatafocus/hotelbill_backend/synth"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const lookupTimeout = 10 * time.Second

const maxHotelResults = 5

var (
	addressObjectRe = regexp.MustCompile(`(?s)(\{\s*"address"\s*:\s*".*?"\s*\})`)
	hotelArrayRe    = regexp.MustCompile(`(?s)(\[\s*\{.*?\}\s*\])`)
	leadingJunkRe   = regexp.MustCompile(`^["'\[{]+`)
	trailingJunkRe  = regexp.MustCompile(`["'\]}]+$`)
	dashSplitRe     = regexp.MustCompile("[-–—]")
	priceTokenRe    = regexp.MustCompile(`([\d,]+(?:\.\d+)?)`)
	phoneTokenRe    = regexp.MustCompile(`(\+?\d[\d\-\s]{7,}\d)`)
	digitRe         = regexp.MustCompile(`\d`)
)

var streetKeywords = []string{"road", "rd", "street", "st", "lane", "drive", "ave", "park", "complex", "colaba"}

// Client wraps a TextGenerator with the two invoice lookups. The synthetic
// generator fills phone numbers the model leaves out.
type Client struct {
	gen      TextGenerator
	fallback *synth.Generator
}

func NewClient(gen TextGenerator, fallback *synth.Generator) *Client {
	return &Client{gen: gen, fallback: fallback}
}

// LookupAddress asks for one short address line for a hotel in the city.
// ok is false on any failure; the error never reaches the caller.
func (c *Client) LookupAddress(ctx context.Context, city string, debug bool) (string, bool) {
	logger := config.GetLogger()

	prompt := fmt.Sprintf(
		"Provide a single plausible street address (one short line) for a hotel in %s.\n"+
			"Return ONLY a short single-line address string or a JSON object like {\"address\": \"...\"}.\n"+
			"If you cannot provide JSON, just output the address line.", city)

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	raw, err := c.gen.GenerateText(ctx, prompt)
	if err != nil {
		config.LogError(logger, "lookup.go", "LookupAddress", "GenerateText", city, err)
		return "", false
	}
	if debug {
		logger.WithFields(logrus.Fields{"debug": true, "city": city, "raw": raw}).Info("address lookup raw output")
	}

	addr := parseAddress(raw)
	if addr == "" {
		return "", false
	}
	return addr, true
}

func parseAddress(raw string) string {
	// JSON object first.
	if m := addressObjectRe.FindString(raw); m != "" {
		var obj struct {
			Address string `json:"address"`
		}
		if err := json.Unmarshal([]byte(m), &obj); err == nil && strings.TrimSpace(obj.Address) != "" {
			return strings.TrimSpace(obj.Address)
		}
	}

	// Fallback: first plausible line.
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = leadingJunkRe.ReplaceAllString(line, "")
		line = trailingJunkRe.ReplaceAllString(line, "")
		if digitRe.MatchString(line) || containsStreetKeyword(line) {
			return line
		}
		if len(line) < 120 {
			return line
		}
	}
	return ""
}

func containsStreetKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, tok := range streetKeywords {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// SearchHotels asks for up to 5 hotels near the nightly price band and
// parses either a JSON array or dash-separated free-text lines. Candidates
// missing a phone get a synthesized one. ok is false on total failure.
func (c *Client) SearchHotels(ctx context.Context, city string, minPrice, maxPrice int64, debug bool) ([]models.HotelCandidate, bool) {
	logger := config.GetLogger()

	prompt := fmt.Sprintf(
		"List up to 5 hotels in %s with nightly price around INR %d-%d. "+
			"Return a JSON array of objects with fields: name, approx_price, phone. "+
			"If you cannot return JSON, output lines like: Hotel Name - INR 3,000 - +91-xxxxx.",
		city, minPrice, maxPrice)

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	raw, err := c.gen.GenerateText(ctx, prompt)
	if err != nil {
		config.LogError(logger, "lookup.go", "SearchHotels", "GenerateText", city, err)
		return nil, false
	}
	if debug {
		logger.WithFields(logrus.Fields{"debug": true, "city": city, "raw": raw}).Info("hotel search raw output")
	}

	hotels := c.parseHotels(raw)
	if len(hotels) == 0 {
		return nil, false
	}
	if len(hotels) > maxHotelResults {
		hotels = hotels[:maxHotelResults]
	}
	return hotels, true
}

func (c *Client) parseHotels(raw string) []models.HotelCandidate {
	if m := hotelArrayRe.FindString(raw); m != "" {
		var entries []map[string]any
		if err := json.Unmarshal([]byte(m), &entries); err == nil {
			var hotels []models.HotelCandidate
			for _, e := range entries {
				name := stringField(e, "name")
				if name == "" {
					name = "<unknown>"
				}
				price := priceField(e, "approx_price")
				if price.IsZero() {
					price = priceField(e, "price")
				}
				phone := stringField(e, "phone")
				if phone == "" {
					phone = c.fallback.Mobile()
				}
				hotels = append(hotels, models.HotelCandidate{Name: name, ApproxPrice: price, Phone: phone})
			}
			if len(hotels) > 0 {
				return hotels
			}
		}
	}

	var hotels []models.HotelCandidate
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := dashSplitRe.Split(line, -1)
		if len(parts) < 2 {
			continue
		}
		price := decimal.Zero
		if m := priceTokenRe.FindString(parts[1]); m != "" {
			if p, err := decimal.NewFromString(strings.ReplaceAll(m, ",", "")); err == nil {
				price = p
			}
		}
		phone := strings.TrimSpace(phoneTokenRe.FindString(line))
		if phone == "" {
			phone = c.fallback.Mobile()
		}
		hotels = append(hotels, models.HotelCandidate{
			Name:        strings.TrimSpace(parts[0]),
			ApproxPrice: price,
			Phone:       phone,
		})
	}
	return hotels
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func priceField(m map[string]any, key string) decimal.Decimal {
	switch v := m[key].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		if p, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(v), ",", "")); err == nil {
			return p
		}
	}
	return decimal.Zero
}
