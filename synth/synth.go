// Package synth produces plausible fake invoice data (tax IDs, phone
// numbers, addresses, hotel candidates) for when the enrichment service is
// unavailable or disabled. All randomness flows through an injected source
// so tests can seed it.
package synth

import (
	"fmt"
	"math/rand"
	"strings"

	"bitbucket.org/mmdatafocus/hotelbill_backend/models"
	"github.com/shopspring/decimal"
)

const (
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
)

var minSuggestedPrice = decimal.NewFromInt(500)

type Generator struct {
	r *rand.Rand
}

func New(r *rand.Rand) *Generator {
	return &Generator{r: r}
}

// TaxID returns a GSTIN-shaped identifier: 2-digit state code, 5 letters,
// 4 digits, 1 letter, 1 digit, "Z", 1 letter. Visual plausibility only;
// there is no checksum.
func (g *Generator) TaxID() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%02d", g.r.Intn(35)+1)
	for i := 0; i < 5; i++ {
		b.WriteByte(letters[g.r.Intn(len(letters))])
	}
	for i := 0; i < 4; i++ {
		b.WriteByte(digits[g.r.Intn(len(digits))])
	}
	b.WriteByte(letters[g.r.Intn(len(letters))])
	b.WriteByte(byte('1' + g.r.Intn(9)))
	b.WriteByte('Z')
	b.WriteByte(letters[g.r.Intn(len(letters))])
	return b.String()
}

// Mobile returns an Indian-format mobile number string.
func (g *Generator) Mobile() string {
	return fmt.Sprintf("+91-%d%d", g.r.Intn(400)+600, g.r.Intn(9000000)+1000000)
}

var cityAddresses = map[string][]string{
	"mumbai": {
		"87 Marine Drive, Mumbai",
		"14 Bandra Kurla Complex, Mumbai",
		"5 Colaba Causeway, Mumbai",
		"210 Andheri East, Mumbai",
	},
	"delhi": {
		"32 Connaught Place, New Delhi",
		"108 Lajpat Nagar, New Delhi",
		"9 Patel Nagar, New Delhi",
		"256 INA Colony, New Delhi",
	},
	"bangalore": {
		"18 MG Road, Bengaluru",
		"45 Indiranagar, Bengaluru",
		"7 Whitefield Main Road, Bengaluru",
		"88 Koramangala, Bengaluru",
	},
	"hyderabad": {
		"12 Banjara Hills, Hyderabad",
		"56 Hitech City Rd, Hyderabad",
		"3 Secunderabad Rd, Hyderabad",
	},
	"chennai": {
		"77 T Nagar, Chennai",
		"21 Anna Salai, Chennai",
		"9 Adyar, Chennai",
	},
	"kolkata": {
		"15 Park Street, Kolkata",
		"88 Salt Lake, Kolkata",
		"22 Ballygunge, Kolkata",
	},
	"pune": {
		"11 FC Road, Pune",
		"60 Koregaon Park, Pune",
		"9 Viman Nagar, Pune",
	},
	"indore": {
		"18 MG Road, Indore",
		"44 Vijay Nagar, Indore",
		"5 AB Road, Indore",
	},
}

var streetNames = []string{"Park Lane", "Circuit Avenue", "Industrial Area", "MG Road", "Market Street", "Station Road"}

// Address returns a plausible street address for the city. Known cities pick
// from a curated table (case-insensitive, prefix-tolerant); unknown cities
// get a templated address; an empty city gets a generic placeholder.
func (g *Generator) Address(city string) string {
	if strings.TrimSpace(city) == "" {
		return "12 Circuit Avenue, Tech Park, City"
	}
	c := strings.ToLower(strings.TrimSpace(city))
	if addrs, ok := cityAddresses[c]; ok {
		return addrs[g.r.Intn(len(addrs))]
	}
	for key, addrs := range cityAddresses {
		if strings.HasPrefix(c, key) {
			return addrs[g.r.Intn(len(addrs))]
		}
	}
	street := streetNames[g.r.Intn(len(streetNames))]
	return fmt.Sprintf("%d %s, %s", g.r.Intn(300)+1, street, titleCase(city))
}

var hotelNamePool = []string{"Grand Plaza", "Mirage Residency", "Sunset Suites", "City Comfort", "Hotel Aurora", "Royal Stay"}

// HotelSuggestions returns 3 synthetic hotel candidates priced within 20% of
// the bill amount, floored at 500.
func (g *Generator) HotelSuggestions(city string, billAmount decimal.Decimal) []models.HotelCandidate {
	cityWord := strings.TrimSpace(city)
	if i := strings.IndexByte(cityWord, ' '); i > 0 {
		cityWord = cityWord[:i]
	}
	cityWord = titleCase(cityWord)

	out := make([]models.HotelCandidate, 0, 3)
	for i := 0; i < 3; i++ {
		delta := billAmount.Mul(decimal.NewFromFloat(g.r.Float64()*0.4 - 0.2))
		price := billAmount.Add(delta).Round(2)
		if price.LessThan(minSuggestedPrice) {
			price = minSuggestedPrice
		}
		name := hotelNamePool[g.r.Intn(len(hotelNamePool))]
		if cityWord != "" {
			name = name + " " + cityWord
		}
		out = append(out, models.HotelCandidate{
			Name:        name,
			ApproxPrice: price,
			Phone:       g.Mobile(),
		})
	}
	return out
}

// PickPhone returns the phone of a random candidate, or a fresh mobile
// number when the list is empty.
func (g *Generator) PickPhone(candidates []models.HotelCandidate) string {
	if len(candidates) == 0 {
		return g.Mobile()
	}
	phone := candidates[g.r.Intn(len(candidates))].Phone
	if phone == "" {
		return g.Mobile()
	}
	return phone
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
