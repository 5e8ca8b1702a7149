// Package pdf renders a resolved invoice dataset to a paginated A4 document.
// The content column is narrowed to 70% of the printable width and centered,
// and all drawing uses offsets from the top-left corner of that column.
package pdf

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"bitbucket.org/mmdatafocus/hotelbill_backend/models"
	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	pageMarginMM = 18.0
	mm           = 72.0 / 25.4 // document unit is the point

	logoWidth    = 40 * mm
	rowSpacing   = 16.0
	descMaxChars = 50

	// A row drawn past this offset triggers a page break; the cursor
	// restarts near the top of the new page.
	pageBreakAt = 500.0
	pageTopCont = 40.0
)

// Options carries the optional custom typeface and logo. FontData must have
// been validated with ValidateTTF; Logo must already be decoded. The engine
// itself never touches the network or disk.
type Options struct {
	FontFamily string
	FontData   []byte
	Logo       image.Image
}

// Render lays out the invoice and returns the PDF bytes. On any drawing
// failure no partial buffer is returned.
func Render(inv *models.Invoice, opts Options) ([]byte, error) {
	doc, err := buildDocument(inv, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("invoice rendering failed: %w", err)
	}
	return buf.Bytes(), nil
}

type layout struct {
	pdf          *gofpdf.Fpdf
	translate    func(string) string
	headerFont   string
	regularFont  string
	left         float64 // x of the content column's left edge
	top          float64 // y of the content column's top edge
	contentWidth float64
}

func buildDocument(inv *models.Invoice, opts Options) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	l := &layout{pdf: pdf}

	// Core fonts are cp1252; translate unless a UTF-8 face was supplied.
	l.translate = func(s string) string { return s }
	l.headerFont, l.regularFont = "Helvetica", "Helvetica"
	headerStyle := "B"
	if len(opts.FontData) > 0 && opts.FontFamily != "" {
		pdf.AddUTF8FontFromBytes(opts.FontFamily, "", opts.FontData)
		pdf.AddUTF8FontFromBytes(opts.FontFamily, "B", opts.FontData)
		l.headerFont, l.regularFont = opts.FontFamily, opts.FontFamily
	} else {
		l.translate = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pageW, _ := pdf.GetPageSize()
	margin := pageMarginMM * mm
	fullPrintable := pageW - 2*margin
	l.contentWidth = fullPrintable * 0.70
	l.left = margin + (fullPrintable-l.contentWidth)/2
	l.top = margin

	pdf.AddPage()

	// Header: logo plus hotel identity on the left, invoice meta on the right.
	titleX, topY := 0.0, 0.0
	if opts.Logo != nil {
		if h, ok := l.drawLogo(opts.Logo); ok {
			titleX = logoWidth + 8
			topY = h / 2
		}
	}

	pdf.SetFont(l.headerFont, headerStyle, 18)
	l.text(titleX, topY, inv.HotelName)
	pdf.SetFont(l.regularFont, "", 9)
	l.text(titleX, topY+16, inv.HotelAddress)
	l.text(titleX, topY+28, "Phone: "+inv.HotelPhone)
	l.text(titleX, topY+40, "GSTIN: "+inv.TaxID)

	rightX := l.contentWidth - 160
	l.text(rightX, topY, "Invoice No: "+inv.InvoiceNumber)
	l.text(rightX, topY+12, "Date: "+inv.DateString)

	l.rule(topY + 56)

	// Guest block.
	y := topY + 76
	pdf.SetFont(l.headerFont, headerStyle, 10)
	l.text(0, y, "Guest Name:")
	pdf.SetFont(l.regularFont, "", 10)
	l.text(90, y, inv.GuestName)
	pdf.SetFont(l.headerFont, headerStyle, 10)
	l.text(rightX, y, "Room No:")
	pdf.SetFont(l.regularFont, "", 10)
	l.text(rightX+60, y, inv.RoomNumber)

	y += 18
	pdf.SetFont(l.headerFont, headerStyle, 10)
	l.text(0, y, "Items")
	y += 12

	// Item table: SL and description left-aligned, the numeric columns
	// right-aligned at fractions of the content width.
	colDescX := 36.0
	colQtyRight := l.contentWidth * 0.60
	colRateRight := l.contentWidth * 0.80
	colAmountRight := l.contentWidth

	pdf.SetFont(l.regularFont, "", 10)
	l.text(0, y, "SL")
	l.text(colDescX, y, "Description")
	l.textRight(colQtyRight, y, "Qty")
	l.textRight(colRateRight, y, "Rate")
	l.textRight(colAmountRight, y, "Amount")
	y += 6
	l.rule(y)
	y += 14

	for i, it := range inv.Items {
		// Break before drawing so no item straddles the boundary.
		if y > pageBreakAt {
			pdf.AddPage()
			y = pageTopCont
		}
		pdf.SetFont(l.regularFont, "", 10)
		l.text(0, y, fmt.Sprintf("%d", i+1))
		l.text(colDescX, y, truncate(it.Description, descMaxChars))
		l.textRight(colQtyRight, y, fmt.Sprintf("%d", it.Quantity))
		l.textRight(colRateRight, y, money(it.UnitRate, inv.CurrencySymbol))
		l.textRight(colAmountRight, y, money(it.Amount(), inv.CurrencySymbol))
		y += rowSpacing
	}

	// Totals.
	y += 8
	l.rule(y)
	y += 16
	pdf.SetFont(l.headerFont, headerStyle, 10)
	l.textRight(l.contentWidth, y, "Subtotal: "+money(inv.Subtotal(), inv.CurrencySymbol))
	y += 14
	l.textRight(l.contentWidth, y, fmt.Sprintf("GST (%s%%): %s", inv.TaxPercent.String(), money(inv.TaxAmount(), inv.CurrencySymbol)))
	y += 14
	l.textRight(l.contentWidth, y, "Grand Total: "+money(inv.GrandTotal(), inv.CurrencySymbol))

	// Footer.
	y += 26
	pdf.SetFont(l.regularFont, "", 9)
	l.text(0, y, "Payment Mode: "+inv.PaymentMode)
	y += 12
	l.text(0, y, "Note: This is a computer-generated bill.")

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("invoice rendering failed: %w", err)
	}
	return pdf, nil
}

// text draws at an offset from the content origin; y grows downward.
func (l *layout) text(x, y float64, s string) {
	l.pdf.Text(l.left+x, l.top+y, l.translate(s))
}

// textRight right-aligns the string's end at the given x offset.
func (l *layout) textRight(x, y float64, s string) {
	t := l.translate(s)
	l.pdf.Text(l.left+x-l.pdf.GetStringWidth(t), l.top+y, t)
}

// rule draws a horizontal line across the content column.
func (l *layout) rule(y float64) {
	l.pdf.Line(l.left, l.top+y, l.left+l.contentWidth, l.top+y)
}

// drawLogo embeds the already-decoded logo at fixed width with aspect ratio
// preserved, returning its rendered height.
func (l *layout) drawLogo(logo image.Image) (float64, bool) {
	bounds := logo.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return 0, false
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, logo, imaging.PNG); err != nil {
		return 0, false
	}
	h := logoWidth / float64(bounds.Dx()) * float64(bounds.Dy())
	l.pdf.RegisterImageOptionsReader("logo", gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	l.pdf.ImageOptions("logo", l.left, l.top, logoWidth, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return h, true
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// money formats an amount with a display symbol and thousands separators.
func money(d decimal.Decimal, symbol string) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)
	out := symbol + strings.Join(groups, ",") + "." + fracPart
	if neg {
		out = symbol + "-" + strings.Join(groups, ",") + "." + fracPart
	}
	return out
}
