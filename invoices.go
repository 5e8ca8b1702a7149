package main

import (
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/hotelbill_backend/config"
	"bitbucket.org/mmdatafocus/hotelbill_backend/models"
	"bitbucket.org/mmdatafocus/hotelbill_backend/pdf"
	"bitbucket.org/mmdatafocus/hotelbill_backend/utils"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	defaultHotelName   = "NEO ROBOTIC INN"
	defaultGSTPercent  = "5.0"
	defaultBillAmount  = "1000"
	defaultItemDesc    = "Room & Services"
	defaultPaymentMode = "Cash"
	currencySymbol     = "Rs."

	maxUploadSizeBytes int64 = 5 * 1024 * 1024
)

var logoMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

type generateInvoiceRequest struct {
	HotelName       string `form:"hotel_name" binding:"omitempty,max=120"`
	City            string `form:"city" binding:"omitempty,max=80"`
	HotelPhone      string `form:"hotel_phone" binding:"omitempty,max=24"`
	GuestName       string `form:"guest_name" binding:"omitempty,max=120"`
	RoomNumber      string `form:"room_no" binding:"omitempty,max=16"`
	InvoiceNumber   string `form:"invoice_no" binding:"omitempty,max=40"`
	Date            string `form:"date" binding:"omitempty,max=20"`
	BillAmount      string `form:"bill_amount" binding:"omitempty,max=20"`
	GSTPercent      string `form:"gst_percent" binding:"omitempty,max=10"`
	SkipEnrichment  bool   `form:"skip_enrichment"`
	Debug           bool   `form:"debug"`
	ItemDescription string `form:"item_desc" binding:"omitempty,max=200"`
	AddCustomItems  bool   `form:"add_custom_items"`
	CustomItems     string `form:"custom_items"`
}

func generateInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		var req generateInvoiceRequest
		if err := c.ShouldBind(&req); err != nil {
			if _, ok := err.(validator.ValidationErrors); ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		applyDefaults(&req)

		billAmount, err := utils.ParseDecimal(req.BillAmount)
		if err != nil || billAmount.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bill_amount must be a decimal >= 0"})
			return
		}
		gstPercent, err := utils.ParseDecimal(req.GSTPercent)
		if err != nil || gstPercent.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gst_percent must be a decimal >= 0"})
			return
		}

		items := resolveItems(&req, billAmount)

		fontFamily, fontData := resolveFont(c)
		logo := resolveLogo(c)

		address := resolveAddress(c, &req)
		phone := resolvePhone(c, &req, billAmount)

		inv := models.Invoice{
			HotelName:      req.HotelName,
			HotelAddress:   address,
			HotelPhone:     phone,
			TaxID:          generator.TaxID(),
			GuestName:      req.GuestName,
			RoomNumber:     req.RoomNumber,
			InvoiceNumber:  req.InvoiceNumber,
			DateString:     req.Date,
			Items:          items,
			TaxPercent:     gstPercent,
			PaymentMode:    defaultPaymentMode,
			CurrencySymbol: currencySymbol,
		}

		out, err := pdf.Render(&inv, pdf.Options{
			FontFamily: fontFamily,
			FontData:   fontData,
			Logo:       logo,
		})
		if err != nil {
			config.LogError(logger, "invoices.go", "generateInvoiceHandler", "pdf.Render", inv.InvoiceNumber, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate invoice"})
			return
		}

		logger.WithFields(logrus.Fields{
			"invoice_no": inv.InvoiceNumber,
			"items":      len(inv.Items),
			"bytes":      len(out),
		}).Info("[invoice.generated]")

		filename := utils.SanitizeFilename(req.HotelName) + "_bill.pdf"
		c.Header("Content-Disposition", `attachment; filename=`+filename)
		c.Data(http.StatusOK, "application/pdf", out)
	}
}

func applyDefaults(req *generateInvoiceRequest) {
	if strings.TrimSpace(req.HotelName) == "" {
		req.HotelName = defaultHotelName
	}
	if strings.TrimSpace(req.GuestName) == "" {
		req.GuestName = "Guest"
	}
	if strings.TrimSpace(req.RoomNumber) == "" {
		req.RoomNumber = "101"
	}
	if strings.TrimSpace(req.InvoiceNumber) == "" {
		req.InvoiceNumber = models.NewInvoiceNumber(time.Now())
	}
	if strings.TrimSpace(req.Date) == "" {
		req.Date = time.Now().Format("2006-01-02")
	}
	if strings.TrimSpace(req.BillAmount) == "" {
		req.BillAmount = defaultBillAmount
	}
	if strings.TrimSpace(req.GSTPercent) == "" {
		req.GSTPercent = defaultGSTPercent
	}
	if strings.TrimSpace(req.ItemDescription) == "" {
		req.ItemDescription = defaultItemDesc
	}
}

// resolveItems returns the custom-entered items, or the default single line
// item equal to the bill amount.
func resolveItems(req *generateInvoiceRequest, billAmount decimal.Decimal) []models.LineItem {
	if req.AddCustomItems {
		if items := models.ParseItemLines(req.CustomItems); len(items) > 0 {
			return items
		}
	}
	return []models.LineItem{
		{Description: req.ItemDescription, Quantity: 1, UnitRate: billAmount},
	}
}

// resolveFont stages an uploaded TTF to a temp file, validates it, and
// returns the family name and bytes. The temp file is removed on every exit
// path. A bad font is reported via the X-Font-Warning header and generation
// continues with the built-in faces.
func resolveFont(c *gin.Context) (string, []byte) {
	logger := config.GetLogger()

	fh, err := c.FormFile("font")
	if err != nil {
		return "", nil
	}
	if fh.Size > maxUploadSizeBytes {
		c.Header("X-Font-Warning", "font file exceeds 5MB limit; using default fonts")
		return "", nil
	}

	staged := filepath.Join(os.TempDir(), "font_"+utils.GenerateUniqueFilename()+".ttf")
	if err := c.SaveUploadedFile(fh, staged); err != nil {
		config.LogError(logger, "invoices.go", "resolveFont", "SaveUploadedFile", fh.Filename, err)
		c.Header("X-Font-Warning", "could not read font upload; using default fonts")
		return "", nil
	}
	defer func() {
		if err := os.Remove(staged); err != nil {
			logger.WithFields(logrus.Fields{"path": staged}).Warn("failed to remove staged font: " + err.Error())
		}
	}()

	data, err := os.ReadFile(staged)
	if err != nil {
		config.LogError(logger, "invoices.go", "resolveFont", "ReadFile", staged, err)
		c.Header("X-Font-Warning", "could not read font upload; using default fonts")
		return "", nil
	}
	if err := pdf.ValidateTTF(data); err != nil {
		logger.WithFields(logrus.Fields{"file": fh.Filename}).Warn("font registration failed: " + err.Error())
		c.Header("X-Font-Warning", "could not register font; using default fonts")
		return "", nil
	}

	family := utils.SanitizeFilename(strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename)))
	return family, data
}

// resolveLogo decodes an uploaded logo. Any failure silently drops the logo
// and the header renders without it.
func resolveLogo(c *gin.Context) image.Image {
	logger := config.GetLogger()

	fh, err := c.FormFile("logo")
	if err != nil {
		return nil
	}
	if fh.Size > maxUploadSizeBytes {
		logger.WithFields(logrus.Fields{"size": fh.Size}).Warn("logo exceeds 5MB limit; ignored")
		return nil
	}
	if mime := fh.Header.Get("Content-Type"); mime != "" && !logoMimeTypes[mime] {
		logger.WithFields(logrus.Fields{"mime_type": mime}).Warn("unsupported logo type; ignored")
		return nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		logger.WithFields(logrus.Fields{"file": fh.Filename}).Warn("could not decode logo; ignored: " + err.Error())
		return nil
	}
	return img
}

// resolveAddress prefers the enrichment lookup and falls back to a synthetic
// address for the city.
func resolveAddress(c *gin.Context, req *generateInvoiceRequest) string {
	if !req.SkipEnrichment && enricher != nil {
		if addr, ok := enricher.LookupAddress(c.Request.Context(), req.City, req.Debug); ok {
			return addr
		}
	}
	return generator.Address(req.City)
}

// resolvePhone keeps a user-supplied phone as-is, otherwise picks one from
// hotel candidates near the bill amount (enriched when possible, synthetic
// otherwise).
func resolvePhone(c *gin.Context, req *generateInvoiceRequest, billAmount decimal.Decimal) string {
	logger := config.GetLogger()

	if phone := strings.TrimSpace(req.HotelPhone); phone != "" {
		if err := utils.ValidatePhoneNumber(phone, utils.CountryCode); err != nil {
			logger.WithFields(logrus.Fields{"phone": phone}).Warn("hotel phone failed validation; using as entered")
		}
		return phone
	}

	var candidates []models.HotelCandidate
	if !req.SkipEnrichment && enricher != nil {
		low := billAmount.Mul(decimal.NewFromFloat(0.8)).IntPart()
		if low < 100 {
			low = 100
		}
		high := billAmount.Mul(decimal.NewFromFloat(1.2)).IntPart()
		if hotels, ok := enricher.SearchHotels(c.Request.Context(), req.City, low, high, req.Debug); ok {
			candidates = hotels
		}
	}
	if len(candidates) == 0 {
		candidates = generator.HotelSuggestions(req.City, billAmount)
	}
	return generator.PickPhone(candidates)
}
