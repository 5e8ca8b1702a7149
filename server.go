package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/hotelbill_backend/config"
	"bitbucket.org/mmdatafocus/hotelbill_backend/enrich"
	"bitbucket.org/mmdatafocus/hotelbill_backend/synth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// Composition root state: a nil enricher means enrichment is disabled
	// and the synthetic generators carry every lookup.
	enricher  *enrich.Client
	generator *synth.Generator
)

func indexHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"HotelName":  defaultHotelName,
		"City":       "Mumbai",
		"GSTPercent": "5.0",
		"BillAmount": "1000.00",
	})
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func main() {
	port := config.Port()
	logger := config.GetLogger()

	// SIGTERM handling for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	generator = synth.New(rand.New(rand.NewSource(time.Now().UnixNano())))

	// Enrichment is wired here, not inside business logic: the handler only
	// ever sees the TextGenerator-backed client or nil.
	if key := config.GeminiAPIKey(); key != "" {
		gen, err := enrich.NewGeminiGenerator(context.Background(), key, config.GeminiModel())
		if err != nil {
			logger.WithFields(logrus.Fields{
				"field": "enrichment",
			}).Warn("gemini client unavailable; using synthetic fallbacks: " + err.Error())
		} else {
			defer gen.Close()
			enricher = enrich.NewClient(gen, generator)
		}
	} else {
		logger.WithFields(logrus.Fields{
			"field": "enrichment",
		}).Info("GEMINI_API_KEY not set; enrichment disabled")
	}

	r := gin.New()
	// Correlation IDs: generate once per request and echo back.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Set("correlation_id", cid)
		c.Writer.Header().Set("X-Correlation-Id", cid)
		c.Next()
	})

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS:
	// - In production, require explicit allowlist via CORS_ALLOWED_ORIGINS (comma-separated).
	// - In non-production, allow all (developer convenience).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition", "X-Font-Warning")
	r.Use(cors.New(corsConfig))

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.LoadHTMLGlob("templates/*")
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/", indexHandler)
	r.POST("/generate-invoice", generateInvoiceHandler())
	r.NoRoute(customNotFoundHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	logger.WithFields(logrus.Fields{
		"info": "Listening",
	}).Info("connect to http://localhost:", port, "/ for the invoice form")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
