package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func init() {
	// Load env from .env
	godotenv.Load()
}

// GeminiAPIKey gates the enrichment client. An empty value is a fully
// supported configuration: the generator fallbacks produce the invoice data.
func GeminiAPIKey() string {
	return strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
}

// GeminiModel returns the generative model name to use for lookups.
//
// Set via env:
// - GEMINI_MODEL="gemini-1.5-flash"
func GeminiModel() string {
	v := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if v == "" {
		return "gemini-1.5-flash"
	}
	return v
}

// Port returns the HTTP listen port, preferring API_PORT then the Cloud Run
// standard PORT.
func Port() string {
	port := strings.TrimSpace(os.Getenv("API_PORT"))
	if port == "" {
		port = strings.TrimSpace(os.Getenv("PORT"))
	}
	if port == "" {
		port = "8080"
	}
	return port
}
