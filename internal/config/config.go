package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DateLayout is the wire and configuration format for dates.
const DateLayout = "2006-01-02"

// Extraction range of the original survey.
const (
	DefaultStartDate = "2000-02-18"
	DefaultEndDate   = "2020-07-09"
)

type AppConfig struct {
	// GatewayURL is the base URL of the Earth Engine compute gateway.
	GatewayURL string `validate:"required,url"`

	// AccessToken is a static bearer token for the gateway. Leave empty
	// when the OAuth2 client-credentials flow is configured instead.
	AccessToken  string
	TokenURL     string `validate:"omitempty,url"`
	ClientID     string
	ClientSecret string

	// HTTPTimeout bounds each gateway call. Zero disables the timeout: a
	// reduction then blocks until the gateway answers.
	HTTPTimeout time.Duration

	// StartDate and EndDate bound the extraction, inclusive of both dates.
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required"`

	// RegionFile optionally points at a GeoJSON region of interest. Empty
	// means the built-in Sundarbans region.
	RegionFile string

	// OutputDir receives the per-variable delimited files.
	OutputDir string `validate:"required"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		GatewayURL:   getenvDefault("EE_GATEWAY_URL", "http://127.0.0.1:8000"),
		AccessToken:  os.Getenv("EE_ACCESS_TOKEN"),
		TokenURL:     os.Getenv("EE_TOKEN_URL"),
		ClientID:     os.Getenv("EE_CLIENT_ID"),
		ClientSecret: os.Getenv("EE_CLIENT_SECRET"),
		RegionFile:   os.Getenv("REGION_FILE"),
		OutputDir:    getenvDefault("OUTPUT_DIR", "data"),
		LogLevel:     getenvDefault("LOG_LEVEL", "info"),
		LogFormat:    getenvDefault("LOG_FORMAT", "text"),
	}

	// Gateway calls run without a deadline unless one is configured.
	timeoutStr := getenvDefault("HTTP_TIMEOUT", "0")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.StartDate, err = ParseDate(getenvDefault("START_DATE", DefaultStartDate))
	if err != nil {
		return nil, fmt.Errorf("invalid START_DATE: %w", err)
	}
	cfg.EndDate, err = ParseDate(getenvDefault("END_DATE", DefaultEndDate))
	if err != nil {
		return nil, fmt.Errorf("invalid END_DATE: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
