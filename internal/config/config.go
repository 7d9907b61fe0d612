// Package config loads and validates application configuration from
// environment variables. Missing required variables are detected here,
// before any remote call is attempted.
package config

import (
	"fmt"
	"strings"
	"time"

	"autoagenda/internal/env"
)

// Config holds everything the process needs to talk to Gemini and the two
// Google services.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "9005".
	Port string

	// Mode is "dev" or "prod"; it controls log formatting and cookie
	// security. Defaults to "dev".
	Mode string

	// GeminiAPIKey authenticates the hosted model. Required.
	GeminiAPIKey string

	// ServiceAccountFile is the path to the Google service-account key
	// used for both Sheets and Calendar. Required.
	ServiceAccountFile string

	// SheetID identifies the maintenance ledger spreadsheet. Required.
	SheetID string

	// CalendarID identifies the booking calendar. Defaults to "primary".
	CalendarID string

	// Timezone is the single fixed zone all dates, times, and timestamps
	// are interpreted in. Defaults to America/Sao_Paulo.
	Timezone *time.Location
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing every required variable that is not set.
func Load() (Config, error) {
	cfg := Config{
		Port:       env.GetAsStringElseAlt("PORT", "9005"),
		Mode:       env.GetAsStringElseAlt("ENV", "dev"),
		CalendarID: env.GetAsStringElseAlt("CALENDAR_ID", "primary"),
	}

	var missing []string

	cfg.GeminiAPIKey = env.GetAsString("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}

	cfg.ServiceAccountFile = env.GetAsString("SERVICE_ACCOUNT_FILE")
	if cfg.ServiceAccountFile == "" {
		missing = append(missing, "SERVICE_ACCOUNT_FILE")
	}

	cfg.SheetID = env.GetAsString("GOOGLE_SHEET_ID")
	if cfg.SheetID == "" {
		missing = append(missing, "GOOGLE_SHEET_ID")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	tzName := env.GetAsStringElseAlt("TIMEZONE", "America/Sao_Paulo")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return Config{}, fmt.Errorf("load timezone %q: %w", tzName, err)
	}
	cfg.Timezone = loc

	return cfg, nil
}
