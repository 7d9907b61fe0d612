package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoagenda/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SERVICE_ACCOUNT_FILE", "/tmp/key.json")
	t.Setenv("GOOGLE_SHEET_ID", "sheet-123")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("CALENDAR_ID", "")
	t.Setenv("TIMEZONE", "")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "9005", cfg.Port)
	assert.Equal(t, "dev", cfg.Mode)
	assert.Equal(t, "primary", cfg.CalendarID)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone.String())
}

func TestLoad_MissingRequiredListsAll(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_SHEET_ID", "")

	_, err := config.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.Contains(t, err.Error(), "SERVICE_ACCOUNT_FILE")
	assert.Contains(t, err.Error(), "GOOGLE_SHEET_ID")
}

func TestLoad_BadTimezone(t *testing.T) {
	setRequired(t)
	t.Setenv("TIMEZONE", "Not/AZone")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "prod")
	t.Setenv("CALENDAR_ID", "workshop@example.com")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "prod", cfg.Mode)
	assert.Equal(t, "workshop@example.com", cfg.CalendarID)
	assert.Equal(t, "UTC", cfg.Timezone.String())
}
