package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"BATCH_WORKERS", "OUTPUT_DIR", "DEFAULT_CUSTOMER_STATE", "LOOKUP_TABLES_FILE", "OCR_ENABLED",
	"FALLBACK_PROVIDER", "FALLBACK_TIMEOUT", "FALLBACK_MAX_RETRIES",
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_TEMPERATURE",
	"GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION", "DOCUMENT_AI_PROCESSOR_ID",
	"GOOGLE_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS",
	"GOOGLE_SHEET_URL", "GOOGLE_SHEET_LEDGER_TAB", "GOOGLE_SHEET_SUMMARY_TAB",
	"LOG_LEVEL", "LOG_FORMAT", "LOG_TIME_FORMAT", "LOG_OUTPUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.BatchWorkers)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "GUJARAT", cfg.DefaultCustomerState)
	assert.Equal(t, FallbackNone, cfg.FallbackProvider)
	assert.Equal(t, 60*time.Second, cfg.FallbackTimeout)
	assert.Equal(t, 2, cfg.FallbackMaxRetries)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, "us", cfg.GoogleCloudLocation)
	assert.Equal(t, "Ledger", cfg.GoogleSheetLedgerTab)
	assert.False(t, cfg.OCREnabled)
	assert.Nil(t, cfg.GoogleClientOptions())

	lc := cfg.GetLoggerConfig()
	assert.Equal(t, "info", lc.Level)
	assert.Equal(t, "stderr", lc.Output)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BATCH_WORKERS", "3")
	t.Setenv("FALLBACK_PROVIDER", "OpenAI")
	t.Setenv("FALLBACK_TIMEOUT", "15s")
	t.Setenv("OCR_ENABLED", "true")
	t.Setenv("OPENAI_TEMPERATURE", "0.2")
	t.Setenv("GOOGLE_CREDENTIALS", `{"type":"service_account"}`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.BatchWorkers)
	assert.Equal(t, FallbackOpenAI, cfg.FallbackProvider)
	assert.Equal(t, 15*time.Second, cfg.FallbackTimeout)
	assert.True(t, cfg.OCREnabled)
	assert.InDelta(t, 0.2, cfg.OpenAITemperature, 1e-6)
	assert.Len(t, cfg.GoogleClientOptions(), 1)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"BATCH_WORKERS":        "zero",
		"FALLBACK_PROVIDER":    "gemini",
		"FALLBACK_TIMEOUT":     "soon",
		"OCR_ENABLED":          "maybe",
		"FALLBACK_MAX_RETRIES": "0",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestRequireFallback(t *testing.T) {
	cfg := &Config{}
	assert.ErrorIs(t, cfg.RequireFallback(), ErrInvalidConfig)

	cfg.FallbackProvider = FallbackOpenAI
	assert.ErrorContains(t, cfg.RequireFallback(), "OPENAI_API_KEY")
	cfg.OpenAIAPIKey = "sk-test"
	assert.NoError(t, cfg.RequireFallback())

	cfg.FallbackProvider = FallbackDocumentAI
	assert.ErrorContains(t, cfg.RequireFallback(), "GOOGLE_CLOUD_PROJECT")
	cfg.GoogleCloudProject = "proj"
	assert.ErrorContains(t, cfg.RequireFallback(), "DOCUMENT_AI_PROCESSOR_ID")
	cfg.DocumentAIProcessorID = "abc"
	assert.NoError(t, cfg.RequireFallback())
}

func TestRequireSheets(t *testing.T) {
	cfg := &Config{}
	assert.ErrorContains(t, cfg.RequireSheets(), "GOOGLE_SHEET_URL")

	cfg.GoogleSheetURL = "https://docs.google.com/spreadsheets/d/abc/edit"
	assert.ErrorContains(t, cfg.RequireSheets(), "GOOGLE_CREDENTIALS")

	cfg.GoogleCredentialsFile = "/tmp/sa.json"
	assert.NoError(t, cfg.RequireSheets())
}

func TestGoogleCredentials(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.GoogleCredentials()
	assert.ErrorIs(t, err, ErrInvalidConfig)

	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"file"}`), 0o600))
	cfg.GoogleCredentialsFile = path
	creds, err := cfg.GoogleCredentials()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"file"}`, string(creds))

	cfg.GoogleCredentialsJSON = `{"type":"inline"}`
	creds, err = cfg.GoogleCredentials()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"inline"}`, string(creds))
}
