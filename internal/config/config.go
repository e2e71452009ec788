package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"

	"airledger/internal/logger"
)

// Fallback providers
const (
	FallbackNone       = ""
	FallbackOpenAI     = "openai"
	FallbackDocumentAI = "documentai"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Batch processing
	BatchWorkers         int
	OutputDir            string
	DefaultCustomerState string
	LookupTablesFile     string
	OCREnabled           bool

	// Fallback extraction
	FallbackProvider   string
	FallbackTimeout    time.Duration
	FallbackMaxRetries int

	// OpenAI Configuration
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAITemperature float32

	// Google Cloud Configuration
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string
	GoogleCredentialsJSON string
	GoogleCredentialsFile string

	// Google Sheets Configuration
	GoogleSheetURL        string
	GoogleSheetLedgerTab  string
	GoogleSheetSummaryTab string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from the environment. Only values that are
// always needed are validated here; feature checks live in the Require methods.
func Load() (*Config, error) {
	config := &Config{
		OutputDir:             getEnv("OUTPUT_DIR", "./output"),
		DefaultCustomerState:  getEnv("DEFAULT_CUSTOMER_STATE", "GUJARAT"),
		LookupTablesFile:      getEnv("LOOKUP_TABLES_FILE", ""),
		FallbackProvider:      strings.ToLower(getEnv("FALLBACK_PROVIDER", FallbackNone)),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GoogleSheetURL:        getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetLedgerTab:  getEnv("GOOGLE_SHEET_LEDGER_TAB", "Ledger"),
		GoogleSheetSummaryTab: getEnv("GOOGLE_SHEET_SUMMARY_TAB", "Summary"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:             getEnv("LOG_OUTPUT", "stderr"),
	}

	var err error
	if config.BatchWorkers, err = getEnvInt("BATCH_WORKERS", 8); err != nil {
		return nil, err
	}
	if config.FallbackMaxRetries, err = getEnvInt("FALLBACK_MAX_RETRIES", 2); err != nil {
		return nil, err
	}
	if config.OCREnabled, err = getEnvBool("OCR_ENABLED", false); err != nil {
		return nil, err
	}
	if config.FallbackTimeout, err = getEnvDuration("FALLBACK_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	temperature, err := getEnvFloat("OPENAI_TEMPERATURE", 0)
	if err != nil {
		return nil, err
	}
	config.OpenAITemperature = float32(temperature)

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.BatchWorkers < 1 {
		return fmt.Errorf("%w: BATCH_WORKERS must be at least 1", ErrInvalidConfig)
	}
	if c.FallbackMaxRetries < 1 {
		return fmt.Errorf("%w: FALLBACK_MAX_RETRIES must be at least 1", ErrInvalidConfig)
	}
	switch c.FallbackProvider {
	case FallbackNone, FallbackOpenAI, FallbackDocumentAI:
	default:
		return fmt.Errorf("%w: unknown FALLBACK_PROVIDER %q", ErrInvalidConfig, c.FallbackProvider)
	}
	return nil
}

// RequireFallback checks the settings of the configured fallback provider.
func (c *Config) RequireFallback() error {
	switch c.FallbackProvider {
	case FallbackOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is required for the openai fallback", ErrInvalidConfig)
		}
	case FallbackDocumentAI:
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("%w: GOOGLE_CLOUD_PROJECT is required for the documentai fallback", ErrInvalidConfig)
		}
		if c.DocumentAIProcessorID == "" {
			return fmt.Errorf("%w: DOCUMENT_AI_PROCESSOR_ID is required for the documentai fallback", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: FALLBACK_PROVIDER is not set", ErrInvalidConfig)
	}
	return nil
}

// RequireSheets checks the Google Sheets upload settings.
func (c *Config) RequireSheets() error {
	if c.GoogleSheetURL == "" {
		return fmt.Errorf("%w: GOOGLE_SHEET_URL is required", ErrInvalidConfig)
	}
	if c.GoogleCredentialsJSON == "" && c.GoogleCredentialsFile == "" {
		return fmt.Errorf("%w: GOOGLE_CREDENTIALS or GOOGLE_APPLICATION_CREDENTIALS is required for Sheets", ErrInvalidConfig)
	}
	return nil
}

// GoogleClientOptions returns the credential options for Google API clients.
// Inline credentials win over a credentials file; with neither, the clients
// use application default credentials.
func (c *Config) GoogleClientOptions() []option.ClientOption {
	switch {
	case c.GoogleCredentialsJSON != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(c.GoogleCredentialsJSON))}
	case c.GoogleCredentialsFile != "":
		return []option.ClientOption{option.WithCredentialsFile(c.GoogleCredentialsFile)}
	default:
		return nil
	}
}

// GoogleCredentials returns the service account JSON, inline or read from
// the credentials file.
func (c *Config) GoogleCredentials() ([]byte, error) {
	if c.GoogleCredentialsJSON != "" {
		return []byte(c.GoogleCredentialsJSON), nil
	}
	if c.GoogleCredentialsFile == "" {
		return nil, fmt.Errorf("%w: neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set", ErrInvalidConfig)
	}
	data, err := os.ReadFile(c.GoogleCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return data, nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return d, nil
}
