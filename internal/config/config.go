package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// DefaultSheetRange is used when SHEET_RANGE is unset or empty.
const DefaultSheetRange = "Sheet1!A:H"

// DefaultSheetsBaseURL is the public Google Sheets API endpoint.
const DefaultSheetsBaseURL = "https://sheets.googleapis.com/"

// ErrMissingSheetSettings is returned when the sheet id or API key is missing.
var ErrMissingSheetSettings = errors.New("missing sheet id or api key")

// Config represents the complete application configuration
type Config struct {
	Sheets        SheetsConfig        `yaml:"sheets" envconfig:"SHEETS"`
	Server        ServerConfig        `yaml:"server" envconfig:"SERVER"`
	Cache         CacheConfig         `yaml:"cache" envconfig:"CACHE"`
	Security      SecurityConfig      `yaml:"security" envconfig:"SECURITY"`
	Logging       LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Observability ObservabilityConfig `yaml:"observability" envconfig:"OBSERVABILITY"`
}

// SheetsConfig identifies the upstream spreadsheet. SheetID and APIKey are
// checked per request, not at load time.
type SheetsConfig struct {
	SheetID string        `yaml:"sheet_id" envconfig:"SHEET_ID" validate:"required"`
	APIKey  string        `yaml:"api_key" envconfig:"API_KEY" validate:"required"`
	Range   string        `yaml:"range" envconfig:"SHEET_RANGE"`
	BaseURL string        `yaml:"base_url" envconfig:"BASE_URL" validate:"omitempty,url"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gte=0"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// CacheConfig controls the Cache-Control header of successful responses
type CacheConfig struct {
	SMaxAge              int  `yaml:"s_maxage" envconfig:"S_MAXAGE" validate:"gte=0"`
	StaleWhileRevalidate bool `yaml:"stale_while_revalidate" envconfig:"STALE_WHILE_REVALIDATE"`
}

// SecurityConfig contains CORS and rate limiting configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" validate:"min=1"`
	AllowedMethods []string        `yaml:"allowed_methods" envconfig:"ALLOWED_METHODS" validate:"min=1"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration. It applies to the
// local server only and is off by default.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// ObservabilityConfig selects the OpenTelemetry exporters
type ObservabilityConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

var validate = validator.New()

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	// Load from config file if exists
	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment overrides only the keys that are set
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) normalize() {
	c.Sheets.SheetID = strings.TrimSpace(c.Sheets.SheetID)
	c.Sheets.APIKey = strings.TrimSpace(c.Sheets.APIKey)
	if strings.TrimSpace(c.Sheets.Range) == "" {
		c.Sheets.Range = DefaultSheetRange
	}
	if c.Sheets.BaseURL == "" {
		c.Sheets.BaseURL = DefaultSheetsBaseURL
	}
	if !strings.HasSuffix(c.Sheets.BaseURL, "/") {
		c.Sheets.BaseURL += "/"
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}
}

// validate validates everything except the per-request sheet settings
func (c *Config) validate() error {
	if err := validate.StructExcept(c, "Sheets.SheetID", "Sheets.APIKey"); err != nil {
		return err
	}
	return nil
}

// Validate reports ErrMissingSheetSettings when the sheet id or API key is
// empty.
func (s SheetsConfig) Validate() error {
	if err := validate.StructPartial(s, "SheetID", "APIKey"); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return fmt.Errorf("%w: %s", ErrMissingSheetSettings, strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

// Configured reports whether the sheet settings are complete.
func (s SheetsConfig) Configured() bool {
	return s.Validate() == nil
}

// HeaderValue renders the Cache-Control value for successful responses.
func (c CacheConfig) HeaderValue() string {
	v := fmt.Sprintf("s-maxage=%d", c.SMaxAge)
	if c.StaleWhileRevalidate {
		v += ", stale-while-revalidate"
	}
	return v
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv("CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Sheets: SheetsConfig{
			Range:   DefaultSheetRange,
			BaseURL: DefaultSheetsBaseURL,
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			SMaxAge:              900,
			StaleWhileRevalidate: true,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET"},
			RateLimit: RateLimitConfig{
				Enabled: false,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "console",
		},
		Observability: ObservabilityConfig{
			ServiceName:    "sheetmetrics",
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
