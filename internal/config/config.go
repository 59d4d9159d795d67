package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/recoveryfit/corpreport/internal/report"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvDBConnection = "DB_CONNECTION"
	EnvJWTSecret    = "JWT_SECRET"
	EnvJWTExpiry    = "JWT_EXPIRY"
	EnvIngestToken  = "INGEST_TOKEN"
)

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// ErrMissingDatabaseDSN indicates no database DSN is present in the config file.
var ErrMissingDatabaseDSN = errors.New("missing database dsn (set `database-dsn` or `database.dsn` in config file)")

// JWTConfig holds JWT secret and expiry settings.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// LoadDatabaseDSN reads the database DSN from the YAML config file. The
// DB_CONNECTION environment variable takes precedence.
func LoadDatabaseDSN(configPath string) (string, error) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		return dsn, nil
	}

	// fileConfig maps the YAML fields needed for DSN resolution.
	type fileConfig struct {
		DatabaseDSN string `yaml:"database-dsn"`
		Database    struct {
			DSN string `yaml:"dsn"`
		} `yaml:"database"`
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("read config file: %w", err)
	}

	var cfg fileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return "", fmt.Errorf("parse config file: %w", errUnmarshal)
	}

	if dsn := strings.TrimSpace(cfg.DatabaseDSN); dsn != "" {
		return dsn, nil
	}
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		return dsn, nil
	}
	return "", ErrMissingDatabaseDSN
}

// defaultJWTExpiry is used when the config omits or invalidates JWT expiry.
const defaultJWTExpiry = 30 * 24 * time.Hour

// LoadJWTConfig loads JWT settings from the YAML config file, with
// env-var overrides.
func LoadJWTConfig(configPath string) (JWTConfig, error) {
	// fileConfig maps the YAML fields needed for JWT settings.
	type fileConfig struct {
		JWT JWTConfig `yaml:"jwt"`
	}

	result := JWTConfig{Expiry: defaultJWTExpiry}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			result = cfg.JWT
		}
	}

	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		result.Secret = secret
	}
	if expiryRaw := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); expiryRaw != "" {
		if expiry, errParse := time.ParseDuration(expiryRaw); errParse == nil && expiry > 0 {
			result.Expiry = expiry
		}
	}

	if result.Expiry <= 0 {
		result.Expiry = defaultJWTExpiry
	}
	return result, nil
}

// LoadIngestToken reads the login-event ingest token. Empty disables the
// ingest endpoint.
func LoadIngestToken(configPath string) string {
	if token := strings.TrimSpace(os.Getenv(EnvIngestToken)); token != "" {
		return token
	}

	type fileConfig struct {
		IngestToken string `yaml:"ingest-token"`
	}

	data, errRead := os.ReadFile(configPath)
	if errRead != nil {
		return ""
	}
	var cfg fileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return ""
	}
	return strings.TrimSpace(cfg.IngestToken)
}

// Default corporate report settings, matching the membership site's
// historical values.
var (
	defaultActiveStatuses      = []string{"enabled", "active"}
	defaultCorporateProductIDs = []uint64{3888, 3889}
)

// ReportConfig holds the corporate reporting settings: the corporate
// account status allow-list, the corporate membership products, and the
// ordered parent-to-invoice mapping table. The mapping is loaded once
// per process and treated as read-only; entry order is preserved because
// it decides normalized-key ties.
type ReportConfig struct {
	ActiveStatuses      []string                `yaml:"active-statuses"`
	CorporateProductIDs []uint64                `yaml:"corporate-product-ids"`
	InvoiceMap          []report.InvoiceMapping `yaml:"invoice-map"`
}

// LoadReportConfig loads report settings from the YAML config file,
// falling back to defaults for omitted fields. A missing file yields the
// defaults with an empty invoice map.
func LoadReportConfig(configPath string) (ReportConfig, error) {
	type fileConfig struct {
		Report ReportConfig `yaml:"report"`
	}

	result := ReportConfig{
		ActiveStatuses:      defaultActiveStatuses,
		CorporateProductIDs: defaultCorporateProductIDs,
	}

	data, errRead := os.ReadFile(configPath)
	if errRead != nil {
		if os.IsNotExist(errRead) {
			return result, nil
		}
		return result, fmt.Errorf("read config file: %w", errRead)
	}

	var cfg fileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return result, fmt.Errorf("parse config file: %w", errUnmarshal)
	}

	if len(cfg.Report.ActiveStatuses) > 0 {
		result.ActiveStatuses = cfg.Report.ActiveStatuses
	}
	if len(cfg.Report.CorporateProductIDs) > 0 {
		result.CorporateProductIDs = cfg.Report.CorporateProductIDs
	}
	result.InvoiceMap = cfg.Report.InvoiceMap
	return result, nil
}

// LoadServerPort reads the listen port from the YAML config file,
// falling back to the given default for missing or invalid values.
func LoadServerPort(configPath string, fallback int) int {
	type fileConfig struct {
		Port int `yaml:"port"`
	}

	data, errRead := os.ReadFile(configPath)
	if errRead != nil {
		return fallback
	}
	var cfg fileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return fallback
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fallback
	}
	return cfg.Port
}
