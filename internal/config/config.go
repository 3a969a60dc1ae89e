// Package config resolves runtime settings from the process environment and
// optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL         = "http://localhost:8000"
	DefaultSchemaName     = "CustomerData"
	DefaultHealthRetries  = 0
	DefaultRequestTimeout = 30 * time.Second
)

// Config holds every setting the command reads.
type Config struct {
	APIURL         string
	FieldsSource   string
	SchemaName     string
	ThemeVariant   string
	TemplateDir    string
	LatencyHeader  string
	HealthRetries  uint64
	RequestTimeout time.Duration
	LogLevel       string
	Environment    string
}

// Load reads files (".env" when none are given) and then the environment.
// Process variables win over file entries. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	fromFiles := map[string]string{}
	for _, name := range files {
		values, err := godotenv.Read(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("config: read %s: %w", name, err)
		}
		for k, v := range values {
			if _, seen := fromFiles[k]; !seen {
				fromFiles[k] = v
			}
		}
	}

	get := func(key, fallback string) string {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		if v := strings.TrimSpace(fromFiles[key]); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		APIURL:        strings.TrimRight(get("CHURN_API_URL", DefaultAPIURL), "/"),
		FieldsSource:  get("CHURN_FIELDS", ""),
		SchemaName:    get("CHURN_SCHEMA_NAME", DefaultSchemaName),
		ThemeVariant:  get("CHURN_THEME_VARIANT", ""),
		TemplateDir:   get("CHURN_TEMPLATE_DIR", ""),
		LatencyHeader: get("CHURN_LATENCY_HEADER", ""),
		LogLevel:      get("LOG_LEVEL", "info"),
		Environment:   get("ENVIRONMENT", "local"),
	}

	retries, err := strconv.ParseUint(get("CHURN_HEALTH_RETRIES", strconv.Itoa(DefaultHealthRetries)), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("config: CHURN_HEALTH_RETRIES: %w", err)
	}
	cfg.HealthRetries = retries

	timeout, err := time.ParseDuration(get("CHURN_REQUEST_TIMEOUT", DefaultRequestTimeout.String()))
	if err != nil {
		return Config{}, fmt.Errorf("config: CHURN_REQUEST_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, errors.New("config: CHURN_REQUEST_TIMEOUT must be positive")
	}
	cfg.RequestTimeout = timeout

	return cfg, nil
}
