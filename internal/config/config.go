package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all settings, populated from environment variables. CGI
// binaries, the form client and the local harness share one set of keys.
type Config struct {
	LogLevel  string
	LogFormat string

	// Responder settings.
	TemplatePath    string // empty means result.html next to the executable
	PlanetsFile     string
	MaxBodyBytes    int64
	MetricsTextfile string

	// Conversion event publishing (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	KafkaEnabled    bool
	KafkaBrokers    []string
	KafkaTopic      string
	ShutdownTimeout time.Duration

	// Form client settings.
	ClientBaseURL string
	ClientTimeout time.Duration

	// Local CGI harness settings.
	CGITimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	clientTimeout, err := parsePositiveDuration("FORMCLIENT_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cgiTimeout, err := parsePositiveDuration("CGI_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	maxBody, err := parseMaxBodyBytes()
	if err != nil {
		return nil, err
	}

	brokersRaw := os.Getenv("KAFKA_BROKERS")
	kafkaEnabled := brokersRaw != ""
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		LogLevel:  sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),

		TemplatePath:    os.Getenv("TEMPLATE_PATH"),
		PlanetsFile:     os.Getenv("PLANETS_FILE"),
		MaxBodyBytes:    maxBody,
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),

		KafkaEnabled:    kafkaEnabled,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "weight-conversions"),
		ShutdownTimeout: shutdownTimeout,

		ClientBaseURL: sharedcfg.EnvOrDefault("FORMCLIENT_BASE_URL", "http://localhost:8080"),
		ClientTimeout: clientTimeout,

		CGITimeout: cgiTimeout,
	}
	if brokersRaw != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokersRaw)
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when publishing is enabled")
	}
	if u, err := url.Parse(cfg.ClientBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid FORMCLIENT_BASE_URL %q", cfg.ClientBaseURL)
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	raw := sharedcfg.EnvOrDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseMaxBodyBytes() (int64, error) {
	s := os.Getenv("MAX_BODY_BYTES")
	if s == "" {
		return 1_000_000, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid MAX_BODY_BYTES")
	}
	return n, nil
}
