// Command weight-convert is the CGI script behind the planet weight form. It
// answers exactly one request read from the CGI environment and stdin.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	kafkaadapter "github.com/couchcryptid/planet-weight-cgi/internal/adapter/kafka"
	"github.com/couchcryptid/planet-weight-cgi/internal/catalog"
	"github.com/couchcryptid/planet-weight-cgi/internal/cgi"
	"github.com/couchcryptid/planet-weight-cgi/internal/config"
	"github.com/couchcryptid/planet-weight-cgi/internal/observability"
	"github.com/couchcryptid/planet-weight-cgi/internal/responder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		failAndExit()
	}

	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	planets := catalog.Default()
	if cfg.PlanetsFile != "" {
		planets, err = catalog.Load(cfg.PlanetsFile)
		if err != nil {
			logger.Error("failed to load planet catalogue", "error", err, "path", cfg.PlanetsFile)
			failAndExit()
		}
	}

	// Conversion events are feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher responder.EventPublisher
	var kafkaPub *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPub
		logger.Debug("conversion events enabled", "topic", cfg.KafkaTopic)
	}

	w := responder.NewWeight(planets, responder.FileTemplate{Path: templatePath(cfg)}, publisher, metrics, logger)
	if err := responder.Serve(context.Background(), w, cgi.OSEnv(), os.Stdin, os.Stdout, cfg.MaxBodyBytes, logger); err != nil {
		logger.Error("write cgi response failed", "error", err)
	}
	// The host sees EOF here; publishing below does not hold up the page.
	_ = os.Stdout.Close()

	if kafkaPub != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		w.Finish(ctx)
		cancel()
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if cfg.MetricsTextfile != "" {
		if err := observability.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("metrics not written", "error", err)
		}
	}
}

// templatePath resolves result.html next to the executable unless overridden.
func templatePath(cfg *config.Config) string {
	if cfg.TemplatePath != "" {
		return cfg.TemplatePath
	}
	exe, err := os.Executable()
	if err != nil {
		return "result.html"
	}
	return filepath.Join(filepath.Dir(exe), "result.html")
}

func failAndExit() {
	_, _ = cgi.Failure("Internal error").WriteTo(os.Stdout)
	os.Exit(1)
}
