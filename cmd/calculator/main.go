// Command calculator is the CGI script the calculator form targets. It adds
// the integer parameters a and b.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/couchcryptid/planet-weight-cgi/internal/cgi"
	"github.com/couchcryptid/planet-weight-cgi/internal/config"
	"github.com/couchcryptid/planet-weight-cgi/internal/observability"
	"github.com/couchcryptid/planet-weight-cgi/internal/responder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		_, _ = cgi.Failure("Internal error").WriteTo(os.Stdout)
		os.Exit(1)
	}

	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	calc := responder.NewCalculator(metrics, logger)
	if err := responder.Serve(context.Background(), calc, cgi.OSEnv(), os.Stdin, os.Stdout, cfg.MaxBodyBytes, logger); err != nil {
		logger.Error("write cgi response failed", "error", err)
	}

	if cfg.MetricsTextfile != "" {
		if err := observability.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("metrics not written", "error", err)
		}
	}
}
