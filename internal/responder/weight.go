package responder

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/couchcryptid/planet-weight-cgi/internal/cgi"
	"github.com/couchcryptid/planet-weight-cgi/internal/domain"
	"github.com/couchcryptid/planet-weight-cgi/internal/observability"
)

// Weight converts an Earth weight to the weight on a planet and fills the
// result page.
type Weight struct {
	catalog   domain.Catalog
	template  TemplateSource
	publisher EventPublisher
	metrics   *observability.Metrics
	logger    *slog.Logger

	mu      sync.Mutex
	pending []domain.ConversionEvent
}

// NewWeight creates a Weight responder. Pass a nil publisher to disable
// conversion events and nil metrics to skip recording.
func NewWeight(catalog domain.Catalog, template TemplateSource, publisher EventPublisher, metrics *observability.Metrics, logger *slog.Logger) *Weight {
	return &Weight{
		catalog:   catalog,
		template:  template,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

func (w *Weight) Respond(ctx context.Context, params url.Values) cgi.Response {
	start := time.Now()
	resp := w.respond(ctx, params)
	if w.metrics != nil {
		w.metrics.RequestDuration.Observe(time.Since(start).Seconds())
	}
	recordRequest(w.metrics, "weight", resp.Status)
	return resp
}

func (w *Weight) respond(ctx context.Context, params url.Values) cgi.Response {
	conv, err := domain.Convert(w.catalog, params.Get("weight"), params.Get("planet"))
	if err != nil {
		return w.fail(err, params)
	}

	tpl, err := w.template.Load()
	if err != nil {
		return w.fail(err, params)
	}

	if w.metrics != nil {
		w.metrics.Conversions.WithLabelValues(conv.Planet).Inc()
	}
	w.enqueue(ctx, conv)

	w.logger.Debug("weight converted",
		"planet", conv.Planet,
		"weight", conv.EarthWeight,
		"final_weight", conv.FinalWeight,
	)
	return cgi.HTML(domain.FillTemplate(tpl, conv))
}

func (w *Weight) fail(err error, params url.Values) cgi.Response {
	msg := failureMessage(err)
	w.logger.Warn("weight conversion failed",
		"error", err,
		"planet", params.Get("planet"),
		"weight", params.Get("weight"),
	)
	if w.metrics != nil {
		w.metrics.Failures.WithLabelValues(failureReason(msg)).Inc()
	}
	return cgi.Failure(msg)
}

// enqueue holds a conversion event until Finish so publishing never delays
// the response.
func (w *Weight) enqueue(ctx context.Context, conv domain.Conversion) {
	if w.publisher == nil {
		return
	}
	w.mu.Lock()
	w.pending = append(w.pending, domain.NewConversionEvent(conv, methodFrom(ctx)))
	w.mu.Unlock()
}

// Finish publishes the events queued by Respond. Call it after the response
// has been written. Errors are logged and counted only.
func (w *Weight) Finish(ctx context.Context) {
	w.mu.Lock()
	events := w.pending
	w.pending = nil
	w.mu.Unlock()

	for _, event := range events {
		if err := w.publisher.Publish(ctx, event); err != nil {
			w.logger.Error("publish conversion event failed", "error", err, "id", event.ID)
			if w.metrics != nil {
				w.metrics.PublishErrors.Inc()
			}
		}
	}
}
