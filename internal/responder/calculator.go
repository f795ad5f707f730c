package responder

import (
	"context"
	"log/slog"
	"math/big"
	"net/http"
	"net/url"
	"strings"

	"github.com/couchcryptid/planet-weight-cgi/internal/cgi"
	"github.com/couchcryptid/planet-weight-cgi/internal/observability"
)

const invalidNumbers = "Error: Invalid numbers"

// Calculator adds the integers a and b.
type Calculator struct {
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewCalculator(metrics *observability.Metrics, logger *slog.Logger) *Calculator {
	return &Calculator{metrics: metrics, logger: logger}
}

func (c *Calculator) Respond(_ context.Context, params url.Values) cgi.Response {
	resp := c.respond(params)
	recordRequest(c.metrics, "calculator", resp.Status)
	return resp
}

func (c *Calculator) respond(params url.Values) cgi.Response {
	a, okA := operand(params, "a")
	b, okB := operand(params, "b")
	if !okA || !okB {
		c.logger.Warn("calculator operands invalid", "a", params.Get("a"), "b", params.Get("b"))
		if c.metrics != nil {
			c.metrics.Failures.WithLabelValues("invalid_numbers").Inc()
		}
		return cgi.Text(http.StatusBadRequest, invalidNumbers)
	}
	return cgi.Text(http.StatusOK, new(big.Int).Add(a, b).String())
}

// operand parses an integer parameter of any size. An absent or blank
// parameter is 0.
func operand(params url.Values, key string) (*big.Int, bool) {
	vs := params[key]
	if len(vs) == 0 || strings.TrimSpace(vs[0]) == "" {
		return new(big.Int), true
	}
	return new(big.Int).SetString(strings.TrimSpace(vs[0]), 10)
}
