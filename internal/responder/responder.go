// Package responder turns CGI request parameters into CGI responses. Each
// responder is a single-shot stage: read params, compute, frame the answer.
package responder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/planet-weight-cgi/internal/cgi"
	"github.com/couchcryptid/planet-weight-cgi/internal/domain"
	"github.com/couchcryptid/planet-weight-cgi/internal/observability"
)

// Responder answers one CGI request.
type Responder interface {
	Respond(ctx context.Context, params url.Values) cgi.Response
}

// EventPublisher receives successful conversions.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ConversionEvent) error
}

type methodKey struct{}

// WithMethod attaches the request method to ctx so responders can record it.
func WithMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, methodKey{}, strings.ToUpper(method))
}

func methodFrom(ctx context.Context) string {
	if m, ok := ctx.Value(methodKey{}).(string); ok && m != "" {
		return m
	}
	return "GET"
}

// Serve reads parameters from env and stdin, invokes r and writes the framed
// response to stdout. A failure to read parameters is answered with a 500.
func Serve(ctx context.Context, r Responder, env cgi.Env, stdin io.Reader, stdout io.Writer, maxBytes int64, logger *slog.Logger) error {
	ctx = WithMethod(ctx, env.Get("REQUEST_METHOD"))

	var resp cgi.Response
	params, err := cgi.ReadParams(env, stdin, maxBytes)
	if err != nil {
		logger.Warn("read cgi parameters failed", "error", err)
		resp = cgi.Failure(failureMessage(err))
	} else {
		resp = r.Respond(ctx, params)
	}

	if _, err := resp.WriteTo(stdout); err != nil {
		return err
	}
	logger.Info("cgi request answered", "status", resp.Status)
	return nil
}

// failureMessage maps an error to the text shown after "Error: ".
func failureMessage(err error) string {
	var f *domain.Failure
	switch {
	case errors.As(err, &f):
		return f.Message
	case errors.Is(err, cgi.ErrBodyTooLarge):
		return "Request body too large"
	default:
		return "Internal error"
	}
}

// failureReason is the metrics label for a failure message.
func failureReason(message string) string {
	return strings.ReplaceAll(strings.ToLower(message), " ", "_")
}

func recordRequest(m *observability.Metrics, responder string, status int) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(responder, strconv.Itoa(status)).Inc()
}
