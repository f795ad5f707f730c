// Package formclient submits the site's forms to the web server the way the
// browser handlers do, and returns the markup destined for the page.
package formclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/planet-weight-cgi/internal/render"
)

const (
	calculatorPath = "/cgi-bin/calculator.py"
	weightPath     = "/cgi-bin/weight_convert.php"
)

// Client talks to the web server hosting the CGI scripts and static files.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a form client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SubmitCalculator sends a and b to the calculator script and returns the
// response body, whatever the status.
func (c *Client) SubmitCalculator(ctx context.Context, a, b string) (string, error) {
	params := url.Values{"a": {a}, "b": {b}}
	return c.getText(ctx, c.baseURL+calculatorPath+"?"+params.Encode(), "calculator")
}

// SubmitWeight sends a weight conversion request and returns the response
// body, whatever the status.
func (c *Client) SubmitWeight(ctx context.Context, weight, planet string) (string, error) {
	params := url.Values{"weight": {weight}, "planet": {planet}}
	return c.getText(ctx, c.baseURL+weightPath+"?"+params.Encode(), "weight")
}

// DeleteOutcome is what the delete form shows after a request.
type DeleteOutcome struct {
	Status  int
	Deleted bool
	HTML    string
}

// Delete issues a DELETE for target, a path or URL resolved against the base
// URL. A 204 yields the locally rendered success page; any other status
// yields the server's body verbatim.
func (c *Client) Delete(ctx context.Context, target string, variant render.Variant) (DeleteOutcome, error) {
	u, err := c.resolve(target)
	if err != nil {
		return DeleteOutcome{}, fmt.Errorf("delete: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return DeleteOutcome{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return DeleteOutcome{}, fmt.Errorf("delete request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("delete answered", "target", u, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusNoContent {
		page, err := render.DeletedPage(variant)
		if err != nil {
			return DeleteOutcome{}, err
		}
		return DeleteOutcome{Status: resp.StatusCode, Deleted: true, HTML: page}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return DeleteOutcome{}, fmt.Errorf("read delete response: %w", err)
	}
	return DeleteOutcome{Status: resp.StatusCode, HTML: string(body)}, nil
}

func (c *Client) resolve(target string) (string, error) {
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse target %q: %w", target, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (c *Client) getText(ctx context.Context, fullURL, op string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", op, err)
	}

	c.logger.Debug("form submitted", "form", op, "status", resp.StatusCode)
	return string(body), nil
}
