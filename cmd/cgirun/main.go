// Command cgirun executes a CGI script once, the way the hosting web server
// would, and prints the parsed response as an HTTP/1.1 message.
//
// Usage:
//
//	cgirun -target /cgi-bin/weight_convert.php -query 'weight=70&planet=mars' ./weight-convert
//	cgirun -method POST -body 'a=2&b=3' -H 'Accept: text/plain' ./calculator
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/textproto"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/planet-weight-cgi/internal/cgi"
	"github.com/couchcryptid/planet-weight-cgi/internal/config"
	"github.com/couchcryptid/planet-weight-cgi/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), cfg, logger, os.Args[1:], os.Stdout); err != nil {
		logger.Error("cgirun failed", "error", err)
		os.Exit(1)
	}
}

// headerFlags collects repeated -H "Name: value" flags.
type headerFlags http.Header

func (h headerFlags) String() string { return "" }

func (h headerFlags) Set(v string) error {
	name, value, ok := strings.Cut(v, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("header %q must be Name: value", v)
	}
	http.Header(h).Add(textproto.TrimString(name), textproto.TrimString(value))
	return nil
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("cgirun", flag.ContinueOnError)
	method := fs.String("method", http.MethodGet, "request method")
	target := fs.String("target", "", "request path (default /cgi-bin/<script name>)")
	query := fs.String("query", "", "raw query string")
	body := fs.String("body", "", "request body")
	contentType := fs.String("content-type", "", "request content type (default form-urlencoded when a body is given)")
	host := fs.String("host", "localhost:8080", "Host header")
	header := headerFlags{}
	fs.Var(header, "H", "extra request header, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: cgirun [flags] <script>")
	}
	script := fs.Arg(0)

	inv := cgi.Invocation{
		Method:      *method,
		Target:      *target,
		Query:       *query,
		Body:        []byte(*body),
		ContentType: *contentType,
		Host:        *host,
		Header:      http.Header(header),
	}
	if inv.Target == "" {
		inv.Target = "/cgi-bin/" + baseName(script)
	}
	if inv.ContentType == "" && len(inv.Body) > 0 {
		inv.ContentType = "application/x-www-form-urlencoded"
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.CGITimeout)
	defer cancel()

	out, err := cgi.Run(ctx, script, inv)
	switch {
	case errors.Is(err, cgi.ErrTimeout):
		logger.Warn("cgi script timed out", "script", script, "timeout", cfg.CGITimeout)
		return writeStatus(stdout, http.StatusGatewayTimeout)
	case errors.Is(err, cgi.ErrScriptFailed), errors.Is(err, cgi.ErrMalformedOutput):
		logger.Warn("cgi script failed", "script", script, "error", err)
		return writeStatus(stdout, http.StatusBadGateway)
	case err != nil:
		return err
	}

	logger.Debug("cgi script answered", "script", script, "status", out.Status)
	return writeOutput(stdout, out)
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

func writeStatus(w io.Writer, status int) error {
	_, err := fmt.Fprintf(w, "HTTP/1.1 %d %s\r\n\r\n", status, http.StatusText(status))
	return err
}

func writeOutput(w io.Writer, out cgi.Output) error {
	fmt.Fprintf(w, "HTTP/1.1 %d %s\r\n", out.Status, out.Reason)

	out.Header.Set("Content-Type", out.ContentType())
	keys := make([]string, 0, len(out.Header))
	for k := range out.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range out.Header[k] {
			fmt.Fprintf(w, "%s: %s\r\n", k, v)
		}
	}
	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return err
	}
	_, err := w.Write(out.Body)
	return err
}
