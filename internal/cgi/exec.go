package cgi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrTimeout is returned when the script outlives the context deadline.
	ErrTimeout = errors.New("cgi script timed out")
	// ErrScriptFailed is returned when the script exits non-zero without output.
	ErrScriptFailed = errors.New("cgi script failed")
)

const (
	defaultServerPort = "8080"
	serverSoftware    = "planet-weight-cgi/1.0"
	waitDelay         = time.Second
)

// Invocation is one request as handed to a script by the hosting server.
type Invocation struct {
	Method      string
	Target      string // request path, e.g. /cgi-bin/weight_convert.php
	Query       string
	Body        []byte
	ContentType string
	Host        string
	Protocol    string
	Header      http.Header
}

// BuildEnv returns the RFC 3875 meta-variables for an invocation, sorted by
// name. PATH is inherited so interpreter scripts can resolve their shebang.
func BuildEnv(script string, inv Invocation) []string {
	env := map[string]string{
		"REQUEST_METHOD":    strings.ToUpper(orDefault(inv.Method, http.MethodGet)),
		"QUERY_STRING":      inv.Query,
		"CONTENT_LENGTH":    strconv.Itoa(len(inv.Body)),
		"PATH_INFO":         inv.Target,
		"SCRIPT_NAME":       inv.Target,
		"SCRIPT_FILENAME":   script,
		"GATEWAY_INTERFACE": "CGI/1.1",
		"SERVER_PROTOCOL":   orDefault(inv.Protocol, "HTTP/1.1"),
		"SERVER_SOFTWARE":   serverSoftware,
		"REDIRECT_STATUS":   "200",
	}
	if inv.ContentType != "" {
		env["CONTENT_TYPE"] = inv.ContentType
	}

	host, port, err := net.SplitHostPort(inv.Host)
	if err != nil {
		host, port = inv.Host, defaultServerPort
	}
	env["SERVER_NAME"] = host
	env["SERVER_PORT"] = port

	for key, values := range inv.Header {
		if len(values) == 0 || excludedHeader(key) {
			continue
		}
		name := "HTTP_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		env[name] = values[0]
	}
	if path, ok := os.LookupEnv("PATH"); ok {
		env["PATH"] = path
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Run executes a CGI script once and parses what it writes to stdout. The
// script runs in its own directory so relative template paths resolve.
func Run(ctx context.Context, script string, inv Invocation) (Output, error) {
	abs, err := filepath.Abs(script)
	if err != nil {
		return Output{}, fmt.Errorf("resolve script path: %w", err)
	}

	cmd := exec.CommandContext(ctx, abs)
	cmd.Dir = filepath.Dir(abs)
	cmd.Env = BuildEnv(abs, inv)
	cmd.Stdin = bytes.NewReader(inv.Body)
	// Grandchildren may hold stdout open after the script is killed.
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return Output{}, fmt.Errorf("%w: %s", ErrTimeout, script)
	}
	if runErr != nil && stdout.Len() == 0 {
		return Output{}, fmt.Errorf("%w: %s: %v: %s", ErrScriptFailed, script, runErr, strings.TrimSpace(stderr.String()))
	}

	return ParseOutput(stdout.Bytes())
}

// excludedHeader reports headers already carried as CONTENT_* variables.
func excludedHeader(key string) bool {
	return strings.EqualFold(key, "Content-Type") || strings.EqualFold(key, "Content-Length")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
