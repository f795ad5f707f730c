// Package cgi implements both sides of the CGI/1.1 framing used between the
// hosting web server and its scripts. On the script side it reads request
// parameters from meta-variables and stdin and writes a raw response. On the
// host side it builds the script environment, runs the script and parses its
// output.
package cgi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrBodyTooLarge is returned when CONTENT_LENGTH exceeds the configured limit.
	ErrBodyTooLarge = errors.New("request body too large")
	// ErrBadContentLength is returned when CONTENT_LENGTH is not a non-negative integer.
	ErrBadContentLength = errors.New("invalid CONTENT_LENGTH")
)

const formContentType = "application/x-www-form-urlencoded"

// Env looks up a CGI meta-variable.
type Env func(key string) (string, bool)

// OSEnv reads meta-variables from the process environment.
func OSEnv() Env { return os.LookupEnv }

// MapEnv serves meta-variables from a map, for tests and embedding.
func MapEnv(m map[string]string) Env {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// Get returns the value of key, or "" when unset.
func (e Env) Get(key string) string {
	v, _ := e(key)
	return v
}

// ReadParams combines query-string and form-body parameters. Form values from
// a POST body override query values of the same name. Malformed pairs are
// skipped rather than failing the request.
func ReadParams(env Env, body io.Reader, maxBytes int64) (url.Values, error) {
	params := parseLenient(env.Get("QUERY_STRING"))

	if !strings.EqualFold(env.Get("REQUEST_METHOD"), "POST") || !isForm(env.Get("CONTENT_TYPE")) {
		return params, nil
	}

	form, err := readForm(env, body, maxBytes)
	if err != nil {
		return nil, err
	}
	for k, vs := range form {
		params[k] = vs
	}
	return params, nil
}

func readForm(env Env, body io.Reader, maxBytes int64) (url.Values, error) {
	raw := strings.TrimSpace(env.Get("CONTENT_LENGTH"))
	if raw == "" || body == nil {
		return url.Values{}, nil
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadContentLength, raw)
	}
	if maxBytes > 0 && n > maxBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrBodyTooLarge, n, maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(body, n))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return parseLenient(string(data)), nil
}

func isForm(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == formContentType
}

// parseLenient decodes a query string, dropping pairs that fail to unescape.
func parseLenient(qs string) url.Values {
	values := url.Values{}
	for qs != "" {
		var pair string
		pair, qs, _ = strings.Cut(qs, "&")
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		k, err1 := url.QueryUnescape(key)
		v, err2 := url.QueryUnescape(value)
		if err1 != nil || err2 != nil {
			continue
		}
		values.Add(k, v)
	}
	return values
}
