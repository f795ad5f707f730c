package cgi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
)

// ErrMalformedOutput is returned when script output cannot be framed as a response.
var ErrMalformedOutput = errors.New("malformed CGI output")

// Output is a script response as seen by the hosting server.
type Output struct {
	Status int
	Reason string
	Header http.Header
	Body   []byte
}

// ContentType returns the script's Content-Type, defaulting to text/html.
func (o Output) ContentType() string {
	if ct := o.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return ContentTypeHTML
}

// ParseOutput splits raw script output into status, headers and body. The
// header block ends at the first CRLF CRLF, or LF LF when the script uses bare
// newlines. Output without a separator is treated as a bare body.
func ParseOutput(raw []byte) (Output, error) {
	out := Output{Status: http.StatusOK, Header: http.Header{}}

	head, body, ok := splitHeaderBlock(raw)
	if !ok {
		out.Body = raw
		out.Reason = http.StatusText(out.Status)
		return out, nil
	}
	out.Body = body

	for _, line := range strings.Split(string(head), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			return Output{}, fmt.Errorf("%w: header line %q", ErrMalformedOutput, line)
		}
		out.Header.Add(textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(key)), strings.TrimSpace(value))
	}

	if status := out.Header.Get("Status"); status != "" {
		code, reason, err := parseStatus(status)
		if err != nil {
			return Output{}, err
		}
		out.Status, out.Reason = code, reason
		out.Header.Del("Status")
	} else if out.Header.Get("Location") != "" {
		out.Status = http.StatusFound
	}
	if out.Reason == "" {
		out.Reason = http.StatusText(out.Status)
	}

	if cl := out.Header.Get("Content-Length"); cl != "" {
		n, err := strconv.Atoi(cl)
		if err != nil || n < 0 || n > len(out.Body) {
			return Output{}, fmt.Errorf("%w: Content-Length %q for %d body bytes", ErrMalformedOutput, cl, len(out.Body))
		}
		out.Body = out.Body[:n]
	}

	return out, nil
}

func splitHeaderBlock(raw []byte) (head, body []byte, ok bool) {
	if i := bytes.Index(raw, []byte("\r\n\r\n")); i >= 0 {
		return raw[:i], raw[i+4:], true
	}
	if i := bytes.Index(raw, []byte("\n\n")); i >= 0 {
		return raw[:i], raw[i+2:], true
	}
	return nil, nil, false
}

// parseStatus reads "404 Not Found" or a bare "404".
func parseStatus(v string) (int, string, error) {
	codeStr, reason, _ := strings.Cut(v, " ")
	code, err := strconv.Atoi(codeStr)
	if err != nil || code < 100 || code > 999 {
		return 0, "", fmt.Errorf("%w: status %q", ErrMalformedOutput, v)
	}
	return code, strings.TrimSpace(reason), nil
}
