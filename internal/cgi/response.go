package cgi

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
)

const (
	ContentTypeHTML = "text/html"
	ContentTypeText = "text/plain"
)

// Response is a script response in raw CGI framing.
type Response struct {
	Status        int
	ContentType   string
	Body          []byte
	ContentLength bool // emit an explicit Content-Length header
}

// HTML is a 200 response carrying a full page.
func HTML(body string) Response {
	return Response{
		Status:        http.StatusOK,
		ContentType:   ContentTypeHTML,
		Body:          []byte(body),
		ContentLength: true,
	}
}

// Text is a plain-text response with an explicit length.
func Text(status int, body string) Response {
	return Response{
		Status:        status,
		ContentType:   ContentTypeText,
		Body:          []byte(body),
		ContentLength: true,
	}
}

// Failure is the 500 response every responder error collapses to. It carries
// no Content-Length; the host reads until the script exits.
func Failure(message string) Response {
	return Response{
		Status:      http.StatusInternalServerError,
		ContentType: ContentTypeText,
		Body:        []byte("Error: " + message),
	}
}

// StatusLine returns the value of the Status header, e.g. "200 OK".
func (r Response) StatusLine() string {
	return fmt.Sprintf("%d %s", r.Status, http.StatusText(r.Status))
}

// WriteTo writes the status line, headers, blank line and body.
func (r Response) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}

	fmt.Fprintf(cw, "Status: %s\r\n", r.StatusLine())
	fmt.Fprintf(cw, "Content-Type: %s\r\n", r.ContentType)
	if r.ContentLength {
		fmt.Fprintf(cw, "Content-Length: %d\r\n", len(r.Body))
	}
	io.WriteString(cw, "\r\n") //nolint:errcheck // surfaced by cw.err
	cw.Write(r.Body)           //nolint:errcheck // surfaced by cw.err

	if cw.err != nil {
		return cw.n, cw.err
	}
	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("flush cgi response: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
