package cgi

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxBytes = 1024

func TestReadParams_Query(t *testing.T) {
	env := MapEnv(map[string]string{
		"REQUEST_METHOD": "GET",
		"QUERY_STRING":   "weight=100&planet=Mars",
	})

	params, err := ReadParams(env, nil, testMaxBytes)
	require.NoError(t, err)

	assert.Equal(t, "100", params.Get("weight"))
	assert.Equal(t, "Mars", params.Get("planet"))
}

func TestReadParams_PostOverridesQuery(t *testing.T) {
	body := "planet=jupiter&weight=50"
	env := MapEnv(map[string]string{
		"REQUEST_METHOD": "POST",
		"QUERY_STRING":   "planet=mars&debug=1",
		"CONTENT_TYPE":   "application/x-www-form-urlencoded; charset=UTF-8",
		"CONTENT_LENGTH": "24",
	})

	params, err := ReadParams(env, strings.NewReader(body), testMaxBytes)
	require.NoError(t, err)

	want := url.Values{
		"planet": {"jupiter"},
		"weight": {"50"},
		"debug":  {"1"},
	}
	if diff := cmp.Diff(want, params); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestReadParams_ReadsOnlyContentLength(t *testing.T) {
	env := MapEnv(map[string]string{
		"REQUEST_METHOD": "POST",
		"CONTENT_LENGTH": "10",
	})

	params, err := ReadParams(env, strings.NewReader("weight=100&planet=mars"), testMaxBytes)
	require.NoError(t, err)

	assert.Equal(t, "100", params.Get("weight"))
	assert.Empty(t, params.Get("planet"))
}

func TestReadParams_NonFormBodyIgnored(t *testing.T) {
	env := MapEnv(map[string]string{
		"REQUEST_METHOD": "POST",
		"QUERY_STRING":   "planet=moon",
		"CONTENT_TYPE":   "application/json",
		"CONTENT_LENGTH": "13",
	})

	params, err := ReadParams(env, strings.NewReader(`{"weight":1}`), testMaxBytes)
	require.NoError(t, err)
	assert.Equal(t, url.Values{"planet": {"moon"}}, params)
}

func TestReadParams_Errors(t *testing.T) {
	tests := []struct {
		name   string
		length string
		want   error
	}{
		{"too large", "2048", ErrBodyTooLarge},
		{"not a number", "ten", ErrBadContentLength},
		{"negative", "-1", ErrBadContentLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := MapEnv(map[string]string{
				"REQUEST_METHOD": "POST",
				"CONTENT_LENGTH": tt.length,
			})
			_, err := ReadParams(env, strings.NewReader("weight=1"), testMaxBytes)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadParams_MalformedPairsSkipped(t *testing.T) {
	env := MapEnv(map[string]string{"QUERY_STRING": "weight=%zz&planet=mars&&flag"})

	params, err := ReadParams(env, nil, testMaxBytes)
	require.NoError(t, err)

	assert.Equal(t, url.Values{"planet": {"mars"}, "flag": {""}}, params)
}

func TestResponse_WriteTo_Success(t *testing.T) {
	var buf bytes.Buffer
	n, err := HTML("<h1>38.000</h1>").WriteTo(&buf)
	require.NoError(t, err)

	want := "Status: 200 OK\r\nContent-Type: text/html\r\nContent-Length: 15\r\n\r\n<h1>38.000</h1>"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, int64(len(want)), n)
}

func TestResponse_WriteTo_Failure(t *testing.T) {
	var buf bytes.Buffer
	_, err := Failure("Invalid planet").WriteTo(&buf)
	require.NoError(t, err)

	assert.Equal(t, "Status: 500 Internal Server Error\r\nContent-Type: text/plain\r\n\r\nError: Invalid planet", buf.String())
}

func TestResponse_ContentLengthCountsBytes(t *testing.T) {
	var buf bytes.Buffer
	_, err := HTML("héllo").WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Content-Length: 6\r\n")
}

func TestParseOutput_RoundTrip(t *testing.T) {
	for _, resp := range []Response{
		HTML("<p>ok</p>"),
		Text(http.StatusBadRequest, "Error: Invalid numbers"),
		Failure("Missing parameters"),
	} {
		var buf bytes.Buffer
		_, err := resp.WriteTo(&buf)
		require.NoError(t, err)

		out, err := ParseOutput(buf.Bytes())
		require.NoError(t, err)

		assert.Equal(t, resp.Status, out.Status)
		assert.Equal(t, http.StatusText(resp.Status), out.Reason)
		assert.Equal(t, resp.ContentType, out.ContentType())
		assert.Equal(t, resp.Body, out.Body)
		assert.Empty(t, out.Header.Get("Status"))
	}
}

func TestParseOutput_Variants(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantStatus int
		wantReason string
		wantCT     string
		wantBody   string
	}{
		{"bare newlines", "Status: 404 Not Found\nContent-Type: text/plain\n\nmissing", 404, "Not Found", "text/plain", "missing"},
		{"no status defaults to 200", "Content-Type: text/plain\r\n\r\nhi", 200, "OK", "text/plain", "hi"},
		{"location implies redirect", "Location: /index.html\r\n\r\n", 302, "Found", "text/html", ""},
		{"bare status code", "Status: 201\r\n\r\ncreated", 201, "Created", "text/html", "created"},
		{"no separator is all body", "just text", 200, "OK", "text/html", "just text"},
		{"content length truncates", "Content-Length: 2\r\n\r\nabcdef", 200, "OK", "text/html", "ab"},
		{"last header line kept", "Status: 200 OK\r\nContent-Type: image/png\r\n\r\n\x89PNG", 200, "OK", "image/png", "\x89PNG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ParseOutput([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, tt.wantReason, out.Reason)
			assert.Equal(t, tt.wantCT, out.ContentType())
			assert.Equal(t, tt.wantBody, string(out.Body))
		})
	}
}

func TestParseOutput_Malformed(t *testing.T) {
	for _, raw := range []string{
		"Status: abc\r\n\r\n",
		"Status: 42 Tiny\r\n\r\n",
		"Content-Length: 10\r\n\r\nshort",
		"Content-Length: -1\r\n\r\n",
		"not a header\r\n\r\nbody",
	} {
		_, err := ParseOutput([]byte(raw))
		require.ErrorIs(t, err, ErrMalformedOutput, raw)
	}
}

func TestBuildEnv(t *testing.T) {
	inv := Invocation{
		Method:      "post",
		Target:      "/cgi-bin/weight_convert.php",
		Query:       "planet=mars",
		Body:        []byte("weight=100"),
		ContentType: "application/x-www-form-urlencoded",
		Host:        "localhost:9000",
		Header:      http.Header{"User-Agent": {"formclient"}, "X-Trace-Id": {"abc"}},
	}

	env := map[string]string{}
	for _, kv := range BuildEnv("/srv/cgi-bin/weight-convert", inv) {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}

	assert.Equal(t, "POST", env["REQUEST_METHOD"])
	assert.Equal(t, "planet=mars", env["QUERY_STRING"])
	assert.Equal(t, "10", env["CONTENT_LENGTH"])
	assert.Equal(t, "application/x-www-form-urlencoded", env["CONTENT_TYPE"])
	assert.Equal(t, "/cgi-bin/weight_convert.php", env["SCRIPT_NAME"])
	assert.Equal(t, "/srv/cgi-bin/weight-convert", env["SCRIPT_FILENAME"])
	assert.Equal(t, "CGI/1.1", env["GATEWAY_INTERFACE"])
	assert.Equal(t, "HTTP/1.1", env["SERVER_PROTOCOL"])
	assert.Equal(t, "200", env["REDIRECT_STATUS"])
	assert.Equal(t, "localhost", env["SERVER_NAME"])
	assert.Equal(t, "9000", env["SERVER_PORT"])
	assert.Equal(t, "formclient", env["HTTP_USER_AGENT"])
	assert.Equal(t, "abc", env["HTTP_X_TRACE_ID"])
}

func TestBuildEnv_SkipsContentHeaders(t *testing.T) {
	inv := Invocation{
		Method:      "POST",
		Body:        []byte("a=1"),
		ContentType: "application/x-www-form-urlencoded",
		Header: http.Header{
			"Content-Type":   {"text/plain"},
			"Content-Length": {"999"},
			"Accept":         {"text/html"},
		},
	}

	env := strings.Join(BuildEnv("/x", inv), "\n")
	assert.NotContains(t, env, "HTTP_CONTENT_TYPE=")
	assert.NotContains(t, env, "HTTP_CONTENT_LENGTH=")
	assert.Contains(t, env, "CONTENT_TYPE=application/x-www-form-urlencoded")
	assert.Contains(t, env, "CONTENT_LENGTH=3")
	assert.Contains(t, env, "HTTP_ACCEPT=text/html")
}

func TestBuildEnv_DefaultPort(t *testing.T) {
	env := strings.Join(BuildEnv("/x", Invocation{Host: "example.org"}), "\n")
	assert.Contains(t, env, "SERVER_NAME=example.org")
	assert.Contains(t, env, "SERVER_PORT=8080")
	assert.Contains(t, env, "REQUEST_METHOD=GET")
	assert.NotContains(t, env, "CONTENT_TYPE=")
}
