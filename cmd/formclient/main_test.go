package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/planet-weight-cgi/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{ClientBaseURL: baseURL, ClientTimeout: 5 * time.Second}
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRun_Estimate(t *testing.T) {
	var buf bytes.Buffer
	err := run(context.Background(), testConfig("http://unused"), discard(), []string{"estimate", "-weight", "70", "-planet", "moon"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "<strong>Result:</strong> A 70kg object weighs <strong>11.20kg</strong> on The Moon.", buf.String())
}

func TestRun_EstimateInvalidWeight(t *testing.T) {
	var buf bytes.Buffer
	err := run(context.Background(), testConfig("http://unused"), discard(), []string{"estimate", "-weight", "abc", "-planet", "mars"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "<span style='color:red'>Please enter a valid weight.</span>", buf.String())
}

func TestRun_CalcSanitizedToFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<p>5</p><script>alert(1)</script>`)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "result.html")
	err := run(context.Background(), testConfig(srv.URL), discard(), []string{"calc", "-a", "2", "-b", "3", "-sanitize", "-out", path}, io.Discard)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>5</p>", string(data))
}

func TestRun_DeleteNeedsTarget(t *testing.T) {
	err := run(context.Background(), testConfig("http://unused"), discard(), []string{"delete"}, io.Discard)
	assert.ErrorIs(t, err, errUsage)
}

func TestRun_UnknownSubcommand(t *testing.T) {
	err := run(context.Background(), testConfig("http://unused"), discard(), []string{"upload"}, io.Discard)
	assert.ErrorIs(t, err, errUsage)

	err = run(context.Background(), testConfig("http://unused"), discard(), nil, io.Discard)
	assert.ErrorIs(t, err, errUsage)
}
