package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("converted", "planet", "mars")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "converted", line["msg"])
	assert.Equal(t, "mars", line["planet"])
}

func TestNewLogger_TextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug", "text")

	logger.Debug("visible", "status", 200)

	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "status=200")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "WARN", parseLevel("warning").String())
	assert.Equal(t, "ERROR", parseLevel("ERROR").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
}

func TestWriteTextfileFrom(t *testing.T) {
	m := NewMetricsForTesting()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.Requests, m.Conversions)

	m.Requests.WithLabelValues("weight", "200").Inc()
	m.Conversions.WithLabelValues("mars").Add(2)

	path := filepath.Join(t.TempDir(), "planet_weight.prom")
	require.NoError(t, WriteTextfileFrom(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `planet_weight_requests_total{responder="weight",status="200"} 1`)
	assert.Contains(t, string(data), `planet_weight_conversions_total{planet="mars"} 2`)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Conversions.WithLabelValues("mars")))
}
