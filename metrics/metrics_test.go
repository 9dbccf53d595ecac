package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ProxyAttempts.WithLabelValues("US", Result(errors.New("x"))).Inc()
	m.ProxyAttempts.WithLabelValues("US", Result(nil)).Inc()
	m.ProxyAttempts.WithLabelValues("US", Result(nil)).Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProxyAttempts.WithLabelValues("US", "failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProxyAttempts.WithLabelValues("US", "success")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.CountryRuns.WithLabelValues("success").Inc()
	m.PlaylistEntries.WithLabelValues("MX").Set(42)

	path := filepath.Join(t.TempDir(), "tubi.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `tubi_country_runs_total{result="success"} 1`)
	assert.Contains(t, string(data), `tubi_playlist_entries{country="MX"} 42`)

	assert.NoError(t, m.WriteTextfile(""))
}
