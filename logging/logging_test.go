package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevel(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, New(Options{}).GetLevel())
	assert.Equal(t, logrus.InfoLevel, New(Options{Level: "loud"}).GetLevel())
	assert.Equal(t, logrus.DebugLevel, New(Options{Level: "debug"}).GetLevel())
}

func TestNewJSONFormatter(t *testing.T) {
	log := New(Options{Format: "json"})
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	log := New(Options{File: path})
	log.WithField("country", "US").Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "country=US")
	assert.Contains(t, string(data), "hello")
}
