package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"tubi-epg/consts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"US"}, c.Countries)
	assert.Equal(t, ".", c.OutputDir)
	assert.Equal(t, "socks4", c.ProxyProtocol)
	assert.Equal(t, consts.CATALOG_URL, c.CatalogURL)
	assert.Equal(t, consts.REQUEST_TIMEOUT, c.RequestTimeout)
	assert.True(t, c.SkipVerify())
	require.NoError(t, c.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tubi.yaml")
	data := `countries: [US, MX]
output_dir: out
proxy_protocol: socks5
request_timeout: 5s
insecure_skip_verify: false
schedule_rate: 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"US", "MX"}, c.Countries)
	assert.Equal(t, "out", c.OutputDir)
	assert.Equal(t, "socks5", c.ProxyProtocol)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
	assert.False(t, c.SkipVerify())
	assert.Equal(t, 2.5, c.ScheduleRate)
	assert.Equal(t, consts.GUIDE_BASE_URL, c.GuideBaseURL)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tubi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("countries: [US"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSetCountries(t *testing.T) {
	c := Default()
	c.SetCountries("", nil)
	assert.Equal(t, []string{"US"}, c.Countries)

	c.SetCountries("us, ca,", []string{"MX"})
	assert.Equal(t, []string{"us", "ca", "MX"}, c.Countries)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad country", func(c *Config) { c.Countries = []string{"USA"} }, true},
		{"duplicate country", func(c *Config) { c.Countries = []string{"us", "US"} }, true},
		{"bad protocol", func(c *Config) { c.ProxyProtocol = "ftp" }, true},
		{"negative rate", func(c *Config) { c.ScheduleRate = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
