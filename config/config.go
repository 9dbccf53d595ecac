package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	"tubi-epg/consts"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Countries          []string      `yaml:"countries"`
	OutputDir          string        `yaml:"output_dir"`
	GuideBaseURL       string        `yaml:"guide_base_url"`
	ProxyProtocol      string        `yaml:"proxy_protocol"`
	ProxyDirectoryURL  string        `yaml:"proxy_directory_url"`
	CatalogURL         string        `yaml:"catalog_url"`
	ScheduleURL        string        `yaml:"schedule_url"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	InsecureSkipVerify *bool         `yaml:"insecure_skip_verify"`
	ScheduleRate       float64       `yaml:"schedule_rate"`
	LogLevel           string        `yaml:"log_level"`
	LogFormat          string        `yaml:"log_format"`
	LogFile            string        `yaml:"log_file"`
	MetricsFile        string        `yaml:"metrics_file"`
}

func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads path as YAML on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	c := &Config{}
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		c.applyDefaults()
		return c, nil
	} else if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if len(c.Countries) == 0 {
		c.Countries = []string{consts.DEFAULT_COUNTRY}
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.GuideBaseURL == "" {
		c.GuideBaseURL = consts.GUIDE_BASE_URL
	}
	if c.ProxyProtocol == "" {
		c.ProxyProtocol = consts.DEFAULT_PROTOCOL
	}
	if c.ProxyDirectoryURL == "" {
		c.ProxyDirectoryURL = consts.PROXY_DIRECTORY
	}
	if c.CatalogURL == "" {
		c.CatalogURL = consts.CATALOG_URL
	}
	if c.ScheduleURL == "" {
		c.ScheduleURL = consts.SCHEDULE_URL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = consts.REQUEST_TIMEOUT
	}
	if c.InsecureSkipVerify == nil {
		skip := true
		c.InsecureSkipVerify = &skip
	}
	if c.LogLevel == "" {
		c.LogLevel = os.Getenv("LOG_LEVEL")
	}
}

// SetCountries replaces the country list from a comma separated flag value
// plus any positional arguments. Empty input leaves the list untouched.
func (c *Config) SetCountries(flagValue string, args []string) {
	var list []string
	for _, part := range append(strings.Split(flagValue, ","), args...) {
		part = strings.TrimSpace(part)
		if part != "" {
			list = append(list, part)
		}
	}
	if len(list) > 0 {
		c.Countries = list
	}
}

func (c *Config) SkipVerify() bool {
	return c.InsecureSkipVerify != nil && *c.InsecureSkipVerify
}

func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Countries))
	for _, country := range c.Countries {
		if len(country) != 2 {
			return fmt.Errorf("invalid country code %q", country)
		}
		key := strings.ToUpper(country)
		if seen[key] {
			return fmt.Errorf("duplicate country code %q", country)
		}
		seen[key] = true
	}
	switch c.ProxyProtocol {
	case "socks4", "socks5", "http":
	default:
		return fmt.Errorf("unsupported proxy protocol %q", c.ProxyProtocol)
	}
	if c.ScheduleRate < 0 {
		return fmt.Errorf("schedule_rate must not be negative")
	}
	return nil
}
