package scrape

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the scrape subsystem configuration, loadable from YAML.
type Config struct {
	// Browser settings for the managed Chrome.
	Browser struct {
		Remote string `yaml:"remote"` // ws:// URL of an external Chrome; empty = launch local
	} `yaml:"browser"`

	// Terms overrides the staple term vocabulary.
	Terms []string `yaml:"terms"`

	// Delay is the courtesy pause between (adapter, term) requests.
	// Default: 2s.
	Delay time.Duration `yaml:"delay"`

	// Timeout per render call. Default: 30s.
	Timeout time.Duration `yaml:"timeout"`

	// Scheduler settings.
	Interval   time.Duration `yaml:"interval"`     // default: 6h
	RunOnStart bool          `yaml:"run_on_start"`

	// Sites overrides the built-in store definitions. Empty = Kibabo and
	// Meumerkado.
	Sites []Site `yaml:"sites"`
}

// Defaults fills unset fields.
func (c *Config) Defaults() {
	if c.Delay <= 0 {
		c.Delay = 2 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Interval <= 0 {
		c.Interval = 6 * time.Hour
	}
	if len(c.Terms) == 0 {
		c.Terms = StapleTerms
	}
}

// LoadConfigFile reads a YAML configuration file and applies defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scrape: read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("scrape: parse config: %w", err)
	}
	cfg.Defaults()
	return &cfg, nil
}
