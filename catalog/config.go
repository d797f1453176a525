package catalog

import "time"

// Config configures the catalog service.
type Config struct {
	// MemoTTL is how long the in-process memo keeps search/compare
	// results. Default: 5 minutes.
	MemoTTL time.Duration

	// SearchLimit is the default maximum number of groups returned by
	// Search when the filters don't set one. Default: 50.
	SearchLimit int
}

func (c *Config) defaults() {
	if c.MemoTTL <= 0 {
		c.MemoTTL = 5 * time.Minute
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = 50
	}
}

func defaultConfig() *Config {
	return &Config{
		MemoTTL:     5 * time.Minute,
		SearchLimit: 50,
	}
}
