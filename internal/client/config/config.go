// Package config holds the runtime settings for the media pipeline client.
//
// Settings are resolved once, in layers: built-in defaults, then an optional
// JSON file (-c/-config), then command-line flags. Later sources win. The
// resolved values are injected into the pipeline at construction and never
// re-read, so dual-mode behavior (manual vs automatic upload) is decided in
// exactly one place.
package config

import (
	"time"

	"github.com/eventhive/mediakit/internal/common"
)

type Config struct {
	// UploadURL and DeleteURL are the fixed endpoints of the remote store.
	UploadURL string
	DeleteURL string

	// MaxImages caps the collection size.
	MaxImages int

	// AutoUpload starts a transfer immediately after ingestion.
	AutoUpload bool

	// EventID associates uploads with a parent record; omitted when empty.
	EventID string

	// OptimizeThreshold is the payload size in bytes above which images are
	// optimized before upload.
	OptimizeThreshold int

	// Bounding box and quality for the optimizer.
	MaxWidth  int
	MaxHeight int
	Quality   int

	// RequestTimeout bounds each upload/delete HTTP call. The pipeline has
	// no timeout of its own.
	RequestTimeout time.Duration
}

// LoadDefaults populates c with the product defaults.
func (c *Config) LoadDefaults() {
	c.UploadURL = "http://127.0.0.1:8080/upload"
	c.DeleteURL = "http://127.0.0.1:8080/delete"
	c.MaxImages = 5
	c.AutoUpload = false
	c.EventID = ""
	c.OptimizeThreshold = common.DefaultOptimizeThreshold
	c.MaxWidth = 1920
	c.MaxHeight = 1080
	c.Quality = 80
	c.RequestTimeout = 60 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
