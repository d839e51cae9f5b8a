package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/eventhive/mediakit/internal/flagx"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// given in seconds; zero values leave the corresponding Config field alone so
// a partial file only overrides what it names.
type JSONConfig struct {
	UploadURL         string `json:"upload_url"`
	DeleteURL         string `json:"delete_url"`
	MaxImages         int    `json:"max_images"`
	AutoUpload        *bool  `json:"auto_upload"`
	EventID           string `json:"event_id"`
	OptimizeThreshold int    `json:"optimize_threshold"`
	MaxWidth          int    `json:"max_width"`
	MaxHeight         int    `json:"max_height"`
	Quality           int    `json:"quality"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
}

// parseJSON overlays Config with values loaded from the JSON file named by
// the -c/-config flags. When no file is given the function returns without
// touching cfg. Read or unmarshal errors panic; the caller decides whether
// to recover.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigFlags()
	if path == "" {
		return
	}

	var jc JSONConfig

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.UploadURL != "" {
		cfg.UploadURL = jc.UploadURL
	}
	if jc.DeleteURL != "" {
		cfg.DeleteURL = jc.DeleteURL
	}
	if jc.MaxImages > 0 {
		cfg.MaxImages = jc.MaxImages
	}
	if jc.AutoUpload != nil {
		cfg.AutoUpload = *jc.AutoUpload
	}
	if jc.EventID != "" {
		cfg.EventID = jc.EventID
	}
	if jc.OptimizeThreshold > 0 {
		cfg.OptimizeThreshold = jc.OptimizeThreshold
	}
	if jc.MaxWidth > 0 {
		cfg.MaxWidth = jc.MaxWidth
	}
	if jc.MaxHeight > 0 {
		cfg.MaxHeight = jc.MaxHeight
	}
	if jc.Quality > 0 {
		cfg.Quality = jc.Quality
	}
	if jc.RequestTimeoutSec > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeoutSec) * time.Second
	}
}
