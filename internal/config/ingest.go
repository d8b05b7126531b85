package config

import (
	"fmt"

	"github.com/JaimeStill/remit/pkg/envvar"
	"github.com/JaimeStill/remit/pkg/pdftext"
)

const (
	EnvIngestVisionFallback = "REMIT_INGEST_VISION_FALLBACK"
	EnvIngestMaxPages       = "REMIT_INGEST_MAX_PAGES"
)

// IngestConfig controls PDF text extraction. VisionFallback transcribes
// scanned PDFs through the agent's vision endpoint; MaxPages of 0 means
// unlimited.
type IngestConfig struct {
	VisionFallback bool `toml:"vision_fallback"`
	MaxPages       int  `toml:"max_pages"`
}

// PDF returns the extractor configuration.
func (c *IngestConfig) PDF() pdftext.Config {
	return pdftext.Config{MaxPages: c.MaxPages}
}

// Finalize applies environment variable overrides and validation.
func (c *IngestConfig) Finalize() error {
	envvar.Bool(EnvIngestVisionFallback, &c.VisionFallback)
	envvar.Int(EnvIngestMaxPages, &c.MaxPages)

	if c.MaxPages < 0 {
		return fmt.Errorf("invalid max_pages: %d", c.MaxPages)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *IngestConfig) Merge(overlay *IngestConfig) {
	if overlay.VisionFallback {
		c.VisionFallback = true
	}
	if overlay.MaxPages != 0 {
		c.MaxPages = overlay.MaxPages
	}
}
