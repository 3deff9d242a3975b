package laxgeom

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

// Settings collects tuning parameters of the geometry core.
type Settings struct {
	Resolution     int     `toml:"resolution"`      // samples per bezier sub-range
	PixelThreshold float64 `toml:"pixel-threshold"` // stop distance for patch rasterizing
	MiterFactor    float64 `toml:"miter-factor"`    // miter bound, in multiples of the line width
	ZeroLength     float64 `toml:"zero-length"`     // squared length of degenerate segments
}

// DefaultSettings returns the settings the geometry core uses unless told otherwise.
func DefaultSettings() Settings {
	return Settings{
		Resolution:     10,
		PixelThreshold: 0.8,
		MiterFactor:    200,
		ZeroLength:     ZeroLength,
	}
}

// LoadSettings reads settings from a TOML document. Keys not present in the
// document keep their default values.
//
//	resolution = 16
//	pixel-threshold = 0.5
func LoadSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	if err := toml.NewDecoder(r).Decode(&s); err != nil {
		return DefaultSettings(), fmt.Errorf("reading settings: %w", err)
	}
	return s.Sanitized(), nil
}

// Sanitized replaces unusable values by their defaults.
func (s Settings) Sanitized() Settings {
	d := DefaultSettings()
	if s.Resolution < 1 {
		tracer().Errorf("settings: resolution %d < 1, using %d", s.Resolution, d.Resolution)
		s.Resolution = d.Resolution
	}
	if s.PixelThreshold <= 0 {
		s.PixelThreshold = d.PixelThreshold
	}
	if s.MiterFactor <= 0 {
		s.MiterFactor = d.MiterFactor
	}
	if s.ZeroLength <= 0 {
		s.ZeroLength = d.ZeroLength
	}
	return s
}
