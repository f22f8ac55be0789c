package lightbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ViewerPrefs is the small persisted record shared by viewers: the last
// chosen zoom level and zoom mode are reused for the next image.
type ViewerPrefs struct {
	ZoomLevel  int  `yaml:"zoom_level"`
	LockedZoom bool `yaml:"locked_zoom"`
}

// Settings holds user preferences read by the engine.
type Settings struct {
	// SlideshowDuration is the per-image slideshow interval in seconds.
	SlideshowDuration float64 `yaml:"slideshow_duration"`
	// AutoPanDuration is the duration of one auto-pan sweep in seconds.
	AutoPanDuration float64 `yaml:"auto_pan_duration"`
	// LoopDuration is the duration of one loop pass in seconds.
	LoopDuration float64 `yaml:"loop_duration"`

	Viewer ViewerPrefs `yaml:"viewer"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		SlideshowDuration: 15,
		AutoPanDuration:   3,
		LoopDuration:      15,
	}
}

// SettingsReader is the read-only view of preferences the engine consumes.
type SettingsReader interface {
	// Seconds returns a duration preference by key, and false for unknown keys.
	Seconds(key string) (float64, bool)
}

// Settings keys understood by Seconds.
const (
	KeySlideshowDuration = "slideshow_duration"
	KeyAutoPanDuration   = "auto_pan_duration"
	KeyLoopDuration      = "loop_duration"
)

// Seconds implements SettingsReader.
func (s *Settings) Seconds(key string) (float64, bool) {
	switch key {
	case KeySlideshowDuration:
		return s.SlideshowDuration, true
	case KeyAutoPanDuration:
		return s.AutoPanDuration, true
	case KeyLoopDuration:
		return s.LoopDuration, true
	}
	return 0, false
}

// DurationFor returns the configured duration for a pan mode.
func DurationFor(r SettingsReader, mode Mode) float64 {
	key := KeySlideshowDuration
	switch mode {
	case ModeAutoPan:
		key = KeyAutoPanDuration
	case ModeLoop:
		key = KeyLoopDuration
	}
	if v, ok := r.Seconds(key); ok && v > 0 {
		return v
	}
	def := DefaultSettings()
	v, _ := def.Seconds(key)
	return v
}

// LoadSettings reads settings from a YAML file. A missing file yields
// DefaultSettings and no error; fields absent from the file keep their
// defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("lightbox: read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("lightbox: parse settings %s: %w", path, err)
	}
	return s, nil
}

// SaveSettings writes settings to a YAML file.
func SaveSettings(path string, s Settings) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("lightbox: encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("lightbox: write settings: %w", err)
	}
	return nil
}
