// Package config reads carousel.toml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/agiangrant/carousel/preload"
	"github.com/agiangrant/carousel/slider"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "carousel.toml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// File represents the carousel.toml configuration file
type File struct {
	Slider  SliderConfig  `toml:"slider"`
	Deck    DeckConfig    `toml:"deck"`
	Preload PreloadConfig `toml:"preload"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
	UI      UIConfig      `toml:"ui"`
}

type SliderConfig struct {
	Container     string   `toml:"container"`
	SlideSelector string   `toml:"slide_selector"`
	AutoPlay      bool     `toml:"autoplay"`
	Interval      Duration `toml:"interval"`
	PauseOnHover  bool     `toml:"pause_on_hover"`
	Swipe         bool     `toml:"swipe"`
	// Minimum horizontal travel for a swipe, in pixels. The terminal UI
	// counts a cell as tui.CellWidth pixels.
	SwipeThreshold float64 `toml:"swipe_threshold"`
}

type DeckConfig struct {
	// Path to a .yaml/.yml/.toml deck, relative to the config file's directory
	Path string `toml:"path"`
	// Reload the deck when the file changes
	Watch bool `toml:"watch"`
}

type PreloadConfig struct {
	CacheEntries int      `toml:"cache_entries"`
	MaxImageMB   int      `toml:"max_image_mb"`
	Timeout      Duration `toml:"timeout"`
}

type LogConfig struct {
	// debug, info, warn, error
	Level string `toml:"level"`
	// console or json
	Format string `toml:"format"`
	// Log file; empty logs to stderr. The terminal UI always needs a file.
	File string `toml:"file"`
}

type MetricsConfig struct {
	// Listen address for /metrics and /healthz; empty disables
	Addr      string `toml:"addr"`
	Namespace string `toml:"namespace"`
}

type UIConfig struct {
	FrameRate int `toml:"frame_rate"`
	// auto, always, never
	Color string `toml:"color"`
	// glamour style for slide descriptions: auto, dark, light, notty
	MarkdownStyle string `toml:"markdown_style"`
	// Content fade-in length after a slide change
	FadeDuration Duration `toml:"fade_duration"`
}

// Default returns a sensible default configuration
func Default() File {
	opts := slider.DefaultOptions()
	return File{
		Slider: SliderConfig{
			Container:      opts.Container,
			SlideSelector:  opts.SlideSelector,
			AutoPlay:       opts.AutoPlay,
			Interval:       Duration{opts.Interval},
			PauseOnHover:   opts.PauseOnHover,
			Swipe:          opts.Swipe,
			SwipeThreshold: opts.SwipeThreshold,
		},
		Deck: DeckConfig{
			Path: "deck.yaml",
		},
		Preload: PreloadConfig{
			CacheEntries: 64,
			MaxImageMB:   16,
			Timeout:      Duration{30 * time.Second},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Namespace: "carousel",
		},
		UI: UIConfig{
			FrameRate:     30,
			Color:         "auto",
			MarkdownStyle: "auto",
			FadeDuration:  Duration{400 * time.Millisecond},
		},
	}
}

// Load reads path over the defaults. An empty path looks for FileName in
// the working directory and returns the defaults if it does not exist.
func Load(path string) (File, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(FileName); os.IsNotExist(err) {
			return cfg, nil
		}
		path = FileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML into cfg, keeping the values of absent keys.
func Parse(data []byte, cfg *File) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Save writes cfg to path.
func Save(path string, cfg File) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Validate rejects values the slider or UI cannot run with.
func (f File) Validate() error {
	var errs []error
	if f.Slider.Interval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("%w: slider.interval must be positive, got %s", ErrInvalid, f.Slider.Interval))
	}
	if f.Slider.SwipeThreshold <= 0 {
		errs = append(errs, fmt.Errorf("%w: slider.swipe_threshold must be positive, got %v", ErrInvalid, f.Slider.SwipeThreshold))
	}
	if f.UI.FrameRate <= 0 || f.UI.FrameRate > 240 {
		errs = append(errs, fmt.Errorf("%w: ui.frame_rate must be in 1..240, got %d", ErrInvalid, f.UI.FrameRate))
	}
	if _, err := zap.ParseAtomicLevel(f.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: log.level: %v", ErrInvalid, err))
	}
	switch f.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: log.format must be console or json, got %q", ErrInvalid, f.Log.Format))
	}
	switch f.UI.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("%w: ui.color must be auto, always or never, got %q", ErrInvalid, f.UI.Color))
	}
	if f.Preload.CacheEntries < 0 || f.Preload.MaxImageMB < 0 {
		errs = append(errs, fmt.Errorf("%w: preload limits must not be negative", ErrInvalid))
	}
	return errors.Join(errs...)
}

// SliderOptions builds slider options from the [slider] section.
func (f File) SliderOptions(logger *zap.Logger, p slider.Preloader) slider.Options {
	return slider.Options{
		Container:      f.Slider.Container,
		SlideSelector:  f.Slider.SlideSelector,
		AutoPlay:       f.Slider.AutoPlay,
		Interval:       f.Slider.Interval.Duration,
		PauseOnHover:   f.Slider.PauseOnHover,
		Swipe:          f.Slider.Swipe,
		SwipeThreshold: f.Slider.SwipeThreshold,
		Logger:         logger,
		Preloader:      p,
	}
}

// LoaderConfig builds loader settings from the [preload] section.
// Relative image paths resolve against baseDir.
func (f File) LoaderConfig(baseDir string) preload.Config {
	cfg := preload.DefaultConfig()
	if f.Preload.CacheEntries > 0 {
		cfg.CacheEntries = f.Preload.CacheEntries
	}
	if f.Preload.MaxImageMB > 0 {
		cfg.MaxImageBytes = int64(f.Preload.MaxImageMB) << 20
	}
	if f.Preload.Timeout.Duration > 0 {
		cfg.Timeout = f.Preload.Timeout.Duration
	}
	cfg.BaseDir = baseDir
	return cfg
}

// Duration is a time.Duration written as a Go duration string ("5s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
