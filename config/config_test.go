package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agiangrant/carousel/slider"
)

func TestDefaultMatchesSliderDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	opts := cfg.SliderOptions(nil, nil)
	want := slider.DefaultOptions()
	assert.Equal(t, want.Container, opts.Container)
	assert.Equal(t, want.SlideSelector, opts.SlideSelector)
	assert.Equal(t, want.Interval, opts.Interval)
	assert.Equal(t, want.SwipeThreshold, opts.SwipeThreshold)
	assert.True(t, opts.AutoPlay)
	assert.True(t, opts.PauseOnHover)
	assert.True(t, opts.Swipe)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
[slider]
interval = "7500ms"
pause_on_hover = false

[deck]
path = "decks/featured.toml"
watch = true

[log]
level = "debug"
format = "json"

[metrics]
addr = ":9090"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7500*time.Millisecond, cfg.Slider.Interval.Duration)
	assert.False(t, cfg.Slider.PauseOnHover)
	assert.True(t, cfg.Slider.AutoPlay, "absent keys keep defaults")
	assert.Equal(t, "decks/featured.toml", cfg.Deck.Path)
	assert.True(t, cfg.Deck.Watch)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, "carousel", cfg.Metrics.Namespace)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero interval", "[slider]\ninterval = \"0s\"\n"},
		{"negative threshold", "[slider]\nswipe_threshold = -1.0\n"},
		{"bad level", "[log]\nlevel = \"loud\"\n"},
		{"bad format", "[log]\nformat = \"xml\"\n"},
		{"bad color", "[ui]\ncolor = \"sometimes\"\n"},
		{"frame rate", "[ui]\nframe_rate = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))
			_, err := Load(path)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadParseErrors(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("[slider]\nintreval = \"5s\"\n"), 0644))
	_, err := Load(unknown)
	assert.ErrorContains(t, err, "failed to parse")

	badDuration := filepath.Join(dir, "duration.toml")
	require.NoError(t, os.WriteFile(badDuration, []byte("[slider]\ninterval = \"soon\"\n"), 0644))
	_, err = Load(badDuration)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Default()
	cfg.Slider.Interval = Duration{3 * time.Second}
	cfg.UI.Color = "never"

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestSliderOptionsCarriesLogger(t *testing.T) {
	logger := zap.NewExample()
	opts := Default().SliderOptions(logger, slider.PreloaderFunc(func(string) {}))
	assert.Same(t, logger, opts.Logger)
	assert.NotNil(t, opts.Preloader)
}

func TestLoaderConfig(t *testing.T) {
	cfg := Default()
	cfg.Preload.MaxImageMB = 2
	lc := cfg.LoaderConfig("/srv/decks")
	assert.Equal(t, int64(2<<20), lc.MaxImageBytes)
	assert.Equal(t, "/srv/decks", lc.BaseDir)
	assert.Equal(t, 64, lc.CacheEntries)
	assert.Equal(t, 30*time.Second, lc.Timeout)
}
