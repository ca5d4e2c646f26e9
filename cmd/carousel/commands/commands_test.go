package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/carousel/config"
	"github.com/agiangrant/carousel/slider"
)

const threeSlides = `
title: Featured
slides:
  - title: Dune
  - title: Arrival
  - title: Heat
`

func writeDeck(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the CLI in-process and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	g := &globals{}
	t.Cleanup(g.close)

	root := newRootCmd(g)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "carousel version "+Version+"\n", out)
}

func TestValidate(t *testing.T) {
	path := writeDeck(t, threeSlides)
	out, err := execute(t, "", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "3 slides, autoplay every 5s")
}

func TestValidateEmptyDeck(t *testing.T) {
	path := writeDeck(t, "title: Nothing\n")
	_, err := execute(t, "", "validate", path)
	assert.ErrorIs(t, err, slider.ErrNoSlides)
}

func TestValidateBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("[slider]\ninterval = \"0s\"\n"), 0o644))

	_, err := execute(t, "", "--config", cfgPath, "validate", writeDeck(t, threeSlides))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestConfigResolvesDeckPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slides.yaml"), []byte(threeSlides), 0o644))
	cfgPath := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("[deck]\npath = \"slides.yaml\"\n"), 0o644))

	out, err := execute(t, "", "--config", cfgPath, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "slides.yaml"))
}

func TestSimulateTimeline(t *testing.T) {
	script := `
advance 5s
key right
hover on
advance 10s
hover off
advance 5s
`
	out, err := execute(t, script, "simulate", "--script", "-", writeDeck(t, threeSlides))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{
		"0s  start         slide 1/3, playing",
		"5s  slide-changed 1 -> 2 (autoplay)",
		"5s  slide-changed 2 -> 3 (keyboard)",
		"5s  suspend       slide 3 (hover)",
		"15s  resume        slide 3 (hover)",
		"20s  slide-changed 3 -> 1 (autoplay)",
		"20s  end           slide 1/3, playing, progress 0%",
		"20s  close         slide 1 (api)",
	}
	require.Len(t, lines, len(want), out)
	for i, w := range want {
		assert.Equal(t, w, strings.TrimSpace(lines[i]))
	}
}

func TestSimulateKeyboardNeedsVisibility(t *testing.T) {
	script := "hide\nkey right\nshow\nkey left\n"
	out, err := execute(t, script, "simulate", "-s", "-", writeDeck(t, threeSlides))
	require.NoError(t, err)

	assert.NotContains(t, out, "1 -> 2")
	assert.Contains(t, out, "1 -> 3 (keyboard)")
}

func TestSimulateScriptError(t *testing.T) {
	_, err := execute(t, "advance forever", "simulate", "-s", "-", writeDeck(t, threeSlides))
	assert.ErrorIs(t, err, errScript)
}

func TestSimulateAPIErrorsAreReported(t *testing.T) {
	out, err := execute(t, "goto 7", "simulate", "-s", "-", writeDeck(t, threeSlides))
	require.NoError(t, err)
	assert.Contains(t, out, "line 1: slider: slide index out of range")
}
