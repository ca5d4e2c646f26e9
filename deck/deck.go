// Package deck loads slide decks from YAML or TOML files and serves them
// to a slider as an in-memory page.
package deck

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/agiangrant/carousel/slider"
)

var (
	// ErrUnknownFormat is returned for files that are neither YAML nor TOML.
	ErrUnknownFormat = errors.New("deck: unknown format")

	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("deck: invalid")
)

// Format is a deck file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Deck is a banner and its slides.
type Deck struct {
	Title string `yaml:"title" toml:"title"`

	// Classes are the container's classes; Page.Container matches
	// selectors against them. Defaults to hero-banner.
	Classes []string `yaml:"classes" toml:"classes"`

	Slides []Slide `yaml:"slides" toml:"slides"`
}

// Slide is one entry of a deck.
type Slide struct {
	ID          string   `yaml:"id" toml:"id"`
	Image       string   `yaml:"image" toml:"image"`
	Title       string   `yaml:"title" toml:"title"`
	Description string   `yaml:"description" toml:"description"`
	Rating      float64  `yaml:"rating" toml:"rating"`
	Meta        []string `yaml:"meta" toml:"meta"`
	Link        string   `yaml:"link" toml:"link"`
	Classes     []string `yaml:"classes" toml:"classes"`
}

// Load reads and validates the deck at path.
func Load(path string) (*Deck, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck %s: %w", path, err)
	}
	d, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("deck %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes and validates a deck. Unknown keys are rejected.
func Parse(data []byte, format Format) (*Deck, error) {
	var d Deck
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	d.applyDefaults()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Deck) applyDefaults() {
	if len(d.Classes) == 0 {
		d.Classes = []string{strings.TrimPrefix(slider.DefaultContainer, ".")}
	}
	for i := range d.Slides {
		s := &d.Slides[i]
		if s.ID == "" {
			s.ID = fmt.Sprintf("slide-%d", i+1)
		}
		if len(s.Classes) == 0 {
			s.Classes = []string{strings.TrimPrefix(slider.DefaultSlideSelector, ".")}
		}
	}
}

// Validate checks slide IDs are unique and ratings are within 0-10. An
// empty deck is valid: the slider mounts inert on it.
func (d *Deck) Validate() error {
	seen := make(map[string]int, len(d.Slides))
	for i, s := range d.Slides {
		if prev, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: slide %d reuses id %q of slide %d", ErrInvalid, i+1, s.ID, prev+1)
		}
		seen[s.ID] = i
		if s.Rating < 0 || s.Rating > 10 {
			return fmt.Errorf("%w: slide %q rating %v not in [0, 10]", ErrInvalid, s.ID, s.Rating)
		}
	}
	return nil
}

// SlideData converts the deck into the nodes a slider queries.
func (d *Deck) SlideData() []slider.SlideData {
	out := make([]slider.SlideData, len(d.Slides))
	for i, s := range d.Slides {
		out[i] = slider.SlideData{
			ID:    s.ID,
			Image: s.Image,
			Content: slider.Content{
				Title:       s.Title,
				Description: s.Description,
				Rating:      s.Rating,
				Meta:        append([]string(nil), s.Meta...),
				Link:        s.Link,
			},
			Classes: append([]string(nil), s.Classes...),
		}
	}
	return out
}
