package commands

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/agiangrant/carousel/slider"
)

func TestParseScript(t *testing.T) {
	script := `
# autoplay once, then interact
advance 5s
key right
swipe 400 320.5
drag 100 300
hover on
click indicator 2
click prev
goto 0
toggle
`
	got, err := parseScript(strings.NewReader(script))
	if err != nil {
		t.Fatalf("parseScript: %v", err)
	}

	want := []step{
		{line: 3, op: "advance", d: 5 * time.Second},
		{line: 4, op: "key", arg: slider.KeyArrowRight},
		{line: 5, op: "swipe", from: 400, to: 320.5},
		{line: 6, op: "drag", from: 100, to: 300},
		{line: 7, op: "hover", arg: "on"},
		{line: 8, op: "click", arg: "indicator", index: 2},
		{line: 9, op: "click", arg: "prev"},
		{line: 10, op: "goto", index: 0},
		{line: 11, op: "toggle"},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(step{})); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		line   string
	}{
		{"unknown op", "jump 3", "line 1"},
		{"missing arg", "advance", "line 1"},
		{"extra arg", "next now", "line 1"},
		{"bad duration", "\nadvance soon", "line 2"},
		{"negative duration", "advance -1s", "line 1"},
		{"duration too long", "advance 5s\nadvance 100000h", "line 2"},
		{"bad index", "goto two", "line 1"},
		{"bad position", "swipe left 10", "line 1"},
		{"bad hover", "hover maybe", "line 1"},
		{"bad click", "click indicator", "line 1"},
		{"bad click target", "click up", "line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScript(strings.NewReader(tt.script))
			if !errors.Is(err, errScript) {
				t.Fatalf("expected errScript, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.line) {
				t.Errorf("error %q does not name %s", err, tt.line)
			}
		})
	}
}

func TestParseScriptAdvanceLimit(t *testing.T) {
	steps, err := parseScript(strings.NewReader("advance 1h\n"))
	if err != nil {
		t.Fatalf("parseScript: %v", err)
	}
	if len(steps) != 1 || steps[0].d != maxAdvance {
		t.Fatalf("got %+v, want one advance of %s", steps, maxAdvance)
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"left":       slider.KeyArrowLeft,
		"ArrowLeft":  slider.KeyArrowLeft,
		"RIGHT":      slider.KeyArrowRight,
		"arrowright": slider.KeyArrowRight,
		"Enter":      "Enter",
	}
	for in, want := range tests {
		if got := normalizeKey(in); got != want {
			t.Errorf("normalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
