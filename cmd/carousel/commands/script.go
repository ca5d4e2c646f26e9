package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agiangrant/carousel/slider"
)

var errScript = errors.New("invalid script")

// maxAdvance bounds one advance step. The virtual clock steps through
// every frame, so a huge duration would keep simulate busy for hours.
const maxAdvance = time.Hour

// step is one line of a simulate script.
type step struct {
	line int
	op   string

	d     time.Duration // advance
	index int           // goto, click indicator
	from  float64       // swipe, drag
	to    float64
	arg   string // key name, hover on/off, click target
}

// arity lists how many arguments each operation takes.
var arity = map[string]int{
	"advance": 1,
	"next":    0,
	"prev":    0,
	"goto":    1,
	"key":     1,
	"swipe":   2,
	"drag":    2,
	"hover":   1,
	"click":   -1, // prev, next or indicator N
	"pause":   0,
	"play":    0,
	"toggle":  0,
	"hide":    0,
	"show":    0,
}

// parseScript reads one operation per line. Blank lines and lines
// starting with # are skipped.
//
//	advance 5s
//	swipe 400 320
//	key ArrowRight
//	hover on
//	click indicator 2
func parseScript(r io.Reader) ([]step, error) {
	var steps []step
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		st, err := parseStep(line, strings.Fields(text))
		if err != nil {
			return nil, err
		}
		steps = append(steps, st)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return steps, nil
}

func parseStep(line int, fields []string) (step, error) {
	st := step{line: line, op: strings.ToLower(fields[0])}
	args := fields[1:]

	fail := func(format string, a ...any) (step, error) {
		return step{}, fmt.Errorf("%w: line %d: %s", errScript, line, fmt.Sprintf(format, a...))
	}

	n, ok := arity[st.op]
	if !ok {
		return fail("unknown operation %q", fields[0])
	}
	if n >= 0 && len(args) != n {
		return fail("%s takes %d argument(s), got %d", st.op, n, len(args))
	}

	var err error
	switch st.op {
	case "advance":
		st.d, err = time.ParseDuration(args[0])
		if err != nil || st.d < 0 {
			return fail("bad duration %q", args[0])
		}
		if st.d > maxAdvance {
			return fail("advance %s exceeds %s", st.d, maxAdvance)
		}

	case "goto":
		st.index, err = strconv.Atoi(args[0])
		if err != nil {
			return fail("bad index %q", args[0])
		}

	case "key":
		st.arg = normalizeKey(args[0])

	case "swipe", "drag":
		st.from, err = strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fail("bad position %q", args[0])
		}
		st.to, err = strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fail("bad position %q", args[1])
		}

	case "hover":
		switch args[0] {
		case "on", "off":
			st.arg = args[0]
		default:
			return fail("hover takes on or off, got %q", args[0])
		}

	case "click":
		switch {
		case len(args) == 1 && (args[0] == "prev" || args[0] == "next"):
			st.arg = args[0]
		case len(args) == 2 && args[0] == "indicator":
			st.arg = args[0]
			st.index, err = strconv.Atoi(args[1])
			if err != nil {
				return fail("bad index %q", args[1])
			}
		default:
			return fail("click takes prev, next or indicator N")
		}
	}
	return st, nil
}

// normalizeKey accepts short names for the arrow keys. Anything else is
// passed through so scripts can check that other keys are ignored.
func normalizeKey(k string) string {
	switch strings.ToLower(k) {
	case "left", "arrowleft":
		return slider.KeyArrowLeft
	case "right", "arrowright":
		return slider.KeyArrowRight
	}
	return k
}
