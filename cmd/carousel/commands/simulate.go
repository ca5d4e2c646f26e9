package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agiangrant/carousel/config"
	"github.com/agiangrant/carousel/deck"
	"github.com/agiangrant/carousel/loop"
	"github.com/agiangrant/carousel/slider"
)

// Simulated page geometry in pixels.
var (
	simViewport = slider.Rect{Width: 1280, Height: 720}
	simBanner   = slider.Rect{Width: 1280, Height: 400}
	simHidden   = slider.Rect{Y: 600, Width: 1280, Height: 400}
)

// defaultScript lets autoplay run through a few intervals.
const defaultScript = "advance 20s\n"

func newSimulateCmd(g *globals) *cobra.Command {
	var scriptPath string
	cmd := &cobra.Command{
		Use:   "simulate [deck]",
		Short: "Replay scripted input on a virtual clock and print the timeline",
		Long: `Mounts the deck on a virtual clock and replays a script, one operation
per line:

  advance 5s           let time pass, at most 1h per step
  next | prev | goto N call the API
  key ArrowRight       press a key (left/right accepted)
  swipe 400 320        touch swipe from x=400 to x=320
  drag 400 320         pointer drag from x=400 to x=320
  hover on|off         pointer enters or leaves the banner
  click prev|next      activate an arrow button
  click indicator N    activate an indicator dot
  pause | play | toggle
  hide | show          scroll the banner partly out of view and back

Without --script the deck autoplays for 20s. Use "-" to read stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = strings.NewReader(defaultScript)
			switch scriptPath {
			case "":
			case "-":
				r = cmd.InOrStdin()
			default:
				f, err := os.Open(scriptPath)
				if err != nil {
					return fmt.Errorf("failed to open script: %w", err)
				}
				defer f.Close()
				r = f
			}

			steps, err := parseScript(r)
			if err != nil {
				return err
			}
			d, err := deck.Load(g.deckPath(args))
			if err != nil {
				return err
			}
			return simulate(cmd.OutOrStdout(), g.cfg, d, steps, g.logger)
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "script file, or - for stdin")
	return cmd
}

// simulation drives one slider on a manual clock.
type simulation struct {
	out   io.Writer
	clock *loop.Manual
	page  *deck.Page
	s     *slider.Slider
}

func simulate(out io.Writer, cfg config.File, d *deck.Deck, steps []step, logger *zap.Logger) error {
	sim := &simulation{
		out:   out,
		clock: loop.NewManual(time.Unix(0, 0).UTC(), loop.DefaultFrameInterval),
		page:  deck.NewPage(d, simViewport),
	}
	sim.page.SetLayout(simBanner, simViewport)

	sim.s = slider.Mount(sim.page, sim.clock, cfg.SliderOptions(logger, nil))
	defer sim.s.Close()

	if err := sim.s.Err(); err != nil {
		fmt.Fprintf(out, "slider is inert: %v\n", err)
	} else {
		sim.s.Subscribe(sim.print)
		sim.printf("start", "slide %d/%d, %s", sim.s.ActiveIndex()+1, sim.s.Len(), sim.s.State())
	}

	for _, st := range steps {
		sim.run(st)
	}

	if sim.s.Err() == nil {
		sim.printf("end", "slide %d/%d, %s, progress %.0f%%",
			sim.s.ActiveIndex()+1, sim.s.Len(), sim.s.State(), sim.s.Progress()*100)
	}
	return nil
}

func (sim *simulation) run(st step) {
	switch st.op {
	case "advance":
		sim.clock.Advance(st.d)
	case "next":
		sim.report(st, sim.s.Next())
	case "prev":
		sim.report(st, sim.s.Prev())
	case "goto":
		sim.report(st, sim.s.GoTo(st.index))
	case "pause":
		sim.s.Pause()
	case "play":
		sim.s.Play()
	case "toggle":
		sim.s.Toggle()

	case "key":
		sim.emit(slider.NewKeyEvent(st.arg))
	case "swipe":
		sim.emit(slider.NewPointerEvent(slider.EventTouchStart, st.from, 0))
		sim.emit(slider.NewPointerEvent(slider.EventTouchEnd, st.to, 0))
	case "drag":
		y := simBanner.Height / 2
		sim.emit(slider.NewPointerEvent(slider.EventPointerDown, st.from, y))
		sim.emit(slider.NewPointerEvent(slider.EventPointerMove, st.to, y))
		sim.emit(slider.NewPointerEvent(slider.EventPointerUp, st.to, y))
	case "hover":
		if st.arg == "on" {
			sim.emit(slider.NewHoverEvent(slider.EventMouseEnter))
		} else {
			sim.emit(slider.NewHoverEvent(slider.EventMouseLeave))
		}
	case "click":
		switch st.arg {
		case "prev":
			sim.emit(slider.NewClickEvent(slider.ControlPrev, 0))
		case "next":
			sim.emit(slider.NewClickEvent(slider.ControlNext, 0))
		default:
			sim.emit(slider.NewClickEvent(slider.ControlIndicator, st.index))
		}

	case "hide":
		sim.page.SetLayout(simHidden, simViewport)
	case "show":
		sim.page.SetLayout(simBanner, simViewport)
	}
}

func (sim *simulation) emit(ev slider.Event) {
	sim.page.Emit(ev)
}

func (sim *simulation) report(st step, err error) {
	if err != nil {
		sim.printf("error", "line %d: %v", st.line, err)
	}
}

func (sim *simulation) print(n slider.Notice) {
	switch n.Kind {
	case slider.NoticeSlideChanged:
		sim.printf(n.Kind.String(), "%d -> %d (%s)", n.Previous+1, n.Index+1, n.Cause)
	default:
		sim.printf(n.Kind.String(), "slide %d (%s)", n.Index+1, n.Cause)
	}
}

func (sim *simulation) printf(label, format string, a ...any) {
	at := sim.clock.Elapsed().Round(time.Millisecond)
	fmt.Fprintf(sim.out, "%9s  %-13s %s\n", at, label, fmt.Sprintf(format, a...))
}
