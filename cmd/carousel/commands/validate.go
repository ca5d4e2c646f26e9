package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agiangrant/carousel/deck"
	"github.com/agiangrant/carousel/loop"
	"github.com/agiangrant/carousel/slider"
)

func newValidateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [deck]",
		Short: "Check the configuration and deck",
		Long: `Loads the configuration and the deck, then mounts the deck with the
configured selectors to check that the container and slides are found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.deckPath(args)
			d, err := deck.Load(path)
			if err != nil {
				return err
			}

			page := deck.NewPage(d, simViewport)
			s := slider.Mount(page, loop.NewManual(time.Time{}, 0), g.cfg.SliderOptions(g.logger, nil))
			defer s.Close()
			if err := s.Err(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d slides, autoplay every %s\n", path, s.Len(), s.Interval())
			return nil
		},
	}
}
