// Package commands implements the carousel CLI.
package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agiangrant/carousel/config"
	"github.com/agiangrant/carousel/internal/logging"
)

// logFileAnnotation marks commands that own the terminal and must not log
// to stderr.
const logFileAnnotation = "carousel/log-file"

// defaultLogFile is used by terminal commands when no log file is configured.
var defaultLogFile = filepath.Join(os.TempDir(), "carousel.log")

// globals holds what every subcommand shares.
type globals struct {
	configPath string
	verbose    bool

	cfg    config.File
	logger *zap.Logger
}

// Execute runs the CLI with os.Args.
func Execute() error {
	g := &globals{}
	defer g.close()
	return newRootCmd(g).Execute()
}

func newRootCmd(g *globals) *cobra.Command {
	root := &cobra.Command{
		Use:   "carousel",
		Short: "Banner carousel for the terminal",
		Long: `carousel shows a deck of banner slides with autoplay, hover pause,
swipe and keyboard navigation. Decks are YAML or TOML files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "path to "+config.FileName+" (default ./"+config.FileName+" if present)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRunCmd(g),
		newSimulateCmd(g),
		newValidateCmd(g),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger.
func (g *globals) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	g.cfg = cfg

	file := cfg.Log.File
	if file == "" && cmd.Annotations[logFileAnnotation] != "" {
		file = defaultLogFile
	}
	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    file,
		Verbose: g.verbose,
	})
	if err != nil {
		return err
	}
	g.logger = logger
	return nil
}

func (g *globals) close() {
	if g.logger != nil {
		_ = g.logger.Sync()
	}
}

// deckPath returns the deck named on the command line, or the configured
// one resolved against the config file's directory.
func (g *globals) deckPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	path := g.cfg.Deck.Path
	if filepath.IsAbs(path) || g.configPath == "" {
		return path
	}
	return filepath.Join(filepath.Dir(g.configPath), path)
}
