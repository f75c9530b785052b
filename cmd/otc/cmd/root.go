package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceCopper/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "otc",
	Short: "OpenTraceCopper - PCB copper templating tools",
	Long: `OpenTraceCopper (otc) captures copper geometry between placed components
as reusable, position/orientation-independent templates and replays them
across a board, reconnecting each copy to the right electrical net.

Examples:
  otc info board.kicad_pcb                    # Board summary
  otc nets board.kicad_pcb GND                # Net detail
  otc capture board.kicad_pcb LED2 LED3       # Capture a path template
  otc replicate board.kicad_pcb wiring.plan   # Run a replication plan`,
	Version:       "0.9.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		level, lerr := log.ParseLevel(cfg.LogLevel)
		if lerr != nil {
			level = log.InfoLevel
		}
		if verbose {
			level = log.DebugLevel
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: level})
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to otc.toml (default: ./otc.toml if present)")
}
