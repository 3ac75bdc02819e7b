// falls drives a particle-fall simulation from hot-reloaded JSON documents.
//
// Usage:
//
//	falls run        - Watch a directory and drive the simulation
//	falls check      - Validate the documents in a directory
//	falls captures   - Browse the capture journal
//	falls serve      - Run headless and expose the monitor over SSH
//
// Global flags:
//
//	--config <path>    - Settings file (default: ~/.falls/director.yaml)
//	--dir <path>       - Watched directory
//	--out <path>       - Capture output root
//	--fps <rate>       - Tick rate
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/koyoi/falls/internal/config"
	"github.com/koyoi/falls/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDir      string
	flagOut      string
	flagRes      string
	flagFPS      int
	flagLogLevel string
	flagJournal  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "falls",
	Short: "falls - a hot-reloading director for particle falls",
	Long: `falls watches a directory of JSON documents (preset, forcefield,
sequence, capture) and turns them into a live parameter stream for the
renderer, firing scripted swaps and captures as time passes.

Available commands:
  run       - Watch and drive the simulation
  check     - Validate documents without running
  captures  - Browse past captures
  serve     - Headless run with an SSH monitor

Examples:
  falls run --dir ./runtime
  falls check ./runtime
  falls captures
  falls serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Settings file (default: search ~/.falls and the working directory)")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Watched directory")
	rootCmd.PersistentFlags().StringVar(&flagOut, "out", "", "Capture output root")
	rootCmd.PersistentFlags().StringVar(&flagRes, "res", "", "Root for res:// references")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagJournal, "journal", "", "Path to the capture journal database")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(capturesCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadSettings reads settings and applies explicitly set flags on top.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	s, err := config.LoadSettings(flagConfig)
	if err != nil {
		return s, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		s.WatchDir = flagDir
	}
	if flags.Changed("out") {
		s.OutputDir = flagOut
	}
	if flags.Changed("res") {
		s.ResRoot = flagRes
	}
	if flags.Changed("fps") && flagFPS > 0 {
		s.TickRate = flagFPS
	}
	if flags.Changed("log-level") {
		s.LogLevel = flagLogLevel
	}
	if flags.Changed("journal") {
		s.JournalPath = config.ExpandHome(flagJournal)
	}
	return s, nil
}

// newLogger builds the process logger at the configured level.
func newLogger(w *os.File, level, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// openJournal opens the capture journal. Captures still work without it.
func openJournal(path string, logger *log.Logger) *storage.Store {
	if path == "" {
		return nil
	}
	store, err := storage.Open(path)
	if err != nil {
		logger.Warn("could not open capture journal", "path", path, "error", err)
		return nil
	}
	return store
}
