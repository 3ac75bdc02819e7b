package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/koyoi/falls/internal/config"
	"github.com/koyoi/falls/internal/director"
	"github.com/koyoi/falls/internal/platform/tui"
	"github.com/koyoi/falls/internal/storage"
	"github.com/koyoi/falls/internal/system"
	"github.com/koyoi/falls/internal/viewport"
)

var flagHeadless bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch the runtime directory and drive the simulation",
	Long: `Start the director on the watched directory.

On a terminal a live monitor is shown and drives the tick loop; otherwise
(or with --headless) the director ticks on its own until interrupted.

Monitor keys:
  c    - Capture now (re-uses the last capture.json request)
  ?    - Toggle help
  q    - Quit

Examples:
  falls run
  falls run --dir ./runtime --out ./renders
  falls run --headless --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Never start the terminal monitor")
}

// session is a started director and the resources it holds.
type session struct {
	settings config.Settings
	logger   *log.Logger
	store    *storage.Store
	hub      *tui.Hub
	logFile  *os.File
}

func (s *session) Close() {
	if s.store != nil {
		s.store.Close()
	}
	if s.logFile != nil {
		s.logFile.Close()
	}
}

// startSession loads settings, wires the director to the preview renderer
// and journal, and starts it. interactive sends logs to a file so they do
// not tear the monitor.
func startSession(cmd *cobra.Command, interactive bool) (*session, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	s := &session{settings: settings}
	out := os.Stderr
	if interactive {
		logPath := filepath.Join(filepath.Dir(settings.JournalPath), "falls.log")
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err == nil {
			if f, ferr := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); ferr == nil {
				s.logFile = f
				out = f
			}
		}
	}
	s.logger = newLogger(out, settings.LogLevel, "falls")

	if err := os.MkdirAll(settings.WatchDir, 0o755); err != nil {
		s.Close()
		return nil, fmt.Errorf("cannot create watch directory: %w", err)
	}

	preview := viewport.New(settings.Viewport.Width, settings.Viewport.Height)
	opts := director.Options{
		WatchDir:  settings.WatchDir,
		ResRoot:   settings.ResRoot,
		OutputDir: settings.OutputDir,
		Applier:   preview,
		Frames:    preview,
		Logger:    s.logger,
	}
	if s.store = openJournal(settings.JournalPath, s.logger); s.store != nil {
		opts.Journal = s.store
	}

	d := director.New(opts)
	d.Start()
	s.hub = tui.NewHub(d)
	return s, nil
}

func runRun(cmd *cobra.Command, _ []string) error {
	interactive := !flagHeadless && term.IsTerminal(int(os.Stdout.Fd()))

	s, err := startSession(cmd, interactive)
	if err != nil {
		return err
	}
	defer s.Close()

	if interactive {
		sampler, err := system.NewSampler()
		if err != nil {
			s.logger.Warn("process stats unavailable", "error", err)
		}
		return tui.RunMonitor(s.hub, sampler, tui.MonitorOptions{
			TickRate:     s.settings.TickRate,
			Drive:        true,
			AllowCapture: true,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("running headless", "fps", s.settings.TickRate)
	if err := s.hub.Run(ctx, s.settings.TickRate); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	s.logger.Info("stopped", "ticks", s.hub.Snapshot().Tick)
	return nil
}
