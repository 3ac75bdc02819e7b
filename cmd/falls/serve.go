package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/koyoi/falls/internal/platform/tui"
	"github.com/koyoi/falls/internal/system"
)

var (
	flagSSHAddr      string
	flagHostKey      string
	flagIdleTimeout  int
	flagAllowCapture bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run headless and serve the monitor over SSH",
	Long: `Run the director headless and start an SSH server where every
connection gets a live monitor of the shared director.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.falls/host_key

Examples:
  falls serve                       # Listen on :23235
  falls serve --ssh :2222           # Listen on port 2222
  falls serve --allow-capture       # Let viewers press c to capture

Connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.Address, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().BoolVar(&flagAllowCapture, "allow-capture", false, "Allow SSH viewers to trigger captures")
}

func runServe(cmd *cobra.Command, _ []string) error {
	s, err := startSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	sampler, err := system.NewSampler()
	if err != nil {
		s.logger.Warn("process stats unavailable", "error", err)
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.AllowCapture = flagAllowCapture

	server, err := tui.NewSSHServer(cfg, s.hub, sampler, s.logger.WithPrefix("falls-ssh"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.hub.Run(ctx, s.settings.TickRate)
	})
	g.Go(func() error {
		return server.ListenAndServe(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
