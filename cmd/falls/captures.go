package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/koyoi/falls/internal/platform/tui"
	"github.com/koyoi/falls/internal/storage"
)

var (
	flagLimit int
	flagPlain bool
	flagClear bool
)

var capturesCmd = &cobra.Command{
	Use:   "captures",
	Short: "Show the capture journal",
	Long: `List captures the director has fired, newest first.

On a terminal an interactive table is shown; use --plain for text output.

Examples:
  falls captures
  falls captures --plain --limit 5
  falls captures --clear`,
	Args: cobra.NoArgs,
	RunE: runCaptures,
}

func init() {
	capturesCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of captures to list")
	capturesCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain text table")
	capturesCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every journal entry")
}

func runCaptures(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	store, err := storage.Open(settings.JournalPath)
	if err != nil {
		return fmt.Errorf("opening capture journal: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearCaptures(); err != nil {
			return err
		}
		fmt.Println("Capture journal cleared.")
		return nil
	}

	fd := int(os.Stdout.Fd())
	if !flagPlain && term.IsTerminal(fd) {
		w, h, err := term.GetSize(fd)
		if err != nil {
			w, h = 80, 24
		}
		return tui.RunJournal(store, w, h)
	}

	entries, err := store.RecentCaptures(flagLimit)
	if err != nil {
		return err
	}
	printCaptures(entries)
	return nil
}

func printCaptures(entries []storage.CaptureEntry) {
	if len(entries) == 0 {
		fmt.Println("No captures recorded yet.")
		return
	}

	fmt.Printf("  %-16s  %-8s  %-11s  %-5s  %s\n", "Date", "Kind", "Size", "Files", "Output")
	fmt.Printf("  %-16s  %-8s  %-11s  %-5s  %s\n", "----", "----", "----", "-----", "------")
	for _, e := range entries {
		output := e.Output
		if len(e.Paths) > 0 {
			output = e.Paths[0]
		}
		if !e.OK() {
			output += "  (failed: " + strings.TrimSpace(e.Error) + ")"
		}
		fmt.Printf("  %-16s  %-8s  %-11s  %-5d  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.Kind,
			fmt.Sprintf("%dx%d", e.Width, e.Height),
			len(e.Paths),
			output,
		)
	}
}
