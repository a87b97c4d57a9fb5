package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/reposearch-cli/internal/logger"
)

// tuiLogFile receives verbose logs while the TUI owns the terminal.
const tuiLogFile = "reposearch-tui.log"

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive repository browser.

Type a query and press enter to search. Results load page by page as you
scroll; reaching the last row requests the next page.

Controls:
  ↑/k, ↓/j - Navigate results
  G        - Jump to the last row and load more
  r        - Refresh from page 1
  n, Esc   - New search
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if err := requireSearchService(); err != nil {
		return err
	}

	// Stderr belongs to the TUI; send verbose logs to a file instead.
	if logger.IsVerbose() {
		path := filepath.Join(os.TempDir(), tuiLogFile)
		f, err := tea.LogToFile(path, "reposearch")
		if err != nil {
			return fmt.Errorf("opening TUI log: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
		defer logger.SetOutput(os.Stderr)
		cmd.PrintErrf("Logging to %s\n", path)
	}

	app, err := tui.NewApp(tui.NewPorts(liveSearchService(cmd.Context())))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Sessions end with the command context
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
