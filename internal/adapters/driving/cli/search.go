package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/core/services"
)

var (
	searchPages int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search GitHub repositories",
	Long: `Searches GitHub repositories and prints the matches.

The query uses GitHub search syntax, e.g. "tokio language:rust stars:>100".
Results are loaded page by page exactly as the interactive browser does when
you scroll to the bottom; --pages controls how many pages are loaded.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchPages, "pages", "n", 1, "number of pages to load")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := requireSearchService(); err != nil {
		return err
	}

	state, err := searchService.Collect(cmd.Context(), args[0], searchPages)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	vm := services.Present(state)
	if searchJSON {
		return outputSearchJSON(cmd, vm.Rows)
	}

	return outputSearchTable(cmd, vm)
}

func outputSearchJSON(cmd *cobra.Command, rows []domain.RepositoryRow) error {
	type row struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		FullName    string `json:"full_name"`
		URL         string `json:"url"`
		Description string `json:"description,omitempty"`
	}

	out := make([]row, len(rows))
	for i := range rows {
		out[i] = row{
			ID:       rows[i].ID,
			Name:     rows[i].Title,
			FullName: rows[i].FullName,
			URL:      rows[i].URL,
		}
		if !rows[i].DescriptionIsPlaceholder {
			out[i].Description = rows[i].Description
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, vm domain.ViewModel) error {
	if len(vm.Rows) == 0 {
		cmd.Println("No repositories found.")
		return nil
	}

	cmd.Printf("Results for %q:\n", vm.Title)
	cmd.Println()
	for i := range vm.Rows {
		// Format: [N] full/name
		cmd.Printf("  [%d] %s\n", i+1, vm.Rows[i].FullName)
		cmd.Printf("      %s\n", vm.Rows[i].Description)
		cmd.Printf("      %s\n", vm.Rows[i].URL)
		cmd.Println()
	}
	cmd.Printf("%d repositories\n", len(vm.Rows))

	return nil
}
