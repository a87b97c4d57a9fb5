package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/reposearch-cli/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `View and update settings in the reposearch config file.

Known keys:
  api.base_url             API root (default https://api.github.com)
  api.token                access token for authenticated search
  api.requests_per_second  client-side request rate
  api.timeout_seconds      per-request timeout
  search.page_size         results per page (1-100)
  search.debounce_ms       scroll-to-bottom debounce window
  search.cooldown_ms       delay before the next page may load

Command-line flags take precedence over the file.`,
	// Only the store is needed, so a broken config can still be repaired.
	PersistentPreRunE: openConfigStore,
	RunE:              runConfigGet,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one or all settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change a setting",
	Long: `Change a setting and save the config file.

When the value of api.token is omitted it is read from the terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func requireConfigStore() error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := requireConfigStore(); err != nil {
		return err
	}

	if len(args) == 1 {
		key := args[0]
		if !services.IsConfigKey(key) {
			return fmt.Errorf("unknown key %q", key)
		}
		value, ok := configStore.Get(key)
		if !ok {
			cmd.Println("(not set)")
			return nil
		}
		cmd.Println(formatValue(key, value))
		return nil
	}

	for _, key := range services.ConfigKeys() {
		value, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("%-24s (not set)\n", key)
			continue
		}
		cmd.Printf("%-24s %s\n", key, formatValue(key, value))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := requireConfigStore(); err != nil {
		return err
	}

	key := args[0]
	if !services.IsConfigKey(key) {
		return fmt.Errorf("unknown key %q", key)
	}

	var raw string
	switch {
	case len(args) == 2:
		raw = args[1]
	case key == services.KeyToken:
		cmd.Print("Enter token: ")
		raw = readPassword()
		cmd.Println()
	default:
		return fmt.Errorf("a value is required for %s", key)
	}

	if raw == "" {
		return fmt.Errorf("empty value for %s", key)
	}

	value := parseValue(key, raw)
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	cmd.Printf("%s = %s\n", key, formatValue(key, value))
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if err := requireConfigStore(); err != nil {
		return err
	}
	cmd.Println(configStore.Path())
	return nil
}

// parseValue converts raw into the most specific TOML type. The token is
// always kept as a string.
func parseValue(key, raw string) any {
	if key == services.KeyToken || key == services.KeyBaseURL {
		return raw
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

func formatValue(key string, value any) string {
	if key == services.KeyToken {
		s, _ := value.(string)
		return maskToken(s)
	}
	return fmt.Sprint(value)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
