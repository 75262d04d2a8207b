package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// knownKeys documents the settings the rest of the CLI reads.
var knownKeys = []string{
	"base_url",
	"fetcher",
	"headless",
	"max_depth",
	"rate_limit_rps",
	"chunk_size",
	"chunk_overlap",
	"embedding_provider",
	"embedding_model",
	"llm_provider",
	"chat_model",
	"top_k",
	"temperature",
	"data_dir",
	"ollama_base_url",
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long:  `View and configure crawling, chunking and model settings.`,
	RunE:  runSettingsList,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current settings",
	RunE:  runSettingsList,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Values are stored typed: booleans, integers
and floats are recognised, everything else is a string.

Known keys: ` + strings.Join(knownKeys, ", "),
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key",
	Short: "Store the OpenAI API key",
	Long:  `Prompts for the OpenAI API key without echoing it and stores it in the config file.`,
	RunE:  runSettingsAPIKey,
}

func init() {
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsAPIKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsList(cmd *cobra.Command, _ []string) error {
	cmd.Println("Current Settings")
	cmd.Println("================")

	keys := make([]string, 0, len(knownKeys)+1)
	keys = append(keys, knownKeys...)
	keys = append(keys, "openai_api_key")
	sort.Strings(keys)

	for _, key := range keys {
		val, ok := config.Get(key)
		if !ok {
			continue
		}
		if key == "openai_api_key" {
			if s, isStr := val.(string); isStr {
				val = maskAPIKey(s)
			}
		}
		cmd.Printf("  %s = %v\n", key, val)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	if err := config.Set(key, parseValue(raw)); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}

	cmd.Printf("Set %s = %s\n", key, raw)
	return nil
}

func runSettingsAPIKey(cmd *cobra.Command, _ []string) error {
	cmd.Print("Enter API key: ")
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key must not be empty")
	}

	if err := config.Set("openai_api_key", apiKey); err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}

	cmd.Printf("API key stored (%s)\n", maskAPIKey(apiKey))
	return nil
}

// parseValue keeps config values typed so readers get the type they expect.
func parseValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
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

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
