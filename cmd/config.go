package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
	Long: `Show the current settings. Use "focus config set <key> <value>" to change
one, e.g. "focus config set focus.work_interval 50m".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		keys := config.Keys()

		if jsonOutput {
			data := make(map[string]string, len(keys))
			for _, key := range keys {
				data[key], _ = app.config.Value(key)
			}
			jsonData, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		for _, key := range keys {
			value, _ := app.config.Value(key)
			fmt.Fprintf(out, "%-32s %s\n", key, value)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		key := strings.ToLower(strings.TrimSpace(args[0]))
		updated, err := config.Set(path, key, args[1])
		if err != nil {
			return err
		}

		value, _ := updated.Value(key)
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s = %s\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
