package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/keshon/jukebox/internal/config"
	"github.com/keshon/jukebox/internal/logging"
	"github.com/keshon/jukebox/internal/version"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "jukebox-cli",
	Short: "Resolve songs and Spotify links without Discord",
	Long:  version.AppName + " CLI runs the lookup half of the bot from a terminal.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "TOML config file (default: $CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(resolveCmd, catalogCmd, versionCmd)
}

func initConfig() error {
	if cfgFile != "" {
		os.Setenv("CONFIG_FILE", cfgFile)
	}
	// the bot token is not needed here
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = c
	logging.Setup(logging.Options{Debug: verbose || cfg.Debug})
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
