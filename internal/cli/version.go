package cli

import (
	"fmt"
	"runtime"

	"github.com/keshon/jukebox/internal/version"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	// no config needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if jsonOut {
			return printJSON(out, map[string]string{
				"app":        version.AppName,
				"version":    version.Version,
				"build_date": version.BuildDate,
				"go_version": version.GoVersion,
				"os":         runtime.GOOS,
				"arch":       runtime.GOARCH,
			})
		}
		fmt.Fprintln(out, version.String())
		return nil
	},
}
