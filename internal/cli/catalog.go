package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/jukebox/internal/catalog"
	"github.com/keshon/jukebox/internal/music/track"

	"github.com/spf13/cobra"
)

var catalogLimit int

var catalogCmd = &cobra.Command{
	Use:   "catalog <spotify url>",
	Short: "List the songs behind a Spotify track, album or playlist link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link, ok := catalog.Classify(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", catalog.ErrUnsupported, args[0])
		}

		client := catalog.New(cfg.SpotifyClientID, cfg.SpotifyClientSecret)
		limit := catalogLimit
		if limit <= 0 {
			limit = cfg.CatalogBatchLimit
		}

		ctx, cancel := context.WithTimeout(commandContext(cmd), 30*time.Second)
		defer cancel()

		col, err := client.FetchItems(ctx, link, limit)
		if err != nil {
			return err
		}
		return printCollection(cmd, col)
	},
}

func init() {
	catalogCmd.Flags().IntVarP(&catalogLimit, "limit", "n", 0, "maximum number of songs (default: catalog_batch_limit)")
}

func printCollection(cmd *cobra.Command, col *catalog.Collection) error {
	out := cmd.OutOrStdout()
	if jsonOut {
		return printJSON(out, col)
	}

	fmt.Fprintf(out, "%s: %s by %s (%d total)\n", col.Kind, col.Title, col.Owner, col.Total)
	for i, it := range col.Items {
		fmt.Fprintf(out, "%3d. %s - %s (%s)\n", i+1, it.Artist, it.Title, track.FormatDuration(it.DurationMs/1000))
	}
	if len(col.Items) < col.Total {
		fmt.Fprintf(out, "... showing %d of %d\n", len(col.Items), col.Total)
	}
	return nil
}
