package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/keshon/jukebox/internal/music/resolver"
	"github.com/keshon/jukebox/internal/music/track"

	"github.com/spf13/cobra"
)

// Resolver is the part of resolver.Chain the command needs.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*resolver.ResolvedTrack, error)
}

var newResolver = func(proxyURL string) Resolver {
	return resolver.NewChain(proxyURL)
}

var resolveTimeout = 60 * time.Second

var resolveCmd = &cobra.Command{
	Use:   "resolve <query or url>",
	Short: "Find a song and print its stream details",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(commandContext(cmd), resolveTimeout)
		defer cancel()

		query := strings.Join(args, " ")
		rt, err := newResolver(cfg.YouTubeProxy).Resolve(ctx, query)
		if err != nil {
			return describeResolveError(err)
		}
		return printResolved(cmd, rt)
	},
}

func describeResolveError(err error) error {
	switch {
	case resolver.IsKind(err, resolver.NotFound):
		return fmt.Errorf("no results: %w", err)
	case resolver.IsKind(err, resolver.Unplayable):
		return fmt.Errorf("found but not playable: %w", err)
	default:
		return err
	}
}

func printResolved(cmd *cobra.Command, rt *resolver.ResolvedTrack) error {
	out := cmd.OutOrStdout()
	if jsonOut {
		return printJSON(out, rt)
	}

	fmt.Fprintf(out, "%s (%s)\n", rt.Title, track.FormatDuration(rt.DurationSeconds))
	fmt.Fprintf(out, "  source: %s\n", rt.SourceRef)
	if verbose {
		fmt.Fprintf(out, "  thumbnail: %s\n", rt.ThumbnailURL)
		fmt.Fprintf(out, "  stream: %s\n", rt.StreamRef)
	}
	return nil
}
