package version

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

const (
	AppName        = "Jukebox"
	AppDescription = "A Discord music bot that plays YouTube audio and Spotify links in voice channels."
)

// Set at build time with -ldflags "-X github.com/keshon/jukebox/internal/version.Version=...".
var (
	Version   = "dev"
	BuildDate = ""
	GoVersion = runtime.Version()
)

// String renders a one-line build summary.
func String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", AppName, Version)
	if BuildDate != "" {
		if t, err := time.Parse(time.RFC3339, BuildDate); err == nil {
			fmt.Fprintf(&b, " (built %s)", t.Format("2006-01-02"))
		}
	}
	fmt.Fprintf(&b, " go%s", strings.TrimPrefix(GoVersion, "go"))
	return b.String()
}
