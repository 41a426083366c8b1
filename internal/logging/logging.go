package logging

import (
	"bytes"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	errorColor = color.New(color.FgHiRed)
	warnColor  = color.New(color.FgHiYellow)
	debugColor = color.New(color.FgHiBlack)

	debug atomic.Bool
)

type Options struct {
	// File enables a rotated copy of the log. Empty disables it.
	File  string
	Debug bool
}

// Setup points the standard logger at stdout (colored by level tag) and,
// when configured, a rotated log file. The returned closer flushes the file.
func Setup(opts Options) io.Closer {
	debug.Store(opts.Debug)

	var file io.WriteCloser
	out := io.Writer(&colorWriter{w: color.Output})
	if opts.File != "" {
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out = io.MultiWriter(out, file)
	}

	log.SetOutput(out)
	log.SetFlags(log.LstdFlags)
	return closerFunc(func() error {
		log.SetOutput(os.Stderr)
		if file != nil {
			return file.Close()
		}
		return nil
	})
}

// Debugf logs only when debug output is on.
func Debugf(format string, v ...any) {
	if debug.Load() {
		log.Printf("[DEBUG] "+format, v...)
	}
}

func DebugEnabled() bool {
	return debug.Load()
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// colorWriter paints whole lines by their level tag. The log package hands
// it one complete line per Write.
type colorWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *colorWriter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var col *color.Color
	switch {
	case bytes.Contains(p, []byte("[ERR")), bytes.Contains(p, []byte("[FATAL]")):
		col = errorColor
	case bytes.Contains(p, []byte("[WARN]")):
		col = warnColor
	case bytes.Contains(p, []byte("[DEBUG]")):
		col = debugColor
	}
	if col == nil {
		return c.w.Write(p)
	}

	line := bytes.TrimRight(p, "\n")
	if _, err := col.Fprintln(c.w, string(line)); err != nil {
		return 0, err
	}
	return len(p), nil
}
