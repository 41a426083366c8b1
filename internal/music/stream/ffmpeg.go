package stream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

type ffmpegStream struct {
	io.ReadCloser
	cmd    *exec.Cmd
	stderr *bytes.Buffer

	waitOnce sync.Once
	waitErr  error
}

// Wait reaps ffmpeg. A non-zero exit carries the last line ffmpeg logged.
func (s *ffmpegStream) Wait() error {
	s.waitOnce.Do(func() {
		err := s.cmd.Wait()
		if err == nil {
			return
		}
		if msg := lastLine(s.stderr.String()); msg != "" {
			err = fmt.Errorf("ffmpeg: %w: %s", err, msg)
		} else {
			err = fmt.Errorf("ffmpeg: %w", err)
		}
		s.waitErr = err
	})
	return s.waitErr
}

func (s *ffmpegStream) Close() error {
	err := s.ReadCloser.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.Wait()
	return err
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

// OpenPCM starts ffmpeg decoding url to 48kHz stereo s16le on stdout.
// The process dies with ctx.
func OpenPCM(ctx context.Context, ffmpegPath, url string) (io.ReadCloser, error) {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", url,
		"-vn",
		"-f", "s16le",
		"-ar", strconv.Itoa(SampleRate),
		"-ac", strconv.Itoa(Channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	reader, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("command start error: %w", err)
	}

	return &ffmpegStream{ReadCloser: reader, cmd: cmd, stderr: stderr}, nil
}
