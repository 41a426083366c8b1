// Package stream turns a stream URL into Opus frames on a Discord voice connection.
package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
)

const (
	Channels   = 2
	SampleRate = 48000
	FrameSize  = 960 // 20ms at 48kHz
	maxBytes   = FrameSize * Channels * 2
)

// Handle controls one running track. Done is closed exactly once when the
// track ends for any reason; Err is nil for a natural end or a Stop.
type Handle interface {
	Pause()
	Resume()
	Stop()
	SetVolume(v float64)
	Done() <-chan struct{}
	Err() error
}

// Waiter is implemented by sources backed by a process, such as ffmpeg.
// Wait reports how the process exited once its output is drained.
type Waiter interface {
	Wait() error
}

// Encoder is satisfied by *gopus.Encoder.
type Encoder interface {
	Encode(pcm []int16, frameSize, maxDataBytes int) ([]byte, error)
}

type playback struct {
	mu       sync.Mutex
	volume   float64
	paused   bool
	resumeCh chan struct{}

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	err      error

	src  io.ReadCloser
	wait func() error
}

// Play pumps s16le PCM from src through enc into out until src ends, ctx is
// cancelled or Stop is called. src is closed when playback ends.
func Play(ctx context.Context, src io.ReadCloser, enc Encoder, out chan<- []byte, volume float64) Handle {
	p := &playback{
		volume: clampVolume(volume),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		src:    &onceCloser{ReadCloser: src},
	}
	if w, ok := src.(Waiter); ok {
		p.wait = w.Wait
	}
	go p.run(ctx, enc, out)
	return p
}

func (p *playback) run(ctx context.Context, enc Encoder, out chan<- []byte) {
	defer close(p.done)
	defer p.src.Close()

	pcmBuf := make([]byte, maxBytes)
	intBuf := make([]int16, FrameSize*Channels)
	frames := 0

	for {
		if !p.waitIfPaused(ctx) {
			return
		}

		_, err := io.ReadFull(p.src, pcmBuf)
		if err != nil {
			if p.stopped(ctx) {
				return
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				// a dead stream URL looks like an empty stream
				if frames == 0 && p.wait != nil {
					if werr := p.wait(); werr != nil {
						p.fail(fmt.Errorf("source produced no audio: %w", werr))
					}
				}
				return
			}
			p.fail(fmt.Errorf("read error: %w", err))
			return
		}

		for i := range intBuf {
			intBuf[i] = int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2]))
		}

		p.mu.Lock()
		vol := p.volume
		p.mu.Unlock()
		ScaleVolume(intBuf, vol)

		opus, err := enc.Encode(intBuf, FrameSize, maxBytes)
		if err != nil {
			p.fail(fmt.Errorf("encode error: %w", err))
			return
		}

		select {
		case out <- opus:
			frames++
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// waitIfPaused blocks while paused. It reports false once playback must end.
func (p *playback) waitIfPaused(ctx context.Context) bool {
	for {
		p.mu.Lock()
		if !p.paused {
			p.mu.Unlock()
			return !p.stopped(ctx)
		}
		ch := p.resumeCh
		p.mu.Unlock()

		select {
		case <-ch:
		case <-p.stop:
			return false
		case <-ctx.Done():
			return false
		}
	}
}

func (p *playback) stopped(ctx context.Context) bool {
	select {
	case <-p.stop:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (p *playback) fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
	log.Printf("[ERR] [Stream] %v", err)
}

func (p *playback) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		p.paused = true
		p.resumeCh = make(chan struct{})
	}
}

func (p *playback) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		p.paused = false
		close(p.resumeCh)
	}
}

// Stop ends playback without waiting for it; watch Done for that.
func (p *playback) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
		_ = p.src.Close()
	})
}

func (p *playback) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = clampVolume(v)
	p.mu.Unlock()
}

func (p *playback) Done() <-chan struct{} {
	return p.done
}

func (p *playback) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

type onceCloser struct {
	io.ReadCloser
	once sync.Once
	err  error
}

func (c *onceCloser) Close() error {
	c.once.Do(func() { c.err = c.ReadCloser.Close() })
	return c.err
}
