// Package jobmgr runs named background jobs under a shared parent context
// and lets the owner stop them and wait for them to return.
//
//	jm := jobmgr.NewManager(ctx, func(msg string) { log.Println("[INFO] [Jobs]", msg) })
//	_ = jm.StartAsync("pruner", func(ctx context.Context) error {
//	    storage.RunPruner(ctx, store, time.Hour, 30*24*time.Hour)
//	    return nil
//	})
//	...
//	jm.StopAll()
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	ErrRunning    = errors.New("job is already running")
	ErrNotRunning = errors.New("job is not running")
)

// StatusReporter receives lifecycle messages such as "running:pruner",
// "error:pruner:disk full" and "done:pruner".
type StatusReporter func(string)

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager tracks running jobs. It is safe for concurrent use.
type Manager struct {
	parent   context.Context
	reporter StatusReporter

	mu   sync.Mutex
	jobs map[string]*job
	wg   sync.WaitGroup
}

// NewManager returns a manager whose jobs are cancelled along with parent.
// reporter may be nil.
func NewManager(parent context.Context, reporter StatusReporter) *Manager {
	return &Manager{
		parent:   parent,
		reporter: reporter,
		jobs:     make(map[string]*job),
	}
}

// StartAsync runs runner in its own goroutine. Names are unique among
// running jobs; a finished job's name can be reused.
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrRunning, name)
	}

	ctx, cancel := context.WithCancel(m.parent)
	j := &job{cancel: cancel, done: make(chan struct{})}
	m.jobs[name] = j
	m.wg.Add(1)

	go func() {
		defer m.wg.Done()
		defer close(j.done)
		defer cancel()

		m.report("running:" + name)
		if err := runner(ctx); err != nil && !errors.Is(err, context.Canceled) {
			m.report("error:" + name + ":" + err.Error())
		} else {
			m.report("done:" + name)
		}

		m.mu.Lock()
		if m.jobs[name] == j {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()

	return nil
}

// Stop cancels a job and waits for it to return.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	j, ok := m.jobs[name]
	if ok {
		delete(m.jobs, name)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRunning, name)
	}
	j.cancel()
	<-j.done
	return nil
}

// StopAll cancels every job and waits for all of them.
func (m *Manager) StopAll() {
	m.mu.Lock()
	for name, j := range m.jobs {
		j.cancel()
		delete(m.jobs, name)
	}
	m.mu.Unlock()
	m.wg.Wait()
}

// List returns the names of running jobs, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Status is List for humans.
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}

func (m *Manager) report(s string) {
	if m.reporter != nil {
		m.reporter(s)
	}
}
