package cmd

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores commands by name and alias. Names are case-insensitive.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	aliases  map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		aliases:  make(map[string]string),
	}
}

// Register adds c under its name and aliases. A name or alias already taken
// by another command is an error.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(c.Name())
	if _, ok := r.lookupLocked(name); ok {
		return fmt.Errorf("command %q already registered", name)
	}
	for _, a := range Aliases(c) {
		if _, ok := r.lookupLocked(strings.ToLower(a)); ok {
			return fmt.Errorf("alias %q of %q already registered", a, name)
		}
	}

	r.commands[name] = c
	for _, a := range Aliases(c) {
		r.aliases[strings.ToLower(a)] = name
	}
	return nil
}

// Get returns the command for a name or alias, or nil.
func (r *Registry) Get(name string) Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, _ := r.lookupLocked(strings.ToLower(name))
	return c
}

func (r *Registry) lookupLocked(name string) (Command, bool) {
	if c, ok := r.commands[name]; ok {
		return c, true
	}
	if target, ok := r.aliases[name]; ok {
		return r.commands[target], true
	}
	return nil, false
}

// GetAll returns all registered commands, sorted by name.
func (r *Registry) GetAll() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}
