// Package cmd is the transport-agnostic command core: a command has a name,
// a description and Run(ctx, invocation). Adapters (chat prefix, CLI) decide
// how invocations are produced.
package cmd

import "context"

// Invocation carries parsed arguments and an adapter payload in Data
// (for Discord, the message context).
type Invocation struct {
	Name string
	Args []string
	Data any
}

// Command is the universal contract: identity plus execution.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}

// AliasProvider is implemented by commands reachable under extra names.
type AliasProvider interface {
	Aliases() []string
}

// UsageProvider is implemented by commands that take arguments.
type UsageProvider interface {
	Usage() string
}

// Aliases returns c's aliases, looking through wrappers.
func Aliases(c Command) []string {
	if ap, ok := Root(c).(AliasProvider); ok {
		return ap.Aliases()
	}
	return nil
}

// Usage returns c's argument synopsis, or "".
func Usage(c Command) string {
	if up, ok := Root(c).(UsageProvider); ok {
		return up.Usage()
	}
	return ""
}
