// Package tools provides the explicit tool registry for the agent.
//
// Tools are pure request/response: one string in, one string out. The
// registry is built once at startup by RegisterBuiltins; there is no
// dynamic discovery or runtime code loading. Dispatch never raises: an
// unknown name, a tool error, and a tool panic all convert into
// descriptive strings returned to the caller.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
)

// Func is an executable tool capability.
type Func func(ctx context.Context, input string) (string, error)

// Registry maps tool names to capabilities. Safe for concurrent use,
// though in practice all registration happens at startup.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Func
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		tools:  make(map[string]Func),
		logger: logger,
	}
}

// Register adds a tool under name, replacing any previous registration.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = fn
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch executes the named tool. The result is always a string: unknown
// tools yield a "not found" message, tool errors and panics are caught,
// logged with full detail, and converted into descriptive error strings.
func (r *Registry) Dispatch(ctx context.Context, name, input string) (result string) {
	r.mu.RLock()
	fn, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		r.logger.Warn("tool not found", "tool", name)
		return fmt.Sprintf("Tool %q not found.", name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool panicked",
				"tool", name,
				"panic", rec,
				"stack", string(debug.Stack()))
			result = fmt.Sprintf("Error executing tool %q: internal failure", name)
		}
	}()

	out, err := fn(ctx, input)
	if err != nil {
		r.logger.Error("tool failed", "tool", name, "error", err)
		return fmt.Sprintf("Error executing tool %q: %v", name, err)
	}

	r.logger.Debug("tool dispatched", "tool", name)
	return out
}
