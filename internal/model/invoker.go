// Package model wraps the backend client in the invoker contract the
// orchestrator relies on: completions never fail, they degrade. Any
// transport, status, or timeout error is converted into a human-readable
// string prefixed with ErrorPrefix and returned as if it were the answer,
// keeping the loop responsive when the backend is unreachable.
package model

import (
	"context"
	"log/slog"
	"time"
)

// ErrorPrefix is the fixed marker prepended to degraded completion strings.
const ErrorPrefix = "Error generating completion: "

// Backend produces raw completions. *ollama.Client satisfies this.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Invoker issues completion calls with a uniform timeout and degradation
// contract. Safe for concurrent use.
type Invoker struct {
	backend Backend
	timeout time.Duration
	logger  *slog.Logger
}

// NewInvoker creates an Invoker. timeout bounds each backend call.
func NewInvoker(backend Backend, timeout time.Duration, logger *slog.Logger) *Invoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{
		backend: backend,
		timeout: timeout,
		logger:  logger,
	}
}

// Complete sends the prompt and blocks until a response or timeout. On any
// backend error it returns the degraded error string, never an error.
func (i *Invoker) Complete(ctx context.Context, prompt string) string {
	callCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	response, err := i.backend.Generate(callCtx, prompt)
	if err != nil {
		i.logger.Error("completion failed", "error", err)
		return ErrorPrefix + err.Error()
	}
	return response
}

// CompleteAsync sends the prompt without blocking the caller. The returned
// channel delivers exactly one value, the same degraded-string contract as
// Complete, and is then closed.
func (i *Invoker) CompleteAsync(ctx context.Context, prompt string) <-chan string {
	out := make(chan string, 1)
	go func() {
		defer close(out)
		out <- i.Complete(ctx, prompt)
	}()
	return out
}

// CompleteCustom sends a caller-assembled prompt, bypassing the prompt
// builder. Used for auxiliary tasks such as static review of arbitrary
// text. Identical degradation contract.
func (i *Invoker) CompleteCustom(ctx context.Context, customPrompt string) string {
	return i.Complete(ctx, customPrompt)
}
