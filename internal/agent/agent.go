// Package agent runs the retrieval-augmented query loop.
//
// A query moves through retrieval, prompt assembly, model invocation,
// directive parsing and at most one tool dispatch. Every stage either
// produces a value or degrades to a string, so a turn always completes
// with an answer; nothing below the orchestrator raises during a turn.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/grounder-ai/grounder/internal/directive"
	"github.com/grounder-ai/grounder/internal/prompt"
	"github.com/grounder-ai/grounder/internal/session"
)

// EmptyQueryMessage is returned for empty or whitespace-only queries.
// Such queries are rejected before retrieval and never enter history.
const EmptyQueryMessage = "Please provide a message."

// DefaultTopK is the retrieval depth when the caller does not configure one.
const DefaultTopK = 4

// Retriever returns document contents ranked by relevance, most relevant
// first, at most k of them. It degrades to an empty slice, never an error.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) []string
}

// Invoker issues model completions under the degraded-string contract.
// *model.Invoker satisfies this.
type Invoker interface {
	Complete(ctx context.Context, prompt string) string
	CompleteAsync(ctx context.Context, prompt string) <-chan string
	CompleteCustom(ctx context.Context, customPrompt string) string
}

// Dispatcher executes named tools. *tools.Registry satisfies this.
type Dispatcher interface {
	Dispatch(ctx context.Context, name, input string) string
	Names() []string
}

// Orchestrator owns the conversation history and drives query turns.
// Safe for concurrent use; turns are serialized by an internal mutex only
// around history mutation, so concurrent Answer calls may interleave their
// pipeline stages but never corrupt history.
type Orchestrator struct {
	retriever Retriever
	invoker   Invoker
	tools     Dispatcher
	topK      int
	logger    *slog.Logger

	mu      sync.Mutex
	history []session.Turn
}

// Config carries orchestrator construction parameters.
type Config struct {
	Retriever Retriever
	Invoker   Invoker
	Tools     Dispatcher

	// TopK is the retrieval depth; values below 1 fall back to DefaultTopK.
	TopK int

	Logger *slog.Logger
}

// New creates an Orchestrator with an empty history.
func New(cfg Config) *Orchestrator {
	if cfg.TopK < 1 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Orchestrator{
		retriever: cfg.Retriever,
		invoker:   cfg.Invoker,
		tools:     cfg.Tools,
		topK:      cfg.TopK,
		logger:    cfg.Logger,
	}
}

// Answer runs one full query turn and returns the answer string. The turn
// is appended to history unless the query was rejected as empty. Session
// persistence is the caller's responsibility.
func (o *Orchestrator) Answer(ctx context.Context, query string) string {
	if strings.TrimSpace(query) == "" {
		o.logger.Warn("rejected empty query")
		return EmptyQueryMessage
	}

	docs := o.retriever.Retrieve(ctx, query, o.topK)
	o.logger.Info("retrieved context", "query", query, "documents", len(docs))

	p := prompt.Build(query, docs, true, o.tools.Names())
	raw := o.invoker.Complete(ctx, p)

	answer := o.resolve(ctx, raw)
	o.record(query, answer)
	return answer
}

// AnswerAsync runs one query turn without blocking the caller. The returned
// channel delivers exactly one answer string and is then closed. History is
// appended before the value is delivered.
func (o *Orchestrator) AnswerAsync(ctx context.Context, query string) <-chan string {
	out := make(chan string, 1)

	if strings.TrimSpace(query) == "" {
		o.logger.Warn("rejected empty query")
		out <- EmptyQueryMessage
		close(out)
		return out
	}

	go func() {
		defer close(out)

		docs := o.retriever.Retrieve(ctx, query, o.topK)
		o.logger.Info("retrieved context", "query", query, "documents", len(docs))

		p := prompt.Build(query, docs, true, o.tools.Names())
		raw := <-o.invoker.CompleteAsync(ctx, p)

		answer := o.resolve(ctx, raw)
		o.record(query, answer)
		out <- answer
	}()
	return out
}

// resolve turns raw model output into the final answer, dispatching at
// most one tool. A valid directive composes the declared final answer with
// the tool result; anything else passes the raw output through verbatim.
func (o *Orchestrator) resolve(ctx context.Context, raw string) string {
	res := directive.Parse(raw)
	switch res.Kind {
	case directive.KindValid:
		o.logger.Info("dispatching tool", "tool", res.Tool)
		result := o.tools.Dispatch(ctx, res.Tool, res.Input)
		return res.FinalAnswer + "\nTool result: " + result
	case directive.KindMalformed:
		o.logger.Warn("malformed tool directive, using raw output")
		return res.Raw
	default:
		return res.Raw
	}
}

func (o *Orchestrator) record(query, answer string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = append(o.history, session.Turn{Query: query, Answer: answer})
}

// reviewPreamble precedes the code under review in ReviewFile prompts.
const reviewPreamble = "You are a senior software engineer reviewing the following code. " +
	"Identify potential improvements, including but not limited to:\n" +
	"- Code clarity and readability\n" +
	"- Potential bugs or errors\n" +
	"- Efficiency improvements\n" +
	"- Adherence to best practices\n" +
	"- Security vulnerabilities\n\n" +
	"Provide specific suggestions for how to improve the code.\n\n"

// ReviewText asks the model to review the given source text, bypassing
// retrieval and tools. The result is never appended to history.
func (o *Orchestrator) ReviewText(ctx context.Context, code string) string {
	p := reviewPreamble + "```\n" + code + "\n```"
	return o.invoker.CompleteCustom(ctx, p)
}

// ReviewFile reads the file at path and reviews its contents. Read failures
// degrade to "Error: ..." strings.
func (o *Orchestrator) ReviewFile(ctx context.Context, path string) string {
	code, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "Error: File not found."
		}
		return fmt.Sprintf("Error reading file: %v", err)
	}
	return o.ReviewText(ctx, string(code))
}

// History returns a copy of the conversation history in chronological order.
func (o *Orchestrator) History() []session.Turn {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]session.Turn, len(o.history))
	copy(out, o.history)
	return out
}

// SetHistory replaces the conversation history, typically with turns
// restored from a session file.
func (o *Orchestrator) SetHistory(history []session.Turn) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = make([]session.Turn, len(history))
	copy(o.history, history)
}
