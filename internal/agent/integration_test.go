package agent_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/grounder-ai/grounder/internal/agent"
	"github.com/grounder-ai/grounder/internal/log"
	"github.com/grounder-ai/grounder/internal/model"
	"github.com/grounder-ai/grounder/internal/ollama"
	"github.com/grounder-ai/grounder/internal/testutil"
	"github.com/grounder-ai/grounder/internal/tools"
)

type staticRetriever []string

func (s staticRetriever) Retrieve(_ context.Context, _ string, k int) []string {
	if len(s) > k {
		return s[:k]
	}
	return s
}

// Exercises the real HTTP client and invoker against a stub Ollama server,
// with the full directive path in between.
func TestAnswerThroughHTTPBackend(t *testing.T) {
	stub := testutil.NewOllamaStub(t, "I don't know.")
	stub.AddResponse("capital of France", "Paris")
	stub.AddResponse("what is 2+2",
		`TOOL_CALL: {"tool": "calculator", "input": "2+2", "final_answer": "It is"}`)

	client := ollama.NewClient(ollama.Config{
		Host:       stub.URL(),
		Model:      "llama3.2",
		EmbedModel: "nomic-embed-text",
	}, log.NewNop())

	registry := tools.NewRegistry(log.NewNop())
	tools.RegisterBuiltins(registry)

	orch := agent.New(agent.Config{
		Retriever: staticRetriever{"Paris is the capital of France."},
		Invoker:   model.NewInvoker(client, 5*time.Second, log.NewNop()),
		Tools:     registry,
		Logger:    log.NewNop(),
	})

	got := orch.Answer(context.Background(), "What is the capital of France?")
	if got != "Paris" {
		t.Errorf("Answer = %q, want %q", got, "Paris")
	}

	got = orch.Answer(context.Background(), "What is 2+2?")
	if got != "It is\nTool result: 4" {
		t.Errorf("Answer = %q", got)
	}

	prompts := stub.Prompts()
	if len(prompts) != 2 {
		t.Fatalf("backend saw %d prompts, want 2", len(prompts))
	}
	if !strings.Contains(prompts[0], "Paris is the capital of France.") {
		t.Errorf("retrieved context missing from prompt:\n%s", prompts[0])
	}
	if len(orch.History()) != 2 {
		t.Errorf("history length = %d, want 2", len(orch.History()))
	}
}
