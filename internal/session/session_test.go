package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/grounder-ai/grounder/internal/log"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent_session.json")
	store := NewStore(path, log.NewNop())

	history := []Turn{
		{Query: "What is the capital of France?", Answer: "Paris"},
		{Query: "And of Italy?", Answer: "Rome"},
	}
	if err := store.Save(history); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := store.Load()
	if len(got) != len(history) {
		t.Fatalf("Load returned %d turns, want %d", len(got), len(history))
	}
	for i := range history {
		if got[i] != history[i] {
			t.Errorf("turn %d = %+v, want %+v", i, got[i], history[i])
		}
	}
}

func TestSaveWireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent_session.json")
	store := NewStore(path, log.NewNop())

	if err := store.Save([]Turn{{Query: "q", Answer: "a"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var raw map[string][]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("session file is not valid JSON: %v", err)
	}
	turns, ok := raw["conversation_history"]
	if !ok {
		t.Fatalf("missing conversation_history key: %s", data)
	}
	if len(turns) != 1 || turns[0]["query"] != "q" || turns[0]["answer"] != "a" {
		t.Errorf("unexpected wire shape: %s", data)
	}
}

func TestSaveEmptyHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent_session.json")
	store := NewStore(path, log.NewNop())

	if err := store.Save(nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if f.ConversationHistory == nil || len(f.ConversationHistory) != 0 {
		t.Errorf("empty save must produce an empty array, got %s", data)
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does_not_exist.json"), log.NewNop())

	got := store.Load()
	if len(got) != 0 {
		t.Errorf("missing file must load as empty history, got %v", got)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent_session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store := NewStore(path, log.NewNop())
	got := store.Load()
	if len(got) != 0 {
		t.Errorf("malformed file must load as empty history, got %v", got)
	}
}

func TestSaveOverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent_session.json")
	store := NewStore(path, log.NewNop())

	if err := store.Save([]Turn{{Query: "old", Answer: "old"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save([]Turn{{Query: "new", Answer: "new"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := store.Load()
	if len(got) != 1 || got[0].Query != "new" {
		t.Errorf("second save must replace the first, got %v", got)
	}
}
