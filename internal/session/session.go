// Package session persists conversation history across process restarts.
//
// State is a single JSON document:
//
//	{"conversation_history": [{"query": "...", "answer": "..."}, ...]}
//
// Array order is chronological. The in-memory history owned by the agent
// and the on-disk session are kept consistent only by explicit Save/Load
// calls; there is no automatic sync.
//
// Writes are guarded by an advisory file lock so two processes cannot
// interleave, but the write itself is overwrite-in-place, not an atomic
// rename: a crash mid-write can corrupt the file. Documented risk.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/gofrs/flock"
)

// Turn is one completed query/answer exchange. Turns are appended, never
// mutated, ordered by occurrence.
type Turn struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// sessionFile is the on-disk shape.
type sessionFile struct {
	ConversationHistory []Turn `json:"conversation_history"`
}

// Store reads and writes the session file.
type Store struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// NewStore creates a Store for the given file path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
	}
}

// Path returns the session file location.
func (s *Store) Path() string { return s.path }

// Save serializes the full history, overwriting any previous session file.
func (s *Store) Save(history []Turn) error {
	if history == nil {
		history = []Turn{}
	}

	data, err := json.MarshalIndent(sessionFile{ConversationHistory: history}, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking session file: %w", err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("unlocking session file", "error", err)
		}
	}()

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	s.logger.Info("session saved", "path", s.path, "turns", len(history))
	return nil
}

// Load restores the history from disk. A missing file yields an empty
// history, as does a malformed one (logged); Load never fails.
func (s *Store) Load() []Turn {
	if err := s.lock.RLock(); err != nil {
		s.logger.Error("locking session file for read", "error", err)
		return []Turn{}
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("unlocking session file", "error", err)
		}
	}()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("session file not found, starting a new session", "path", s.path)
		} else {
			s.logger.Error("reading session file", "path", s.path, "error", err)
		}
		return []Turn{}
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		s.logger.Error("malformed session file, starting a new session", "path", s.path, "error", err)
		return []Turn{}
	}

	s.logger.Info("session loaded", "path", s.path, "turns", len(f.ConversationHistory))
	return f.ConversationHistory
}
