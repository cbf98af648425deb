package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pgvector/pgvector-go"
)

// ErrNotInitialized indicates a Store operation was called before
// EnsureCollection. This is a programming error in the caller, not a
// recoverable runtime condition.
var ErrNotInitialized = errors.New("collection not initialized")

// ingestExtensions are the file suffixes considered text-bearing.
var ingestExtensions = []string{".txt", ".pdf"}

// Store manages one named document collection with vector search.
type Store struct {
	queries        Querier
	embedder       Embedder
	logger         *slog.Logger
	collectionName string
	collectionID   string
}

// NewStore creates a Store for the named collection. The collection is not
// touched until EnsureCollection is called.
func NewStore(querier Querier, embedder Embedder, collectionName string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		queries:        querier,
		embedder:       embedder,
		logger:         logger,
		collectionName: collectionName,
	}
}

// Initialized reports whether EnsureCollection has completed.
func (s *Store) Initialized() bool { return s.collectionID != "" }

// EnsureCollection loads the collection by name, creating it if absent.
// A freshly created collection is bulk-loaded from sourceDir. Returns
// whether the collection was created by this call.
func (s *Store) EnsureCollection(ctx context.Context, sourceDir string) (bool, error) {
	id, ok, err := s.queries.GetCollection(ctx, s.collectionName)
	if err != nil {
		return false, err
	}
	if ok {
		s.collectionID = id
		s.logger.Info("collection loaded", "collection", s.collectionName)
		return false, nil
	}

	id, err = s.queries.CreateCollection(ctx, s.collectionName)
	if err != nil {
		return false, err
	}
	s.collectionID = id
	s.logger.Info("collection created", "collection", s.collectionName)

	if _, err := s.Ingest(ctx, sourceDir); err != nil {
		return true, fmt.Errorf("bulk-loading new collection: %w", err)
	}
	return true, nil
}

// Ingest loads text-bearing files from dir into the collection, skipping
// documents whose ID (filename) already exists and files that cannot be
// decoded as text. All staged documents are submitted in one batch call.
// Returns the number of newly added documents.
func (s *Store) Ingest(ctx context.Context, dir string) (int, error) {
	if !s.Initialized() {
		return 0, fmt.Errorf("ingesting %q: %w", dir, ErrNotInitialized)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("knowledge directory not found", "dir", dir)
			return 0, nil
		}
		return 0, fmt.Errorf("reading directory %q: %w", dir, err)
	}

	var staged []Document
	for _, entry := range entries {
		if entry.IsDir() || !hasIngestExtension(entry.Name()) {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			s.logger.Warn("skipping unreadable file", "file", entry.Name(), "error", err)
			continue
		}
		if !utf8.Valid(raw) {
			s.logger.Warn("skipping file with undecodable content", "file", entry.Name())
			continue
		}

		exists, err := s.queries.DocumentExists(ctx, s.collectionID, entry.Name())
		if err != nil {
			s.logger.Warn("skipping file, existence check failed", "file", entry.Name(), "error", err)
			continue
		}
		if exists {
			s.logger.Debug("document already exists, skipping", "id", entry.Name())
			continue
		}

		staged = append(staged, Document{ID: entry.Name(), Content: string(raw)})
	}

	if len(staged) == 0 {
		s.logger.Info("no new documents to load", "dir", dir)
		return 0, nil
	}

	embeddings := make([]pgvector.Vector, len(staged))
	for i, doc := range staged {
		vec, err := s.embedder.Embed(ctx, doc.Content)
		if err != nil {
			return 0, fmt.Errorf("embedding document %q: %w", doc.ID, err)
		}
		embeddings[i] = pgvector.NewVector(vec)
	}

	if err := s.queries.InsertDocuments(ctx, s.collectionID, staged, embeddings); err != nil {
		return 0, fmt.Errorf("adding documents to collection: %w", err)
	}

	s.logger.Info("loaded new documents", "dir", dir, "count", len(staged))
	return len(staged), nil
}

// Exists reports whether a document ID is present in the collection.
func (s *Store) Exists(ctx context.Context, docID string) (bool, error) {
	if !s.Initialized() {
		return false, fmt.Errorf("checking document %q: %w", docID, ErrNotInitialized)
	}
	return s.queries.DocumentExists(ctx, s.collectionID, docID)
}

// Retrieve returns up to k document contents ranked by semantic similarity
// to query, most relevant first. Failures (uninitialized collection,
// embedding or query errors) are logged and yield an empty result; Retrieve
// never returns an error to the caller.
func (s *Store) Retrieve(ctx context.Context, query string, k int) []string {
	if !s.Initialized() {
		s.logger.Error("retrieve called before collection initialization")
		return nil
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Error("query embedding failed", "error", err)
		return nil
	}

	contents, err := s.queries.SearchDocuments(ctx, s.collectionID, pgvector.NewVector(vec), k)
	if err != nil {
		s.logger.Error("retrieval query failed", "error", err)
		return nil
	}

	s.logger.Debug("retrieved documents", "query", query, "count", len(contents))
	return contents
}

func hasIngestExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range ingestExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
