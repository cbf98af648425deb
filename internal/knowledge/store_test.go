package knowledge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pgvector/pgvector-go"

	"github.com/grounder-ai/grounder/internal/log"
)

// fakeQuerier is an in-memory Querier for tests.
type fakeQuerier struct {
	collections map[string]string   // name -> id
	docs        map[string][]Document // collection id -> ordered documents
	searchErr   error
	existsErr   error
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		collections: make(map[string]string),
		docs:        make(map[string][]Document),
	}
}

func (f *fakeQuerier) GetCollection(_ context.Context, name string) (string, bool, error) {
	id, ok := f.collections[name]
	return id, ok, nil
}

func (f *fakeQuerier) CreateCollection(_ context.Context, name string) (string, error) {
	id := fmt.Sprintf("col-%d", len(f.collections)+1)
	f.collections[name] = id
	return id, nil
}

func (f *fakeQuerier) DocumentExists(_ context.Context, collectionID, docID string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, doc := range f.docs[collectionID] {
		if doc.ID == docID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeQuerier) InsertDocuments(_ context.Context, collectionID string, docs []Document, embeddings []pgvector.Vector) error {
	if len(docs) != len(embeddings) {
		return fmt.Errorf("count mismatch")
	}
	f.docs[collectionID] = append(f.docs[collectionID], docs...)
	return nil
}

func (f *fakeQuerier) SearchDocuments(_ context.Context, collectionID string, _ pgvector.Vector, k int) ([]string, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []string
	for _, doc := range f.docs[collectionID] {
		if len(out) == k {
			break
		}
		out = append(out, doc.Content)
	}
	return out, nil
}

// fakeEmbedder returns a fixed-size vector derived from text length.
type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1, 2}, nil
}

func writeKnowledgeDir(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestStore() (*Store, *fakeQuerier, *fakeEmbedder) {
	q := newFakeQuerier()
	e := &fakeEmbedder{}
	return NewStore(q, e, "my_collection", log.NewNop()), q, e
}

func TestEnsureCollectionLoadsExisting(t *testing.T) {
	store, q, _ := newTestStore()
	q.collections["my_collection"] = "col-existing"

	created, err := store.EnsureCollection(context.Background(), "does-not-matter")
	if err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}
	if created {
		t.Error("expected created=false for existing collection")
	}
	if !store.Initialized() {
		t.Error("store should be initialized")
	}
}

func TestEnsureCollectionCreatesAndBulkLoads(t *testing.T) {
	store, q, _ := newTestStore()
	dir := writeKnowledgeDir(t, map[string][]byte{
		"a.txt": []byte("Paris is the capital of France."),
		"b.txt": []byte("Berlin is the capital of Germany."),
	})

	created, err := store.EnsureCollection(context.Background(), dir)
	if err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}
	if got := len(q.docs[q.collections["my_collection"]]); got != 2 {
		t.Errorf("bulk load added %d documents, want 2", got)
	}
}

func TestIngestIdempotent(t *testing.T) {
	store, _, _ := newTestStore()
	dir := writeKnowledgeDir(t, map[string][]byte{
		"a.txt": []byte("alpha"),
		"b.txt": []byte("beta"),
	})

	if _, err := store.EnsureCollection(context.Background(), dir); err != nil {
		t.Fatal(err)
	}

	// Second pass over the same directory must add nothing.
	count, err := store.Ingest(context.Background(), dir)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if count != 0 {
		t.Errorf("second ingest added %d documents, want 0", count)
	}
}

func TestIngestSkipsNonTextAndInvalidFiles(t *testing.T) {
	store, q, _ := newTestStore()
	dir := writeKnowledgeDir(t, map[string][]byte{
		"keep.txt":   []byte("kept"),
		"notes.md":   []byte("wrong extension"),
		"binary.txt": {0xff, 0xfe, 0x00, 0x80},
	})
	if err := os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := store.EnsureCollection(context.Background(), dir); err != nil {
		t.Fatal(err)
	}

	docs := q.docs[q.collections["my_collection"]]
	if len(docs) != 1 || docs[0].ID != "keep.txt" {
		t.Errorf("ingested %v, want only keep.txt", docs)
	}
}

func TestIngestMissingDirectory(t *testing.T) {
	store, q, _ := newTestStore()
	q.collections["my_collection"] = "col-1"
	if _, err := store.EnsureCollection(context.Background(), ""); err != nil {
		t.Fatal(err)
	}

	count, err := store.Ingest(context.Background(), filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("missing directory must not error: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestIngestBeforeInitialization(t *testing.T) {
	store, _, _ := newTestStore()
	_, err := store.Ingest(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("got %v, want ErrNotInitialized", err)
	}
}

func TestIngestEmbedFailure(t *testing.T) {
	store, q, e := newTestStore()
	q.collections["my_collection"] = "col-1"
	if _, err := store.EnsureCollection(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	e.err = errors.New("embedder down")

	dir := writeKnowledgeDir(t, map[string][]byte{"a.txt": []byte("text")})
	if _, err := store.Ingest(context.Background(), dir); err == nil {
		t.Error("expected error when embedding fails")
	}
}

func TestRetrieveBeforeInitializationReturnsEmpty(t *testing.T) {
	store, _, _ := newTestStore()
	if got := store.Retrieve(context.Background(), "query", 4); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestRetrieveQueryFailureReturnsEmpty(t *testing.T) {
	store, q, _ := newTestStore()
	q.collections["my_collection"] = "col-1"
	if _, err := store.EnsureCollection(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	q.searchErr = errors.New("index offline")

	if got := store.Retrieve(context.Background(), "query", 4); len(got) != 0 {
		t.Errorf("got %v, want empty on query failure", got)
	}
}

func TestRetrieveBound(t *testing.T) {
	store, _, _ := newTestStore()
	dir := writeKnowledgeDir(t, map[string][]byte{
		"a.txt": []byte("one"),
		"b.txt": []byte("two"),
		"c.txt": []byte("three"),
	})
	if _, err := store.EnsureCollection(context.Background(), dir); err != nil {
		t.Fatal(err)
	}

	if got := store.Retrieve(context.Background(), "q", 2); len(got) > 2 {
		t.Errorf("retrieved %d documents, want <= 2", len(got))
	}
	// k larger than the collection: bounded by document count.
	if got := store.Retrieve(context.Background(), "q", 10); len(got) != 3 {
		t.Errorf("retrieved %d documents, want 3", len(got))
	}
}

func TestExists(t *testing.T) {
	store, _, _ := newTestStore()
	dir := writeKnowledgeDir(t, map[string][]byte{"a.txt": []byte("alpha")})
	if _, err := store.EnsureCollection(context.Background(), dir); err != nil {
		t.Fatal(err)
	}

	ok, err := store.Exists(context.Background(), "a.txt")
	if err != nil || !ok {
		t.Errorf("Exists(a.txt) = %v, %v; want true, nil", ok, err)
	}
	ok, err = store.Exists(context.Background(), "missing.txt")
	if err != nil || ok {
		t.Errorf("Exists(missing.txt) = %v, %v; want false, nil", ok, err)
	}
}
