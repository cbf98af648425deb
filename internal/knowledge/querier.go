package knowledge

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Querier defines the database operations the Store needs. Defined by the
// consumer (this package) so tests can substitute a mock without a database.
type Querier interface {
	// GetCollection returns the collection ID for name, or ("", false, nil)
	// when no such collection exists.
	GetCollection(ctx context.Context, name string) (id string, ok bool, err error)

	// CreateCollection creates a collection and returns its ID.
	CreateCollection(ctx context.Context, name string) (string, error)

	// DocumentExists reports whether a document ID is present in the collection.
	DocumentExists(ctx context.Context, collectionID, docID string) (bool, error)

	// InsertDocuments adds the documents with their embeddings in one batch.
	InsertDocuments(ctx context.Context, collectionID string, docs []Document, embeddings []pgvector.Vector) error

	// SearchDocuments returns up to k document contents ordered by cosine
	// distance to the query embedding, nearest first.
	SearchDocuments(ctx context.Context, collectionID string, query pgvector.Vector, k int) ([]string, error)
}

// PgxQuerier implements Querier against a pgx connection pool.
type PgxQuerier struct {
	pool *pgxpool.Pool
}

// NewPgxQuerier creates a Querier backed by pool.
func NewPgxQuerier(pool *pgxpool.Pool) *PgxQuerier {
	return &PgxQuerier{pool: pool}
}

func (q *PgxQuerier) GetCollection(ctx context.Context, name string) (string, bool, error) {
	var id string
	err := q.pool.QueryRow(ctx,
		`SELECT id::text FROM collections WHERE name = $1`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up collection %q: %w", name, err)
	}
	return id, true, nil
}

func (q *PgxQuerier) CreateCollection(ctx context.Context, name string) (string, error) {
	var id string
	err := q.pool.QueryRow(ctx,
		`INSERT INTO collections (name) VALUES ($1) RETURNING id::text`, name).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("creating collection %q: %w", name, err)
	}
	return id, nil
}

func (q *PgxQuerier) DocumentExists(ctx context.Context, collectionID, docID string) (bool, error) {
	var exists bool
	err := q.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM documents WHERE collection_id = $1::uuid AND id = $2)`,
		collectionID, docID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking document %q: %w", docID, err)
	}
	return exists, nil
}

func (q *PgxQuerier) InsertDocuments(ctx context.Context, collectionID string, docs []Document, embeddings []pgvector.Vector) error {
	if len(docs) != len(embeddings) {
		return fmt.Errorf("document/embedding count mismatch: %d vs %d", len(docs), len(embeddings))
	}

	batch := &pgx.Batch{}
	for i, doc := range docs {
		batch.Queue(
			`INSERT INTO documents (collection_id, id, content, embedding)
			 VALUES ($1::uuid, $2, $3, $4::vector)`,
			collectionID, doc.ID, doc.Content, embeddings[i])
	}

	results := q.pool.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for i := range docs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("inserting document %q: %w", docs[i].ID, err)
		}
	}
	return nil
}

func (q *PgxQuerier) SearchDocuments(ctx context.Context, collectionID string, query pgvector.Vector, k int) ([]string, error) {
	rows, err := q.pool.Query(ctx,
		`SELECT content FROM documents
		 WHERE collection_id = $1::uuid
		 ORDER BY embedding <=> $2::vector
		 LIMIT $3`,
		collectionID, query, k)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		contents = append(contents, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}
	return contents, nil
}
