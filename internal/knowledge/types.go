package knowledge

import "context"

// Document is a single ingested text document. The ID is the source
// filename and is unique within a collection. Documents are created at
// ingestion time and never mutated.
type Document struct {
	ID      string
	Content string
}

// Embedder generates vector embeddings for text. *ollama.Client satisfies
// this; tests substitute deterministic implementations.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
