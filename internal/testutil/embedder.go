package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync"
)

// HashEmbedder provides deterministic embedding vectors for testing.
//
// By default it generates a normalized vector from content using SHA-256,
// so the same content always embeds identically. Explicit mappings can be
// added for precise cosine similarity control.
//
// Thread-safe for concurrent use. Implements knowledge.Embedder.
type HashEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	dim     int
}

// NewHashEmbedder creates a deterministic embedder with the given vector
// dimensions. Use 768 to match the documents schema.
func NewHashEmbedder(dim int) *HashEmbedder {
	return &HashEmbedder{
		vectors: make(map[string][]float32),
		dim:     dim,
	}
}

// SetVector registers an explicit vector for a given content string.
// Use this to control exact cosine similarity between test inputs.
func (e *HashEmbedder) SetVector(content string, vec []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vectors[content] = vec
}

// Embed returns the vector for content: the explicit mapping if one was
// set, otherwise a deterministic hash-derived unit vector.
func (e *HashEmbedder) Embed(_ context.Context, content string) ([]float32, error) {
	e.mu.Lock()
	if v, ok := e.vectors[content]; ok {
		e.mu.Unlock()
		return v, nil
	}
	e.mu.Unlock()

	return deterministicVector(content, e.dim), nil
}

// deterministicVector generates a normalized vector from content using
// SHA-256. The same content always produces the same vector.
func deterministicVector(content string, dim int) []float32 {
	hash := sha256.Sum256([]byte(content))
	vec := make([]float32, dim)

	for i := range vec {
		idx := (i * 4) % len(hash)
		bits := binary.LittleEndian.Uint32([]byte{
			hash[idx%32],
			hash[(idx+1)%32],
			hash[(idx+2)%32],
			hash[(idx+3)%32],
		})
		// Map to [-1, 1] range
		vec[i] = (float32(bits)/float32(math.MaxUint32))*2 - 1
	}

	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	norm = float32(math.Sqrt(float64(norm)))
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec
}
