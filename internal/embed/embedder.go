// Package embed defines the Embedder capability that maps free text to a
// fixed-dimension vector, with a deterministic hash-based implementation for
// tests and offline use, and an OpenAI-compatible implementation for
// production. Callers depend only on the interface.
package embed

import (
	"context"
	"crypto/md5"

	"github.com/openlearn/compass/internal/vecmath"
)

// DefaultDimension is the index dimensionality used when none is configured.
const DefaultDimension = 384

// Embedder maps text to a fixed-size numeric vector.
type Embedder interface {
	// Embed returns the vector for text. The result always has length
	// Dimensions().
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the dimensionality of produced vectors.
	Dimensions() int
}

// HashEmbedder is a deterministic placeholder embedding: the MD5 digest of
// the text, scaled to [0,1], padded to the configured dimension, and
// L2-normalized. It carries no semantics beyond "same text, same vector" and
// exists so indexing and search work without a model dependency.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a HashEmbedder of the given dimension.
// A dimension <= 0 falls back to DefaultDimension.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &HashEmbedder{dim: dim}
}

// Embed returns the deterministic vector for text. Never fails.
func (h *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	digest := md5.Sum([]byte(text))

	v := make([]float32, h.dim)
	for i := 0; i < len(digest) && i < h.dim; i++ {
		v[i] = float32(digest[i]) / 255.0
	}
	vecmath.Normalize(v)
	return v, nil
}

// Dimensions returns the configured vector dimension.
func (h *HashEmbedder) Dimensions() int { return h.dim }
