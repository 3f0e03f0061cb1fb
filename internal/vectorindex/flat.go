package vectorindex

import (
	"sort"

	"github.com/openlearn/compass/internal/vecmath"
)

// flatSearcher performs exhaustive inner-product search over every vector.
// Exact results; suitable for corpora below the HNSW threshold.
type flatSearcher struct {
	vectors [][]float32
}

func newFlatSearcher(vectors [][]float32) *flatSearcher {
	return &flatSearcher{vectors: vectors}
}

func (f *flatSearcher) kind() string { return "flat" }

func (f *flatSearcher) search(query []float32, topK int) []slotScore {
	if len(query) == 0 || topK <= 0 || len(f.vectors) == 0 {
		return nil
	}

	results := make([]slotScore, 0, len(f.vectors))
	for slot, vec := range f.vectors {
		results = append(results, slotScore{slot: slot, score: vecmath.Dot(query, vec)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}
