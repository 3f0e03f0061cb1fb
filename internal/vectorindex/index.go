// Package vectorindex stores one embedding vector per learning resource and
// serves approximate nearest-neighbor search with post-retrieval filtering.
// Small corpora are searched exactly; above a threshold the index builds an
// HNSW graph.
package vectorindex

// slotScore pairs an index slot with its similarity to a query. Vectors are
// L2-normalized at insert time, so inner product equals cosine similarity.
type slotScore struct {
	slot  int
	score float64
}

// nnSearcher answers nearest-neighbor queries over a fixed vector snapshot.
// Searchers are immutable once built; mutation means building a new one.
type nnSearcher interface {
	// search returns up to topK slots sorted by descending similarity.
	search(query []float32, topK int) []slotScore

	// kind names the searcher for stats reporting.
	kind() string
}
