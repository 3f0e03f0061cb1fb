package vectorindex

import (
	"github.com/coder/hnsw"
)

// HNSWConfig holds the graph construction parameters.
type HNSWConfig struct {
	// M is the maximum number of neighbors per node. Default: 16.
	M int

	// EfSearch is the number of candidates considered during search. Default: 100.
	EfSearch int

	// Ml is the level generation factor. Default: 0.25.
	Ml float64
}

func (c HNSWConfig) withDefaults() HNSWConfig {
	if c.M == 0 {
		c.M = 16
	}
	if c.EfSearch == 0 {
		c.EfSearch = 100
	}
	if c.Ml == 0 {
		c.Ml = 0.25
	}
	return c
}

// hnswSearcher performs approximate nearest-neighbor search over a
// Hierarchical Navigable Small World graph keyed by slot index. The graph is
// built once from a snapshot and never mutated, which sidesteps the dangling
// neighbor pointers the library can produce on deletion.
type hnswSearcher struct {
	graph *hnsw.Graph[int]
}

func newHNSWSearcher(vectors [][]float32, cfg HNSWConfig) *hnswSearcher {
	cfg = cfg.withDefaults()

	g := hnsw.NewGraph[int]()
	g.M = cfg.M
	g.EfSearch = cfg.EfSearch
	g.Ml = cfg.Ml
	g.Distance = hnsw.CosineDistance

	nodes := make([]hnsw.Node[int], 0, len(vectors))
	for slot, vec := range vectors {
		nodes = append(nodes, hnsw.MakeNode(slot, vec))
	}
	if len(nodes) > 0 {
		g.Add(nodes...)
	}

	return &hnswSearcher{graph: g}
}

func (h *hnswSearcher) kind() string { return "hnsw" }

func (h *hnswSearcher) search(query []float32, topK int) []slotScore {
	if len(query) == 0 || topK <= 0 || h.graph.Len() == 0 {
		return nil
	}

	nodes := h.graph.Search(query, topK)
	results := make([]slotScore, 0, len(nodes))
	for _, n := range nodes {
		dist := hnsw.CosineDistance(query, n.Value)
		results = append(results, slotScore{slot: n.Key, score: 1.0 - float64(dist)})
	}
	return results
}
