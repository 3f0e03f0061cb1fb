package vectorindex

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/openlearn/compass/internal/embed"
	"github.com/openlearn/compass/internal/models"
	"github.com/openlearn/compass/internal/vecmath"
)

// DefaultTrainThreshold is the corpus size below which the index skips graph
// construction and searches exactly. Approximate structures need enough
// vectors to be worth building; a tiny corpus must never error.
const DefaultTrainThreshold = 256

// Config configures a ResourceIndex.
type Config struct {
	// Dimension is the index vector size. Default: the embedder's dimension.
	Dimension int

	// TrainThreshold is the corpus size at which the index switches from
	// exact search to HNSW. Default: DefaultTrainThreshold.
	TrainThreshold int

	// HNSW holds graph parameters used above the threshold.
	HNSW HNSWConfig

	// Logger receives warnings. Default: logrus standard logger.
	Logger *logrus.Logger
}

func (c Config) withDefaults(dim int) Config {
	if c.Dimension <= 0 {
		c.Dimension = dim
	}
	if c.TrainThreshold <= 0 {
		c.TrainThreshold = DefaultTrainThreshold
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}

// snapshot is one fully-built, immutable index state. The three slices are
// always the same length; a mismatch is a corruption fault, never a
// recoverable condition. Readers take the current snapshot pointer and work
// on it without further locking.
type snapshot struct {
	vectors  [][]float32
	metadata []models.Resource
	ids      []int64
	searcher nnSearcher
}

func emptySnapshot() *snapshot {
	return &snapshot{searcher: newFlatSearcher(nil)}
}

// ResourceIndex is the vector index over learning resources. Mutations
// build a fresh snapshot and swap it in atomically under the write lock, so
// no caller can observe partial state. Read operations run concurrently.
type ResourceIndex struct {
	embedder embed.Embedder
	cfg      Config
	log      *logrus.Logger

	mu           sync.RWMutex
	snap         *snapshot
	needsRebuild bool
	lastUpdated  time.Time
}

// NewResourceIndex creates an empty index over the given embedder.
func NewResourceIndex(embedder embed.Embedder, cfg Config) *ResourceIndex {
	cfg = cfg.withDefaults(embedder.Dimensions())
	return &ResourceIndex{
		embedder: embedder,
		cfg:      cfg,
		log:      cfg.Logger,
		snap:     emptySnapshot(),
	}
}

// resourceVector embeds one resource: the text embedding (title,
// description, tags) concatenated with a categorical embedding and three
// scaled numeric features, truncated or padded to the index dimension and
// L2-normalized. An embedding failure yields the zero vector.
func (x *ResourceIndex) resourceVector(ctx context.Context, r models.Resource) []float32 {
	text := strings.TrimSpace(strings.ToLower(
		r.Title + " " + r.Description + " " + strings.Join(r.Tags, " ")))
	textVec, err := x.embedder.Embed(ctx, text)
	if err != nil {
		x.log.WithError(err).WithField("resource_id", r.ID).Warn("text embedding failed")
		return make([]float32, x.cfg.Dimension)
	}

	catText := strings.TrimSpace(strings.ToLower(
		string(r.MediaType) + " " + string(r.Difficulty) + " " + string(r.LearningStyle)))
	catVec, err := x.embedder.Embed(ctx, catText)
	if err != nil {
		x.log.WithError(err).WithField("resource_id", r.ID).Warn("categorical embedding failed")
		catVec = nil
	}

	numeric := []float32{
		float32(r.DurationMinutes) / 1000.0,
		float32(r.Rating) / 5.0,
		minf(float32(r.RatingCount)/1000.0, 1.0),
	}

	combined := make([]float32, 0, len(textVec)+len(catVec)+len(numeric))
	combined = append(combined, textVec...)
	combined = append(combined, catVec...)
	combined = append(combined, numeric...)

	v := vecmath.Resize(combined, x.cfg.Dimension)
	vecmath.Normalize(v)
	return v
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// buildSnapshot constructs a fully-populated snapshot for the given
// resources, choosing exact or HNSW search by corpus size.
func (x *ResourceIndex) buildSnapshot(ctx context.Context, base *snapshot, resources []models.Resource) *snapshot {
	n := len(base.vectors) + len(resources)
	s := &snapshot{
		vectors:  make([][]float32, 0, n),
		metadata: make([]models.Resource, 0, n),
		ids:      make([]int64, 0, n),
	}
	s.vectors = append(s.vectors, base.vectors...)
	s.metadata = append(s.metadata, base.metadata...)
	s.ids = append(s.ids, base.ids...)

	for _, r := range resources {
		s.vectors = append(s.vectors, x.resourceVector(ctx, r))
		s.metadata = append(s.metadata, r)
		s.ids = append(s.ids, r.ID)
	}

	if len(s.vectors) >= x.cfg.TrainThreshold {
		s.searcher = newHNSWSearcher(s.vectors, x.cfg.HNSW)
	} else {
		s.searcher = newFlatSearcher(s.vectors)
	}
	return s
}

// Add appends resources to the index. The new snapshot replaces the old one
// atomically once fully built.
func (x *ResourceIndex) Add(ctx context.Context, resources []models.Resource) {
	if len(resources) == 0 {
		return
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.snap = x.buildSnapshot(ctx, x.snap, resources)
	x.lastUpdated = time.Now().UTC()
}

// Search embeds the free-text query, retrieves the topK nearest resources,
// and applies filters after retrieval. An empty index returns an empty
// list; failures degrade to an empty result rather than an error.
func (x *ResourceIndex) Search(ctx context.Context, query string, topK int, filters *Filters) []models.SearchResult {
	if topK <= 0 {
		return nil
	}

	x.mu.RLock()
	snap := x.snap
	x.mu.RUnlock()

	if len(snap.vectors) == 0 {
		return []models.SearchResult{}
	}

	queryVec, err := x.embedder.Embed(ctx, strings.TrimSpace(strings.ToLower(query)))
	if err != nil {
		x.log.WithError(err).Warn("query embedding failed")
		return []models.SearchResult{}
	}
	queryVec = vecmath.Resize(queryVec, x.cfg.Dimension)
	vecmath.Normalize(queryVec)

	k := topK
	if k > len(snap.vectors) {
		k = len(snap.vectors)
	}

	results := make([]models.SearchResult, 0, k)
	for _, hit := range snap.searcher.search(queryVec, k) {
		if hit.slot < 0 || hit.slot >= len(snap.metadata) {
			continue
		}
		r := snap.metadata[hit.slot]
		if !filters.Matches(r) {
			continue
		}
		results = append(results, models.SearchResult{Resource: r, Similarity: hit.score})
	}
	return results
}

// Update accepts an update request but does not apply it: single-resource
// mutation is deferred to the next full rebuild, and the index only records
// that one is needed.
func (x *ResourceIndex) Update(resourceID int64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.needsRebuild = true
	x.log.WithField("resource_id", resourceID).Info("resource marked for update, full rebuild needed")
}

// Delete accepts a delete request but does not apply it until the next full
// rebuild, mirroring Update.
func (x *ResourceIndex) Delete(resourceID int64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.needsRebuild = true
	x.log.WithField("resource_id", resourceID).Info("resource marked for deletion, full rebuild needed")
}

// NeedsRebuild reports whether an update or delete is waiting for a rebuild.
func (x *ResourceIndex) NeedsRebuild() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.needsRebuild
}

// Rebuild replaces the entire index content with the given corpus. The old
// snapshot stays visible to concurrent readers until the new one is fully
// built, then the swap is atomic.
func (x *ResourceIndex) Rebuild(ctx context.Context, resources []models.Resource) {
	fresh := x.buildSnapshot(ctx, emptySnapshot(), resources)

	x.mu.Lock()
	defer x.mu.Unlock()
	x.snap = fresh
	x.needsRebuild = false
	x.lastUpdated = time.Now().UTC()
}

// Stats reports the current index state.
func (x *ResourceIndex) Stats() models.IndexStats {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return models.IndexStats{
		TotalVectors:  len(x.snap.vectors),
		Dimension:     x.cfg.Dimension,
		IndexType:     x.snap.searcher.kind(),
		MetadataCount: len(x.snap.metadata),
		LastUpdated:   x.lastUpdated,
	}
}
