package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/openlearn/compass/internal/cache"
	"github.com/openlearn/compass/internal/feature"
	"github.com/openlearn/compass/internal/models"
	"github.com/openlearn/compass/internal/profile"
	"github.com/openlearn/compass/internal/vecmath"
)

const (
	// DefaultLimit caps a recommendation request that does not name one.
	DefaultLimit = 10
	// DefaultCacheTTL bounds how long a computed ranking is served as-is.
	DefaultCacheTTL = time.Hour
)

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	Features  feature.Config
	CacheTTL  time.Duration
	StatePath string // optional path for persisted fitted feature state
	Logger    *logrus.Logger
}

// Engine serves hybrid recommendations. It owns the fitted feature
// pipeline and a cached feature matrix for the current resource corpus;
// both are guarded by mu so concurrent requests share one fit.
type Engine struct {
	features *feature.Builder
	profiles *profile.Builder
	scorer   HybridScorer
	collab   CollaborativeScorer
	cache    cache.Cache
	log      *logrus.Logger

	ttl       time.Duration
	statePath string

	mu        sync.Mutex
	matrix    [][]float64
	matrixKey string
}

// NewEngine builds an engine over the given cache. A nil cache degrades
// to an in-process cache so callers never need to branch.
func NewEngine(c cache.Cache, cfg Config) *Engine {
	if c == nil {
		c = cache.NewMemory()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	cfg.Features.Logger = cfg.Logger

	features := feature.NewBuilder(cfg.Features)
	return &Engine{
		features:  features,
		profiles:  profile.NewBuilder(features.Dim()),
		collab:    BaselineCollaborative{},
		cache:     c,
		log:       cfg.Logger,
		ttl:       cfg.CacheTTL,
		statePath: cfg.StatePath,
	}
}

// SetCollaborative swaps in a collaborative model. Intended for wiring a
// trained scorer in place of the baseline prior.
func (e *Engine) SetCollaborative(s CollaborativeScorer) {
	if s != nil {
		e.collab = s
	}
}

// Recommend returns the top recommendations for a user, serving a cached
// ranking when one exists. It never returns an error: every failure path
// degrades to a popularity ranking over the given resources.
func (e *Engine) Recommend(ctx context.Context, userID int64, user models.UserData, interactions []models.Interaction, resources []models.Resource, limit int) []models.Recommendation {
	if limit <= 0 {
		limit = DefaultLimit
	}

	key := cache.Key("recommendations", userID, limit)
	if raw, ok := e.cache.Get(ctx, key); ok {
		var recs []models.Recommendation
		if err := json.Unmarshal([]byte(raw), &recs); err == nil {
			return recs
		}
		e.cache.Delete(ctx, key)
	}

	recs := e.rank(userID, user, interactions, resources, limit)

	if raw, err := json.Marshal(recs); err == nil {
		e.cache.Set(ctx, key, string(raw), e.ttl)
	}
	return recs
}

// rank computes a fresh ranking. A panic anywhere in scoring is absorbed
// and answered with the popularity fallback.
func (e *Engine) rank(userID int64, user models.UserData, interactions []models.Interaction, resources []models.Resource, limit int) (recs []models.Recommendation) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithFields(logrus.Fields{"user_id": userID, "panic": r}).
				Error("hybrid scoring failed, falling back to popularity ranking")
			recs = PopularityRank(resources, limit)
		}
	}()

	if len(resources) == 0 {
		return []models.Recommendation{}
	}
	if len(interactions) == 0 {
		// No history means no profile signal to blend; popularity is the
		// honest answer for a brand-new user.
		return PopularityRank(resources, limit)
	}

	matrix := e.resourceMatrix(resources)
	prof := e.profiles.Build(user, interactions, matrix)

	interacted := make(map[int64]bool, len(interactions))
	for _, in := range interactions {
		interacted[in.ResourceID] = true
	}

	type candidate struct {
		resource models.Resource
		content  float64
		collab   float64
		hybrid   float64
	}
	candidates := make([]candidate, 0, len(resources))
	for i, r := range resources {
		if interacted[r.ID] {
			continue
		}
		content := vecmath.CosineSimilarityF64(prof, matrix[i])
		collab := e.collab.Score(userID, r, interactions)
		candidates = append(candidates, candidate{
			resource: r,
			content:  content,
			collab:   collab,
			hybrid:   e.scorer.Blend(content, collab, len(interactions)),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].hybrid > candidates[j].hybrid
	})
	if limit < len(candidates) {
		candidates = candidates[:limit]
	}

	recs = make([]models.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, models.Recommendation{
			Resource: c.resource,
			Score:    c.hybrid,
			Reason:   Reason(c.content, c.collab),
		})
	}
	return recs
}

// resourceMatrix returns the feature matrix for the given corpus, reusing
// the cached one when the corpus is unchanged. Row i corresponds to
// resources[i].
func (e *Engine) resourceMatrix(resources []models.Resource) [][]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := feature.MatrixKey(resources)
	if key == e.matrixKey && e.matrix != nil {
		return e.matrix
	}
	e.matrix = e.features.Build(resources)
	e.matrixKey = key
	return e.matrix
}

// TrainModels re-fits the feature pipeline against a fresh resource
// snapshot and persists the fitted state when a state path is configured.
// This is an offline operation, not part of the request path.
func (e *Engine) TrainModels(_ context.Context, resources []models.Resource) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.features.Reset()
	matrix := e.features.Build(resources)
	e.matrix = matrix
	e.matrixKey = feature.MatrixKey(resources)

	if e.statePath != "" {
		if err := e.features.SaveState(e.statePath, matrix); err != nil {
			return fmt.Errorf("persist trained feature state: %w", err)
		}
	}
	e.log.WithFields(logrus.Fields{"resources": len(resources), "dimension": e.features.Dim()}).
		Info("feature pipeline trained")
	return nil
}

// RestoreState loads previously trained feature state, if any. Failure is
// logged and ignored; the pipeline re-fits lazily on first use.
func (e *Engine) RestoreState() {
	if e.statePath == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	matrix, err := e.features.LoadState(e.statePath)
	if err != nil {
		e.log.WithError(err).Debug("no trained feature state restored")
		return
	}
	// The persisted matrix belongs to an unknown corpus snapshot, so it is
	// kept only until the first request recomputes against live resources.
	e.matrix = matrix
	e.matrixKey = ""
	e.log.WithField("dimension", e.features.Dim()).Info("trained feature state restored")
}

// InvalidateUser drops a user's cached rankings for the common limits.
// Exact keys include the limit, so this clears the typical request sizes.
func (e *Engine) InvalidateUser(ctx context.Context, userID int64) {
	for _, limit := range []int{5, 10, 20, 50, DefaultLimit} {
		e.cache.Delete(ctx, cache.Key("recommendations", userID, limit))
	}
}
