package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/openlearn/compass/internal/cache"
	"github.com/openlearn/compass/internal/models"
)

func rankResources() []models.Resource {
	return []models.Resource{
		{ID: 0, Title: "Intro to Go", Description: "goroutines channels basics", Rating: 5.0, RatingCount: 200, Tags: []string{"go"}, MediaType: models.MediaVideo, Difficulty: models.DifficultyBeginner},
		{ID: 1, Title: "Deep Learning Basics", Description: "neural networks tensors", Rating: 3.0, RatingCount: 40, Tags: []string{"ml"}, MediaType: models.MediaCourse, Difficulty: models.DifficultyAdvanced},
		{ID: 2, Title: "Practical SQL", Description: "queries joins indexes", Rating: 4.0, RatingCount: 120, Tags: []string{"sql"}, MediaType: models.MediaArticle, Difficulty: models.DifficultyBeginner},
		{ID: 3, Title: "Go Testing Patterns", Description: "table tests goroutines benchmarks", Rating: 4.5, RatingCount: 80, Tags: []string{"go", "testing"}, MediaType: models.MediaArticle, Difficulty: models.DifficultyIntermediate},
	}
}

func interactionsOn(ids ...int64) []models.Interaction {
	now := time.Now()
	out := make([]models.Interaction, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Interaction{
			UserID:     7,
			ResourceID: id,
			Type:       models.InteractionView,
			CreatedAt:  now,
		})
	}
	return out
}

func newTestEngine() *Engine {
	return NewEngine(cache.NewMemory(), Config{})
}

func TestHybridScorer_Weights(t *testing.T) {
	var s HybridScorer

	tests := []struct {
		count       int
		wantContent float64
		wantCollab  float64
	}{
		{0, 0.8, 0.2},
		{4, 0.8, 0.2},
		{5, 0.4, 0.6},
		{50, 0.4, 0.6},
	}
	for _, tt := range tests {
		content, collab := s.Weights(tt.count)
		if content != tt.wantContent || collab != tt.wantCollab {
			t.Errorf("Weights(%d) = (%v, %v), want (%v, %v)",
				tt.count, content, collab, tt.wantContent, tt.wantCollab)
		}
	}

	if got := s.Blend(1.0, 0.0, 4); got != 0.8 {
		t.Errorf("cold blend = %v, want 0.8", got)
	}
	if got := s.Blend(1.0, 0.0, 5); got != 0.4 {
		t.Errorf("warm blend = %v, want 0.4", got)
	}
}

func TestReason(t *testing.T) {
	if got := Reason(0.9, 0.1); got != ReasonContent {
		t.Errorf("content-dominant reason = %q", got)
	}
	if got := Reason(0.1, 0.9); got != ReasonCollaborative {
		t.Errorf("collab-dominant reason = %q", got)
	}
	if got := Reason(0.5, 0.5); got != ReasonBlended {
		t.Errorf("tied reason = %q", got)
	}
}

func TestPopularityRank(t *testing.T) {
	recs := PopularityRank(rankResources(), 10)
	if len(recs) != 4 {
		t.Fatalf("got %d recommendations, want 4", len(recs))
	}

	wantOrder := []int64{0, 3, 2, 1}
	for i, rec := range recs {
		if rec.Resource.ID != wantOrder[i] {
			t.Errorf("position %d = resource %d, want %d", i, rec.Resource.ID, wantOrder[i])
		}
		if rec.Reason != ReasonPopular {
			t.Errorf("reason = %q, want %q", rec.Reason, ReasonPopular)
		}
		if want := rec.Resource.Rating / 5.0; rec.Score != want {
			t.Errorf("score for %d = %v, want %v", rec.Resource.ID, rec.Score, want)
		}
	}
}

func TestPopularityRank_TieBreakByCount(t *testing.T) {
	resources := []models.Resource{
		{ID: 1, Rating: 4.0, RatingCount: 10},
		{ID: 2, Rating: 4.0, RatingCount: 500},
	}
	recs := PopularityRank(resources, 2)
	if recs[0].Resource.ID != 2 {
		t.Errorf("equal ratings should rank by rating count, got %d first", recs[0].Resource.ID)
	}
}

func TestPopularityRank_Limit(t *testing.T) {
	if got := len(PopularityRank(rankResources(), 2)); got != 2 {
		t.Errorf("limited rank returned %d, want 2", got)
	}
}

func TestEngine_NewUserGetsPopularityOrder(t *testing.T) {
	e := newTestEngine()
	recs := e.Recommend(context.Background(), 7, models.UserData{}, nil, rankResources(), 10)

	if len(recs) != 4 {
		t.Fatalf("got %d recommendations, want 4", len(recs))
	}
	prev := recs[0].Resource.Rating
	for _, rec := range recs[1:] {
		if rec.Resource.Rating > prev {
			t.Fatalf("ratings not descending: %v after %v", rec.Resource.Rating, prev)
		}
		prev = rec.Resource.Rating
	}
	if recs[0].Reason != ReasonPopular {
		t.Errorf("reason = %q, want %q", recs[0].Reason, ReasonPopular)
	}
}

func TestEngine_NewUserExactRatingOrder(t *testing.T) {
	resources := []models.Resource{
		{ID: 1, Title: "A", Rating: 5.0, RatingCount: 10},
		{ID: 2, Title: "B", Rating: 3.0, RatingCount: 10},
		{ID: 3, Title: "C", Rating: 4.0, RatingCount: 10},
	}
	e := newTestEngine()
	recs := e.Recommend(context.Background(), 42, models.UserData{}, nil, resources, 10)

	if len(recs) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(recs))
	}
	wantRatings := []float64{5.0, 4.0, 3.0}
	for i, rec := range recs {
		if rec.Resource.Rating != wantRatings[i] {
			t.Errorf("position %d has rating %v, want %v", i, rec.Resource.Rating, wantRatings[i])
		}
		if want := wantRatings[i] / 5.0; rec.Score != want {
			t.Errorf("position %d score = %v, want %v", i, rec.Score, want)
		}
	}
}

func TestEngine_ExcludesInteractedResources(t *testing.T) {
	e := newTestEngine()
	recs := e.Recommend(context.Background(), 7, models.UserData{}, interactionsOn(0, 2), rankResources(), 10)

	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	for _, rec := range recs {
		if rec.Resource.ID == 0 || rec.Resource.ID == 2 {
			t.Errorf("interacted resource %d must not be recommended", rec.Resource.ID)
		}
	}
}

func TestEngine_EmptyCorpus(t *testing.T) {
	e := newTestEngine()

	recs := e.Recommend(context.Background(), 7, models.UserData{}, nil, nil, 10)
	if len(recs) != 0 {
		t.Errorf("empty corpus returned %d recommendations", len(recs))
	}

	recs = e.Recommend(context.Background(), 8, models.UserData{}, interactionsOn(1), nil, 10)
	if len(recs) != 0 {
		t.Errorf("empty corpus with history returned %d recommendations", len(recs))
	}
}

func TestEngine_AllInteracted(t *testing.T) {
	e := newTestEngine()
	recs := e.Recommend(context.Background(), 7, models.UserData{}, interactionsOn(0, 1, 2, 3), rankResources(), 10)
	if len(recs) != 0 {
		t.Errorf("fully-interacted corpus returned %d recommendations", len(recs))
	}
}

func TestEngine_CacheServesRepeat(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	first := e.Recommend(ctx, 7, models.UserData{}, nil, rankResources(), 10)

	// A second call with a disjoint corpus must still serve the cached
	// ranking verbatim.
	other := []models.Resource{{ID: 99, Title: "Other", Rating: 1.0}}
	second := e.Recommend(ctx, 7, models.UserData{}, nil, other, 10)

	if len(second) != len(first) {
		t.Fatalf("cached result length %d, want %d", len(second), len(first))
	}
	for i := range first {
		if second[i].Resource.ID != first[i].Resource.ID {
			t.Errorf("cached result diverged at %d: %d vs %d", i, second[i].Resource.ID, first[i].Resource.ID)
		}
	}

	e.InvalidateUser(ctx, 7)
	third := e.Recommend(ctx, 7, models.UserData{}, nil, other, 10)
	if len(third) != 1 || third[0].Resource.ID != 99 {
		t.Error("invalidation should force a fresh ranking")
	}
}

func TestEngine_CacheIsPerUserAndLimit(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	a := e.Recommend(ctx, 1, models.UserData{}, nil, rankResources(), 10)
	b := e.Recommend(ctx, 1, models.UserData{}, nil, rankResources(), 2)
	if len(a) == len(b) {
		t.Error("different limits should not share a cache entry")
	}
}

func TestEngine_ScoresAreOrdered(t *testing.T) {
	e := newTestEngine()
	user := models.UserData{PreferredMediaTypes: []string{"article"}}
	recs := e.Recommend(context.Background(), 7, user, interactionsOn(0), rankResources(), 10)

	if len(recs) == 0 {
		t.Fatal("expected recommendations")
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Score > recs[i-1].Score {
			t.Fatalf("scores not descending at %d: %v > %v", i, recs[i].Score, recs[i-1].Score)
		}
	}
	for _, rec := range recs {
		if rec.Reason == "" {
			t.Errorf("resource %d has empty reason", rec.Resource.ID)
		}
	}
}

func TestEngine_TrainAndRestore(t *testing.T) {
	path := t.TempDir() + "/features.bin"
	ctx := context.Background()

	e := NewEngine(cache.NewMemory(), Config{StatePath: path})
	if err := e.TrainModels(ctx, rankResources()); err != nil {
		t.Fatalf("TrainModels() error: %v", err)
	}

	restored := NewEngine(cache.NewMemory(), Config{StatePath: path})
	restored.RestoreState()

	recs := restored.Recommend(ctx, 7, models.UserData{}, interactionsOn(0), rankResources(), 10)
	if len(recs) != 3 {
		t.Fatalf("restored engine returned %d recommendations, want 3", len(recs))
	}
}

func TestEngine_RestoreStateMissingFile(t *testing.T) {
	e := NewEngine(cache.NewMemory(), Config{StatePath: t.TempDir() + "/absent.bin"})
	e.RestoreState()

	// Engine must stay fully usable without persisted state.
	recs := e.Recommend(context.Background(), 7, models.UserData{}, nil, rankResources(), 10)
	if len(recs) != 4 {
		t.Errorf("got %d recommendations, want 4", len(recs))
	}
}
