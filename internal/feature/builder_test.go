package feature

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/openlearn/compass/internal/models"
)

func sampleResources() []models.Resource {
	return []models.Resource{
		{
			ID:              1,
			Title:           "Introduction to Go Concurrency",
			Description:     "Goroutines, channels, and the scheduler",
			MediaType:       models.MediaVideo,
			Difficulty:      models.DifficultyBeginner,
			DurationMinutes: 45,
			Rating:          4.5,
			RatingCount:     120,
			Tags:            []string{"go", "concurrency"},
		},
		{
			ID:              2,
			Title:           "Advanced Go Patterns",
			Description:     "Generics, reflection, performance tuning",
			MediaType:       models.MediaArticle,
			Difficulty:      models.DifficultyAdvanced,
			DurationMinutes: 20,
			Rating:          4.0,
			RatingCount:     30,
			Tags:            []string{"go", "patterns"},
		},
		{
			ID:            3,
			Title:         "Python for Data Science",
			MediaType:     models.MediaCourse,
			Rating:        3.5,
			RatingCount:   200,
			LearningStyle: models.StyleVisual,
			Tags:          []string{"python", "data"},
		},
	}
}

func assertFinite(t *testing.T, matrix [][]float64) {
	t.Helper()
	for i, row := range matrix {
		for j, x := range row {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				t.Fatalf("matrix[%d][%d] = %f is not finite", i, j, x)
			}
		}
	}
}

func TestBuilder_ShapeAndFiniteness(t *testing.T) {
	b := NewBuilder(Config{})
	matrix := b.Build(sampleResources())

	if len(matrix) != 3 {
		t.Fatalf("got %d rows, want 3", len(matrix))
	}
	for i, row := range matrix {
		if len(row) != DefaultTargetDim {
			t.Errorf("row %d width = %d, want %d", i, len(row), DefaultTargetDim)
		}
	}
	assertFinite(t, matrix)
}

func TestBuilder_SingleResourceKeepsFixedDim(t *testing.T) {
	b := NewBuilder(Config{})
	matrix := b.Build(sampleResources()[:1])

	if len(matrix) != 1 {
		t.Fatalf("got %d rows, want 1", len(matrix))
	}
	if len(matrix[0]) != DefaultTargetDim {
		t.Errorf("row width = %d, want %d regardless of corpus size", len(matrix[0]), DefaultTargetDim)
	}
	assertFinite(t, matrix)
}

func TestBuilder_EmptyCorpus(t *testing.T) {
	b := NewBuilder(Config{})
	matrix := b.Build(nil)

	if len(matrix) != 0 {
		t.Errorf("empty corpus should produce an empty matrix, got %d rows", len(matrix))
	}
}

func TestBuilder_ReusesFittedState(t *testing.T) {
	b := NewBuilder(Config{})
	b.Build(sampleResources())

	if !b.Fitted() {
		t.Fatal("builder should be fitted after first Build")
	}

	// A later batch with unseen vocabulary must transform through the
	// original fitted space without refitting or erroring.
	extra := []models.Resource{{
		ID:        99,
		Title:     "Kubernetes Operators in Depth",
		MediaType: models.MediaBook,
		Tags:      []string{"kubernetes"},
	}}
	rows := b.Build(extra)

	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if len(rows[0]) != DefaultTargetDim {
		t.Fatalf("incremental row width = %d, want %d", len(rows[0]), DefaultTargetDim)
	}
	assertFinite(t, rows)
}

func TestBuilder_ResetRefits(t *testing.T) {
	b := NewBuilder(Config{})
	b.Build(sampleResources())
	b.Reset()

	if b.Fitted() {
		t.Error("builder should be unfitted after Reset")
	}
}

func TestBuilder_SaveLoadState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features.bin")

	b := NewBuilder(Config{})
	resources := sampleResources()
	matrix := b.Build(resources)

	if err := b.SaveState(path, matrix); err != nil {
		t.Fatalf("SaveState() error: %v", err)
	}

	restored := NewBuilder(Config{})
	loaded, err := restored.LoadState(path)
	if err != nil {
		t.Fatalf("LoadState() error: %v", err)
	}
	if len(loaded) != len(matrix) {
		t.Fatalf("loaded %d rows, want %d", len(loaded), len(matrix))
	}
	for i := range matrix {
		for j := range matrix[i] {
			if math.Abs(loaded[i][j]-matrix[i][j]) > 1e-12 {
				t.Fatalf("loaded matrix differs at [%d][%d]", i, j)
			}
		}
	}

	// The restored builder transforms a batch identically to the original.
	want := b.Build(resources)
	got := restored.Build(resources)
	for i := range want {
		for j := range want[i] {
			if math.Abs(got[i][j]-want[i][j]) > 1e-9 {
				t.Fatalf("restored builder output differs at [%d][%d]: %f vs %f", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestBuilder_LoadMissingState(t *testing.T) {
	b := NewBuilder(Config{})
	if _, err := b.LoadState(filepath.Join(t.TempDir(), "absent.bin")); err == nil {
		t.Error("expected error loading missing state")
	}
	if b.Fitted() {
		t.Error("failed load must leave the builder untrained")
	}
}
