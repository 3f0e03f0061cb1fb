package profile

import (
	"math"
	"testing"
	"time"

	"github.com/openlearn/compass/internal/models"
	"github.com/openlearn/compass/internal/vecmath"
)

func TestRecencyWeight(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want float64
	}{
		{"now", now, 1.0},
		{"30 days old", now.Add(-30 * 24 * time.Hour), 0.5},
		{"90 days old", now.Add(-90 * 24 * time.Hour), 0.25},
		{"ancient hits the floor", now.Add(-10 * 365 * 24 * time.Hour), RecencyFloor},
		{"zero time counts as now", time.Time{}, 1.0},
		{"future clamps to now", now.Add(24 * time.Hour), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecencyWeight(tt.t, now)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("RecencyWeight() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestTypeWeight(t *testing.T) {
	tests := []struct {
		typ  models.InteractionType
		want float64
	}{
		{models.InteractionComplete, 1.0},
		{models.InteractionRate, 0.8},
		{models.InteractionSave, 0.6},
		{models.InteractionLike, 0.4},
		{models.InteractionView, 0.2},
		{models.InteractionType("bookmark"), 0.1},
	}

	for _, tt := range tests {
		if got := TypeWeight(tt.typ); got != tt.want {
			t.Errorf("TypeWeight(%q) = %f, want %f", tt.typ, got, tt.want)
		}
	}
}

func TestBuilder_PreferencesOnly(t *testing.T) {
	b := NewBuilder(20)
	v := b.Build(models.UserData{
		PreferredDifficulty:    "beginner",
		PreferredLearningStyle: "visual",
	}, nil, nil)

	if len(v) != 20 {
		t.Fatalf("len = %d, want 20", len(v))
	}
	if vecmath.NormF64(v) == 0 {
		t.Fatal("stated preferences should produce a non-zero profile")
	}
	if math.Abs(vecmath.NormF64(v)-1.0) > 1e-9 {
		t.Errorf("profile norm = %f, want 1.0", vecmath.NormF64(v))
	}
}

func TestBuilder_NoSignalsReturnsZero(t *testing.T) {
	b := NewBuilder(20)
	v := b.Build(models.UserData{}, nil, nil)

	for i, x := range v {
		if x != 0 {
			t.Fatalf("v[%d] = %f, want 0 for an empty profile", i, x)
		}
	}
}

func TestBuilder_InteractionContribution(t *testing.T) {
	matrix := [][]float64{
		{1, 0, 0},
		{0, 1, 0},
	}
	b := NewBuilder(3)

	now := time.Now()
	v := b.Build(models.UserData{}, []models.Interaction{
		{ResourceID: 0, Type: models.InteractionComplete, CreatedAt: now},
		{ResourceID: 1, Type: models.InteractionView, CreatedAt: now},
	}, matrix)

	// complete (1.0) dominates view (0.2), both at full recency.
	if v[0] <= v[1] {
		t.Errorf("completed resource should outweigh viewed one: %v", v)
	}
	if math.Abs(vecmath.NormF64(v)-1.0) > 1e-9 {
		t.Errorf("norm = %f, want 1.0", vecmath.NormF64(v))
	}
}

func TestBuilder_SkipsOutOfRangeIDs(t *testing.T) {
	matrix := [][]float64{{1, 1, 1}}
	b := NewBuilder(3)

	v := b.Build(models.UserData{}, []models.Interaction{
		{ResourceID: 99, Type: models.InteractionComplete},
		{ResourceID: -1, Type: models.InteractionComplete},
	}, matrix)

	if vecmath.NormF64(v) != 0 {
		t.Errorf("out-of-range interactions must be skipped, got %v", v)
	}
}

func TestBuilder_HistoryWindow(t *testing.T) {
	// Only the trailing MaxHistory interactions contribute: the single
	// interaction against row 0 is pushed out of the window by newer ones
	// against row 1.
	matrix := [][]float64{
		{1, 0},
		{0, 1},
	}
	b := NewBuilder(2)

	interactions := []models.Interaction{{ResourceID: 0, Type: models.InteractionComplete}}
	for i := 0; i < MaxHistory; i++ {
		interactions = append(interactions, models.Interaction{ResourceID: 1, Type: models.InteractionView})
	}

	v := b.Build(models.UserData{}, interactions, matrix)
	if v[0] != 0 {
		t.Errorf("interaction outside the window should not contribute: %v", v)
	}
	if v[1] == 0 {
		t.Error("windowed interactions should contribute")
	}
}
