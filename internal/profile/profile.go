// Package profile builds a per-user preference vector in the same feature
// space as the resource feature matrix, from stated preferences and a
// recency-weighted interaction history.
package profile

import (
	"hash/fnv"
	"time"

	"github.com/openlearn/compass/internal/models"
	"github.com/openlearn/compass/internal/vecmath"
)

const (
	// PreferenceWeight is the fixed contribution of each stated preference.
	PreferenceWeight = 0.3

	// MaxHistory bounds how many trailing interactions contribute.
	MaxHistory = 50

	// RecencyFloor is the minimum recency weight of any interaction.
	RecencyFloor = 0.1

	// recencyScaleDays controls how fast interaction weight decays.
	recencyScaleDays = 30.0
)

// RecencyWeight returns the hyperbolic decay weight of an event at t as seen
// from now: 1/(1 + days/30), floored at RecencyFloor. A zero timestamp
// counts as "now" and gets full weight.
func RecencyWeight(t, now time.Time) float64 {
	if t.IsZero() {
		return 1.0
	}
	days := now.Sub(t).Hours() / 24
	if days < 0 {
		days = 0
	}
	w := 1.0 / (1.0 + days/recencyScaleDays)
	if w < RecencyFloor {
		return RecencyFloor
	}
	return w
}

// TypeWeight returns the contribution weight of an interaction type.
// Unknown types get a small non-zero weight instead of being dropped.
func TypeWeight(t models.InteractionType) float64 {
	switch t {
	case models.InteractionComplete:
		return 1.0
	case models.InteractionRate:
		return 0.8
	case models.InteractionSave:
		return 0.6
	case models.InteractionLike:
		return 0.4
	case models.InteractionView:
		return 0.2
	default:
		return 0.1
	}
}

// Builder aggregates preferences and history into one profile vector.
type Builder struct {
	dim int
}

// NewBuilder creates a Builder producing vectors of the given dimension,
// which must match the feature matrix width.
func NewBuilder(dim int) *Builder {
	return &Builder{dim: dim}
}

// prefSlot maps a preference string onto a feature slot in [0, dim).
// Deliberately coarse; this is not a learned embedding.
func (b *Builder) prefSlot(pref string) int {
	h := fnv.New32a()
	h.Write([]byte(pref))
	return int(h.Sum32() % uint32(b.dim))
}

// Build produces the profile vector for one user. Interactions are
// most-recent-last; only the trailing MaxHistory contribute, each weighted
// by recency and interaction type. Matrix rows are addressed by resource id;
// ids outside the matrix are skipped, as is any malformed interaction. The
// result is L2-normalized unless it is the zero vector.
func (b *Builder) Build(user models.UserData, interactions []models.Interaction, matrix [][]float64) []float64 {
	v := make([]float64, b.dim)
	if b.dim == 0 {
		return v
	}

	if user.PreferredDifficulty != "" {
		v[b.prefSlot(user.PreferredDifficulty)] += PreferenceWeight
	}
	if user.PreferredLearningStyle != "" {
		v[b.prefSlot(user.PreferredLearningStyle)] += PreferenceWeight
	}

	recent := interactions
	if len(recent) > MaxHistory {
		recent = recent[len(recent)-MaxHistory:]
	}

	now := time.Now().UTC()
	for _, in := range recent {
		id := in.ResourceID
		if id < 0 || id >= int64(len(matrix)) {
			continue
		}
		row := matrix[id]
		w := RecencyWeight(in.CreatedAt, now) * TypeWeight(in.Type)
		for i := 0; i < b.dim && i < len(row); i++ {
			v[i] += row[i] * w
		}
	}

	vecmath.NormalizeF64(v)
	return v
}
