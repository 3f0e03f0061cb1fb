// Package recommend blends content-based and collaborative signals into a
// ranked recommendation list. Scoring never fails outward: every error path
// degrades to a popularity ranking.
package recommend

import "github.com/openlearn/compass/internal/models"

// ColdStartThreshold is the interaction count below which a user is
// considered cold and content similarity dominates the blend.
const ColdStartThreshold = 5

const (
	coldContentWeight = 0.8
	coldCollabWeight  = 0.2
	warmContentWeight = 0.4
	warmCollabWeight  = 0.6
)

// Recommendation reasons surfaced to API consumers.
const (
	ReasonContent       = "Based on your learning preferences and content similarity"
	ReasonCollaborative = "Popular among users with similar interests"
	ReasonBlended       = "Recommended based on your profile and community preferences"
	ReasonPopular       = "Popular resource"
)

// HybridScorer combines a content score and a collaborative score with
// weights that shift once the user has enough history.
type HybridScorer struct{}

// Weights returns the (content, collaborative) blend weights for a user
// with the given interaction count.
func (HybridScorer) Weights(interactionCount int) (float64, float64) {
	if interactionCount < ColdStartThreshold {
		return coldContentWeight, coldCollabWeight
	}
	return warmContentWeight, warmCollabWeight
}

// Blend computes the hybrid score for one candidate.
func (s HybridScorer) Blend(content, collab float64, interactionCount int) float64 {
	wc, wf := s.Weights(interactionCount)
	return wc*content + wf*collab
}

// Reason picks the user-facing explanation for a scored candidate.
func Reason(content, collab float64) string {
	switch {
	case content > collab:
		return ReasonContent
	case collab > content:
		return ReasonCollaborative
	default:
		return ReasonBlended
	}
}

// CollaborativeScorer produces the collaborative half of the hybrid score.
// It is a seam for a trained model; the default is a flat popularity prior.
type CollaborativeScorer interface {
	Score(userID int64, resource models.Resource, interactions []models.Interaction) float64
}

// baselinePrior is the placeholder collaborative signal used until a
// trained model is plugged in.
const baselinePrior = 0.1

// BaselineCollaborative assigns every candidate the same popularity prior.
type BaselineCollaborative struct{}

func (BaselineCollaborative) Score(int64, models.Resource, []models.Interaction) float64 {
	return baselinePrior
}
