package vectorindex

import "github.com/openlearn/compass/internal/models"

// Filters narrows search results after retrieval. Zero values mean "no
// constraint". Because filtering happens after the nearest-neighbor lookup,
// strict filters can shrink a result set below the requested top-k.
type Filters struct {
	MediaType     models.MediaType
	Difficulty    models.Difficulty
	LearningStyle models.LearningStyle

	// MinDuration and MaxDuration bound duration_minutes. Zero disables.
	MinDuration int
	MaxDuration int

	// MinRating excludes resources rated below it. Zero disables.
	MinRating float64

	// Tags keeps only resources sharing at least one tag.
	Tags []string
}

// Matches reports whether r satisfies every set constraint.
func (f *Filters) Matches(r models.Resource) bool {
	if f == nil {
		return true
	}
	if f.MediaType != "" && r.MediaType != f.MediaType {
		return false
	}
	if f.Difficulty != "" && r.Difficulty != f.Difficulty {
		return false
	}
	if f.LearningStyle != "" && r.LearningStyle != f.LearningStyle {
		return false
	}
	if f.MinDuration > 0 && r.DurationMinutes < f.MinDuration {
		return false
	}
	if f.MaxDuration > 0 && r.DurationMinutes > f.MaxDuration {
		return false
	}
	if f.MinRating > 0 && r.Rating < f.MinRating {
		return false
	}
	if len(f.Tags) > 0 && !tagsOverlap(r.Tags, f.Tags) {
		return false
	}
	return true
}

func tagsOverlap(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}
