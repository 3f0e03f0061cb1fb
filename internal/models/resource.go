// Package models defines the entities shared by the recommendation and
// retrieval packages: learning resources, user interactions, user
// preference data, and the scored records returned to callers.
package models

import "time"

// MediaType classifies the delivery format of a learning resource.
type MediaType string

const (
	MediaVideo         MediaType = "video"
	MediaArticle       MediaType = "article"
	MediaCourse        MediaType = "course"
	MediaBook          MediaType = "book"
	MediaPodcast       MediaType = "podcast"
	MediaTutorial      MediaType = "tutorial"
	MediaDocumentation MediaType = "documentation"
)

// Difficulty is the stated difficulty level of a resource. Empty means unknown.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// LearningStyle is the learning modality a resource best serves. Empty means unknown.
type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleAuditory    LearningStyle = "auditory"
	StyleKinesthetic LearningStyle = "kinesthetic"
	StyleReading     LearningStyle = "reading"
)

// Resource is one learning resource record. Resources are created by
// ingestion or by the rating flow; this subsystem only reads them, except
// for the aggregate Rating/RatingCount fields which the corpus store
// recomputes whenever a rating interaction is recorded.
type Resource struct {
	ID              int64         `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description,omitempty"`
	URL             string        `json:"url"`
	MediaType       MediaType     `json:"media_type"`
	Difficulty      Difficulty    `json:"difficulty,omitempty"`
	DurationMinutes int           `json:"duration_minutes,omitempty"`
	Rating          float64       `json:"rating"`
	RatingCount     int           `json:"rating_count"`
	Tags            []string      `json:"tags,omitempty"`
	Prerequisites   []string      `json:"prerequisites,omitempty"`
	LearningStyle   LearningStyle `json:"learning_style,omitempty"`
	Source          string        `json:"source,omitempty"`
}

// InteractionType classifies a user's interaction with a resource.
type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionLike     InteractionType = "like"
	InteractionRate     InteractionType = "rate"
	InteractionComplete InteractionType = "complete"
	InteractionSave     InteractionType = "save"
)

// Interaction is one append-only interaction event. Rating is set only for
// type "rate" (1-5); TimeSpentMinutes is meaningful mainly for view/complete.
type Interaction struct {
	UserID           int64           `json:"user_id"`
	ResourceID       int64           `json:"resource_id"`
	Type             InteractionType `json:"interaction_type"`
	Rating           int             `json:"rating,omitempty"`
	TimeSpentMinutes int             `json:"time_spent_minutes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// UserData carries a user's stated preferences. Missing fields mean
// "no preference"; callers supplying extra keys simply drop them here,
// matching the loose mapping the storage layer hands over.
type UserData struct {
	LearningStyle          string   `json:"learning_style,omitempty"`
	ExperienceLevel        string   `json:"experience_level,omitempty"`
	PreferredDifficulty    string   `json:"preferred_difficulty,omitempty"`
	PreferredLearningStyle string   `json:"preferred_learning_style,omitempty"`
	PreferredMediaTypes    []string `json:"preferred_media_types,omitempty"`
}

// Recommendation is one ranked recommendation result.
type Recommendation struct {
	Resource Resource `json:"resource"`
	Score    float64  `json:"recommendation_score"`
	Reason   string   `json:"recommendation_reason"`
}

// SearchResult is one ranked semantic search result.
type SearchResult struct {
	Resource   Resource `json:"resource"`
	Similarity float64  `json:"similarity_score"`
}

// IndexStats summarizes the state of a vector index.
type IndexStats struct {
	TotalVectors  int       `json:"total_vectors"`
	Dimension     int       `json:"dimension"`
	IndexType     string    `json:"index_type"`
	MetadataCount int       `json:"metadata_count"`
	LastUpdated   time.Time `json:"last_updated"`
}
