// Package corpus is the relational store for resources and interaction
// history. Recommendation and search components never touch it directly;
// callers load collections here and hand them over as plain slices.
package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/openlearn/compass/internal/models"
)

// Store is the persistence surface for the resource corpus.
type Store interface {
	UpsertResource(ctx context.Context, r models.Resource) error
	GetResource(ctx context.Context, id int64) (*models.Resource, error)
	ListResources(ctx context.Context) ([]models.Resource, error)

	// RecordInteraction appends one interaction. For rate interactions it
	// also recomputes the resource's aggregate rating and rating count.
	RecordInteraction(ctx context.Context, in models.Interaction) error

	// UserInteractions returns a user's history ordered most-recent-last.
	UserInteractions(ctx context.Context, userID int64) ([]models.Interaction, error)

	Close() error
}

// SQLite implements Store on a local SQLite database.
type SQLite struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS resources (
	id               INTEGER PRIMARY KEY,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	url              TEXT NOT NULL DEFAULT '',
	media_type       TEXT NOT NULL DEFAULT '',
	difficulty       TEXT NOT NULL DEFAULT '',
	duration_minutes INTEGER NOT NULL DEFAULT 0,
	rating           REAL NOT NULL DEFAULT 0,
	rating_count     INTEGER NOT NULL DEFAULT 0,
	tags             TEXT NOT NULL DEFAULT '[]',
	prerequisites    TEXT NOT NULL DEFAULT '[]',
	learning_style   TEXT NOT NULL DEFAULT '',
	source           TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS interactions (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id            INTEGER NOT NULL,
	resource_id        INTEGER NOT NULL,
	interaction_type   TEXT NOT NULL,
	rating             REAL,
	time_spent_minutes INTEGER NOT NULL DEFAULT 0,
	created_at         TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_interactions_resource ON interactions(resource_id, interaction_type);
`

// OpenSQLite opens (and if needed initializes) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open corpus database: %w", err)
	}
	// SQLite handles one writer at a time; serialize through one conn.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize corpus schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) UpsertResource(ctx context.Context, r models.Resource) error {
	tags, err := json.Marshal(orEmpty(r.Tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	prereqs, err := json.Marshal(orEmpty(r.Prerequisites))
	if err != nil {
		return fmt.Errorf("encode prerequisites: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO resources
			(id, title, description, url, media_type, difficulty,
			 duration_minutes, rating, rating_count, tags, prerequisites,
			 learning_style, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			url = excluded.url,
			media_type = excluded.media_type,
			difficulty = excluded.difficulty,
			duration_minutes = excluded.duration_minutes,
			rating = excluded.rating,
			rating_count = excluded.rating_count,
			tags = excluded.tags,
			prerequisites = excluded.prerequisites,
			learning_style = excluded.learning_style,
			source = excluded.source`,
		r.ID, r.Title, r.Description, r.URL, string(r.MediaType),
		string(r.Difficulty), r.DurationMinutes, r.Rating, r.RatingCount,
		string(tags), string(prereqs), string(r.LearningStyle), r.Source)
	if err != nil {
		return fmt.Errorf("upsert resource %d: %w", r.ID, err)
	}
	return nil
}

func (s *SQLite) GetResource(ctx context.Context, id int64) (*models.Resource, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, url, media_type, difficulty,
		        duration_minutes, rating, rating_count, tags, prerequisites,
		        learning_style, source
		 FROM resources WHERE id = ?`, id)
	r, err := scanResource(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("resource %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load resource %d: %w", id, err)
	}
	return r, nil
}

func (s *SQLite) ListResources(ctx context.Context) ([]models.Resource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, url, media_type, difficulty,
		        duration_minutes, rating, rating_count, tags, prerequisites,
		        learning_style, source
		 FROM resources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var out []models.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return out, nil
}

func (s *SQLite) RecordInteraction(ctx context.Context, in models.Interaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record interaction: %w", err)
	}
	defer tx.Rollback()

	created := in.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	var rating sql.NullFloat64
	if in.Type == models.InteractionRate && in.Rating > 0 {
		rating = sql.NullFloat64{Float64: float64(in.Rating), Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO interactions
			(user_id, resource_id, interaction_type, rating, time_spent_minutes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.UserID, in.ResourceID, string(in.Type), rating, in.TimeSpentMinutes, created)
	if err != nil {
		return fmt.Errorf("record interaction: %w", err)
	}

	if rating.Valid {
		if err := recomputeRating(ctx, tx, in.ResourceID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// recomputeRating sets the resource's rating to the mean of all rate
// interactions, rounded to two decimals, and rating_count to their count.
func recomputeRating(ctx context.Context, tx *sql.Tx, resourceID int64) error {
	var sum float64
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(rating), 0), COUNT(rating)
		 FROM interactions
		 WHERE resource_id = ? AND interaction_type = 'rate' AND rating IS NOT NULL`,
		resourceID).Scan(&sum, &count)
	if err != nil {
		return fmt.Errorf("aggregate ratings for resource %d: %w", resourceID, err)
	}
	if count == 0 {
		return nil
	}
	avg := math.Round(sum/float64(count)*100) / 100
	_, err = tx.ExecContext(ctx,
		`UPDATE resources SET rating = ?, rating_count = ? WHERE id = ?`,
		avg, count, resourceID)
	if err != nil {
		return fmt.Errorf("update rating for resource %d: %w", resourceID, err)
	}
	return nil
}

func (s *SQLite) UserInteractions(ctx context.Context, userID int64) ([]models.Interaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, resource_id, interaction_type, rating, time_spent_minutes, created_at
		 FROM interactions WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("load interactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var out []models.Interaction
	for rows.Next() {
		var in models.Interaction
		var typ string
		var rating sql.NullFloat64
		if err := rows.Scan(&in.UserID, &in.ResourceID, &typ, &rating,
			&in.TimeSpentMinutes, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in.Type = models.InteractionType(typ)
		if rating.Valid {
			in.Rating = int(rating.Float64)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load interactions for user %d: %w", userID, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (*models.Resource, error) {
	var r models.Resource
	var mediaType, difficulty, style, tags, prereqs string
	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.URL, &mediaType,
		&difficulty, &r.DurationMinutes, &r.Rating, &r.RatingCount,
		&tags, &prereqs, &style, &r.Source)
	if err != nil {
		return nil, err
	}
	r.MediaType = models.MediaType(mediaType)
	r.Difficulty = models.Difficulty(difficulty)
	r.LearningStyle = models.LearningStyle(style)
	if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
		return nil, fmt.Errorf("decode tags for resource %d: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(prereqs), &r.Prerequisites); err != nil {
		return nil, fmt.Errorf("decode prerequisites for resource %d: %w", r.ID, err)
	}
	return &r, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
