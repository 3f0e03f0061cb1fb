package feature

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/openlearn/compass/internal/models"
	"github.com/openlearn/compass/internal/vecmath"
)

const (
	// DefaultTargetDim is the fixed output dimensionality of the builder.
	DefaultTargetDim = 20

	// DefaultMaxVocab caps the TF-IDF vocabulary.
	DefaultMaxVocab = 1000
)

// Config configures a Builder.
type Config struct {
	// TargetDim is the fixed output dimensionality. Default: 20.
	TargetDim int

	// MaxVocab caps the TF-IDF vocabulary. Default: 1000.
	MaxVocab int

	// Logger receives warnings about degenerate inputs. Default: logrus standard logger.
	Logger *logrus.Logger
}

func (c Config) withDefaults() Config {
	if c.TargetDim <= 0 {
		c.TargetDim = DefaultTargetDim
	}
	if c.MaxVocab <= 0 {
		c.MaxVocab = DefaultMaxVocab
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}

// Builder converts resource batches into dense TargetDim-wide feature rows.
// The first Build fits the vectorizer, encoder, scaler, and SVD; later
// builds reuse the fitted state so rows from different batches live in the
// same space. Reset discards the fitted state for a full rebuild.
//
// Builder is not safe for concurrent use; callers serialize access.
type Builder struct {
	cfg     Config
	tfidf   *TFIDFVectorizer
	encoder *OneHotEncoder
	scaler  *StandardScaler
	svd     *TruncatedSVD
	log     *logrus.Logger
}

// NewBuilder creates a Builder with the given configuration.
func NewBuilder(cfg Config) *Builder {
	cfg = cfg.withDefaults()
	return &Builder{
		cfg:     cfg,
		tfidf:   NewTFIDFVectorizer(cfg.MaxVocab),
		encoder: &OneHotEncoder{},
		scaler:  &StandardScaler{},
		svd:     NewTruncatedSVD(cfg.TargetDim),
		log:     cfg.Logger,
	}
}

// Dim returns the fixed output dimensionality.
func (b *Builder) Dim() int { return b.cfg.TargetDim }

// Fitted reports whether the builder has learned its corpus statistics.
func (b *Builder) Fitted() bool { return b.tfidf.Fitted() }

// Reset discards all fitted state so the next Build refits from scratch.
func (b *Builder) Reset() {
	b.tfidf = NewTFIDFVectorizer(b.cfg.MaxVocab)
	b.encoder = &OneHotEncoder{}
	b.scaler = &StandardScaler{}
	b.svd = NewTruncatedSVD(b.cfg.TargetDim)
}

// Build converts resources into an N x TargetDim matrix. Row i always
// corresponds to resources[i]. Degenerate inputs (empty corpus, zero-width
// signals) and non-finite values produce zero rows rather than errors.
func (b *Builder) Build(resources []models.Resource) [][]float64 {
	if len(resources) == 0 {
		return [][]float64{}
	}

	wide := b.combine(resources)
	if len(wide) == 0 || len(wide[0]) == 0 {
		b.log.Warn("empty feature matrix, returning zeros")
		return zeroMatrix(len(resources), b.cfg.TargetDim)
	}
	for _, row := range wide {
		vecmath.Sanitize(row)
	}

	if !b.svd.Fitted() {
		if err := b.svd.Fit(wide); err != nil {
			b.log.WithError(err).Warn("SVD fit failed, returning zeros")
			return zeroMatrix(len(resources), b.cfg.TargetDim)
		}
	}

	reduced := b.svd.Transform(wide)
	out := make([][]float64, len(reduced))
	for i, row := range reduced {
		vecmath.Sanitize(row)
		padded := make([]float64, b.cfg.TargetDim)
		copy(padded, row)
		out[i] = padded
	}
	return out
}

// combine builds the wide (pre-reduction) matrix from the three signals.
func (b *Builder) combine(resources []models.Resource) [][]float64 {
	texts := make([]string, len(resources))
	cats := make([][]string, len(resources))
	nums := make([][]float64, len(resources))
	for i, r := range resources {
		texts[i] = resourceText(r)
		cats[i] = []string{string(r.Difficulty), string(r.MediaType), string(r.LearningStyle)}
		nums[i] = []float64{float64(r.DurationMinutes), r.Rating, float64(r.RatingCount)}
	}

	var textRows [][]float64
	if b.tfidf.Fitted() {
		textRows = b.tfidf.Transform(texts)
	} else {
		textRows = b.tfidf.FitTransform(texts)
	}
	if !b.encoder.Fitted() {
		b.encoder.Fit(cats)
	}
	catRows := b.encoder.Transform(cats)
	if !b.scaler.Fitted() {
		b.scaler.Fit(nums)
	}
	numRows := b.scaler.Transform(nums)

	wide := make([][]float64, len(resources))
	for i := range resources {
		row := make([]float64, 0, len(textRows[i])+len(catRows[i])+len(numRows[i]))
		row = append(row, textRows[i]...)
		row = append(row, catRows[i]...)
		row = append(row, numRows[i]...)
		wide[i] = row
	}
	return wide
}

// resourceText concatenates the text fields used for the TF-IDF signal.
func resourceText(r models.Resource) string {
	var sb strings.Builder
	sb.WriteString(r.Title)
	if r.Description != "" {
		sb.WriteByte(' ')
		sb.WriteString(r.Description)
	}
	for _, t := range r.Tags {
		sb.WriteByte(' ')
		sb.WriteString(t)
	}
	return sb.String()
}

func zeroMatrix(rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
	}
	return out
}

// MatrixKey is a cheap fingerprint of a corpus snapshot, used by callers to
// detect when a cached feature matrix no longer matches the resource set.
func MatrixKey(resources []models.Resource) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(len(resources)))
	for _, r := range resources {
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatInt(r.ID, 10))
	}
	return sb.String()
}
