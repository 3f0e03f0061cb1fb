// Package feature converts heterogeneous resource records into a dense
// numeric feature matrix: a TF-IDF text signal, a one-hot categorical
// signal, and a standardized numeric signal, concatenated and reduced to a
// fixed dimensionality with a truncated SVD.
package feature

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/openlearn/compass/internal/vecmath"
)

// logSmooth is the smoothed inverse document frequency: ln((1+n)/(1+df)) + 1.
func logSmooth(n, df float64) float64 {
	return math.Log((1+n)/(1+df)) + 1
}

// englishStopWords is the set of common terms excluded from the vocabulary.
var englishStopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"a about above after again all am an and any are as at be because " +
			"been before being below between both but by can did do does doing " +
			"down during each few for from further had has have having he her " +
			"here hers him his how i if in into is it its itself just me more " +
			"most my no nor not now of off on once only or other our ours out " +
			"over own same she should so some such than that the their them " +
			"then there these they this those through to too under until up " +
			"very was we were what when where which while who whom why will " +
			"with you your yours") {
		englishStopWords[w] = struct{}{}
	}
}

// TFIDFVectorizer turns documents into term-frequency/inverse-document-
// frequency vectors over a capped vocabulary. Fit learns the vocabulary and
// document frequencies; Transform reuses them for later batches.
type TFIDFVectorizer struct {
	maxFeatures int
	vocab       map[string]int // term -> column
	idf         []float64      // per column
}

// NewTFIDFVectorizer creates a vectorizer with the given vocabulary cap.
// A cap <= 0 means unlimited.
func NewTFIDFVectorizer(maxFeatures int) *TFIDFVectorizer {
	return &TFIDFVectorizer{maxFeatures: maxFeatures}
}

// Fitted reports whether Fit has been called.
func (v *TFIDFVectorizer) Fitted() bool { return v.vocab != nil }

// Width returns the vocabulary size, 0 before fitting.
func (v *TFIDFVectorizer) Width() int { return len(v.idf) }

// tokenize lowercases the text and splits it into word tokens of at least
// two characters, dropping stop-words.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := englishStopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Fit learns the vocabulary and IDF weights from the corpus. When the corpus
// holds more distinct terms than the cap, the most frequent terms win, with
// alphabetical order breaking ties so fitting is deterministic.
func (v *TFIDFVectorizer) Fit(docs []string) {
	termCount := make(map[string]int)
	docFreq := make(map[string]int)

	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(doc) {
			termCount[tok]++
			seen[tok] = struct{}{}
		}
		for tok := range seen {
			docFreq[tok]++
		}
	}

	terms := make([]string, 0, len(termCount))
	for t := range termCount {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCount[terms[i]] != termCount[terms[j]] {
			return termCount[terms[i]] > termCount[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if v.maxFeatures > 0 && len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}
	// Column order is alphabetical within the selected vocabulary.
	sort.Strings(terms)

	v.vocab = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	n := float64(len(docs))
	for i, t := range terms {
		v.vocab[t] = i
		// Smoothed IDF: ln((1+n)/(1+df)) + 1.
		df := float64(docFreq[t])
		v.idf[i] = logSmooth(n, df)
	}
}

// Transform converts docs into L2-normalized TF-IDF rows using the fitted
// vocabulary. Terms outside the vocabulary are ignored.
func (v *TFIDFVectorizer) Transform(docs []string) [][]float64 {
	rows := make([][]float64, len(docs))
	for i, doc := range docs {
		row := make([]float64, len(v.idf))
		for _, tok := range tokenize(doc) {
			if col, ok := v.vocab[tok]; ok {
				row[col] += v.idf[col]
			}
		}
		vecmath.NormalizeF64(row)
		rows[i] = row
	}
	return rows
}

// FitTransform fits on docs then transforms them.
func (v *TFIDFVectorizer) FitTransform(docs []string) [][]float64 {
	v.Fit(docs)
	return v.Transform(docs)
}
