// Package scorer implements the BM25-like ranking function shared by
// search and searchDetailed: term frequency, inverse document frequency,
// document-length normalization, plus prefix/fuzzy penalties.
package scorer

import (
	"math"
	"sort"
)

// Fixed BM25-like tuning constants; do not make these configurable without
// updating the scoring tests that assert on them.
const (
	k1 = 1.2
	b  = 0.75
	d  = 0.5

	// PrefixMatchPenalty discounts contributions from edge-n-gram prefix
	// postings relative to an exact-term match.
	PrefixMatchPenalty = 0.7
	// FuzzyBoost is the query-token boost applied to vocabulary terms
	// reached through fuzzy expansion, vs. 1.0 for the literal query term.
	FuzzyBoost = 0.8
)

// Posting is the minimal shape the scorer needs from a term's posting list
// entry: a term frequency already adjusted by any query-token boost, and
// whether it came from a prefix (edge n-gram) match.
type Posting struct {
	DocKey        string
	TermFrequency float64
	IsPrefix      bool
}

// IDF returns the chunk's stored inverse document frequency if present
// (storedIDF, ok=true), else falls back to log(1 + 1/docFrequency); zero
// if docFrequency <= 0.
func IDF(storedIDF float64, hasStoredIDF bool, docFrequency int) float64 {
	if hasStoredIDF {
		return storedIDF
	}
	if docFrequency <= 0 {
		return 0
	}
	return math.Log(1 + 1/float64(docFrequency))
}

// Contribution computes one posting's score contribution for a single
// query token.
func Contribution(idf, tf float64, docLength int, avgDocLength float64, isPrefix bool) float64 {
	norm := 1 - b + b*float64(docLength)/math.Max(avgDocLength, 1)
	contribution := idf * (d + ((k1+1)*tf)/(k1*norm+tf))
	if isPrefix {
		contribution *= PrefixMatchPenalty
	}
	return contribution
}

// Accumulator sums per-docKey contributions across query tokens and posting
// lists, then produces a sorted, truncated result.
type Accumulator struct {
	scores map[string]float64
}

// NewAccumulator returns an empty score Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{scores: make(map[string]float64)}
}

// Add adds contribution to docKey's running total.
func (a *Accumulator) Add(docKey string, contribution float64) {
	a.scores[docKey] += contribution
}

// Scored pairs a document key with its aggregate score.
type Scored struct {
	DocKey string
	Score  float64
}

// TopK sorts scores descending, optionally dropping entries below minScore,
// and truncates to limit (clamped to at least 1).
func (a *Accumulator) TopK(limit int, minScore float64) []Scored {
	if limit < 1 {
		limit = 1
	}
	out := make([]Scored, 0, len(a.scores))
	for k, v := range a.scores {
		if minScore > 0 && v < minScore {
			continue
		}
		out = append(out, Scored{DocKey: k, Score: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
