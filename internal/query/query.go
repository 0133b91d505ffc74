// Package query builds query tokens, resolves search mode, and expands
// fuzzy matches against the vocabulary. Posting retrieval, caching, and
// scoring are orchestrated by the engine package, which owns the adapter
// and LRU cache this package's tokens are ultimately resolved against.
package query

import (
	"strings"

	"github.com/ftskit/ftsengine/internal/fuzzy"
	"github.com/ftskit/ftsengine/internal/pipeline"
	"github.com/ftskit/ftsengine/internal/scorer"
)

// Mode selects how query terms are matched against the index.
type Mode string

const (
	ModeExact  Mode = "exact"
	ModePrefix Mode = "prefix"
	ModeFuzzy  Mode = "fuzzy"
	ModeAuto   Mode = "auto"

	// defaultFuzzyDistance is used when mode resolves to fuzzy and the
	// caller did not supply an explicit fuzzy distance.
	defaultFuzzyDistance = 2
)

// DetermineSearchMode resolves the effective mode for a query: an explicit
// non-auto mode always wins; "auto" (or empty) resolves by trimmed query
// length alone, per spec: <=3 runes -> prefix, >=8 runes -> fuzzy, else
// exact.
func DetermineSearchMode(query string, explicit Mode) Mode {
	if explicit != "" && explicit != ModeAuto {
		return explicit
	}
	trimmed := strings.TrimSpace(query)
	n := len([]rune(trimmed))
	switch {
	case n <= 3:
		return ModePrefix
	case n >= 8:
		return ModeFuzzy
	default:
		return ModeExact
	}
}

// ResolveFuzzyDistance returns the fuzzy distance to apply for the
// resolved mode. When mode is fuzzy and the caller didn't set an explicit
// fuzzy option, it defaults to defaultFuzzyDistance (2).
func ResolveFuzzyDistance(mode Mode, fuzzyOption *int) int {
	if fuzzyOption != nil {
		return *fuzzyOption
	}
	if mode == ModeFuzzy {
		return defaultFuzzyDistance
	}
	return 0
}

// Token is one resolved (field, term) pair to score against, carrying the
// boost the scorer multiplies its contributions by.
type Token struct {
	Field string
	Term  string
	Boost float64
}

// BuildTokens tokenizes query through p for every field, deduplicating
// (field, term) pairs. Each resulting token has boost 1.0 (the exact
// term); fuzzy expansion is layered on separately by Expand.
func BuildTokens(p *pipeline.Pipeline, fields []string, query string) ([]Token, error) {
	seen := make(map[Token]struct{})
	out := make([]Token, 0)
	for _, field := range fields {
		tokens, err := p.Run(field, nil, query)
		if err != nil {
			return nil, err
		}
		for _, tok := range tokens {
			qt := Token{Field: field, Term: tok.Value, Boost: 1.0}
			if _, dup := seen[qt]; dup {
				continue
			}
			seen[qt] = struct{}{}
			out = append(out, qt)
		}
	}
	return out, nil
}

// Expand adds, for every token in tokens, one additional token per
// vocabulary term discovered by fuzzy expansion within distance d,
// carrying scorer.FuzzyBoost. The original exact tokens are returned
// unmodified alongside the expansions. d <= 0 disables expansion.
func Expand(tokens []Token, d int, expander *fuzzy.Expander) []Token {
	if d <= 0 || expander == nil {
		return tokens
	}
	seen := make(map[Token]struct{}, len(tokens))
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, t := range tokens {
		for _, match := range expander.Expand(t.Term, d) {
			qt := Token{Field: t.Field, Term: match, Boost: scorer.FuzzyBoost}
			if _, dup := seen[qt]; dup {
				continue
			}
			seen[qt] = struct{}{}
			out = append(out, qt)
		}
	}
	return out
}
