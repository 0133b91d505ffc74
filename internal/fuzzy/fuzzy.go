// Package fuzzy implements bounded Levenshtein distance and vocabulary
// expansion used by the query engine's fuzzy search mode.
package fuzzy

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ftskit/ftsengine/internal/vocabulary"
)

// Distance computes the Levenshtein edit distance between a and b using
// the Wagner-Fischer algorithm restricted to two rolling rows: O(min(|a|,
// |b|)) space, O(|a|*|b|) time.
func Distance(a, b string) int {
	ar, br := []rune(a), []rune(b)
	if len(ar) > len(br) {
		ar, br = br, ar
	}
	prev := make([]int, len(ar)+1)
	curr := make([]int, len(ar)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(br); j++ {
		curr[0] = j
		for i := 1; i <= len(ar); i++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			del := prev[i] + 1
			ins := curr[i-1] + 1
			sub := prev[i-1] + cost
			curr[i] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(ar)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// capDistance clamps a requested fuzzy distance to [1, 3].
func capDistance(d int) int {
	if d < 1 {
		return 1
	}
	if d > 3 {
		return 3
	}
	return d
}

// expandCacheCapacity bounds the number of cached (term, distance) expansions.
const expandCacheCapacity = 1000

type cacheEntry struct {
	key     string
	matches []string
}

// Expander wraps a Vocabulary with a bounded expansion cache, invalidated
// wholesale on every vocabulary mutation.
type Expander struct {
	vocab *vocabulary.Vocabulary

	mu          sync.Mutex
	lastVersion uint64
	order       []string
	cache       map[string][]string
}

// NewExpander builds an Expander over vocab.
func NewExpander(vocab *vocabulary.Vocabulary) *Expander {
	return &Expander{
		vocab: vocab,
		cache: make(map[string][]string),
	}
}

// Expand returns every vocabulary term within capped distance d of term,
// preserving each match's original casing. Results are cached under
// "term:d"; the cache is dropped wholesale whenever the vocabulary's
// version counter has advanced since the last call.
func (e *Expander) Expand(term string, d int) []string {
	capped := capDistance(d)
	lower := strings.ToLower(term)
	key := fmt.Sprintf("%s:%d", lower, capped)

	e.mu.Lock()
	defer e.mu.Unlock()

	if v := e.vocab.Version(); v != e.lastVersion {
		e.cache = make(map[string][]string)
		e.order = e.order[:0]
		e.lastVersion = v
	}

	if cached, ok := e.cache[key]; ok {
		return cached
	}

	matches := expandAgainst(lower, capped, e.vocab.Terms())
	e.store(key, matches)
	return matches
}

func (e *Expander) store(key string, matches []string) {
	if _, exists := e.cache[key]; !exists {
		if len(e.order) >= expandCacheCapacity {
			oldest := e.order[0]
			e.order = e.order[1:]
			delete(e.cache, oldest)
		}
		e.order = append(e.order, key)
	}
	e.cache[key] = matches
}

// expandAgainst implements fuzzyExpand's matching rule directly against a
// term slice, independent of any cache: skip entries whose length differs
// from term by more than d, then test distance.
func expandAgainst(lowerTerm string, d int, vocab []string) []string {
	termLen := len([]rune(lowerTerm))
	out := make([]string, 0)
	for _, v := range vocab {
		vLower := strings.ToLower(v)
		if abs(len([]rune(vLower))-termLen) > d {
			continue
		}
		if Distance(lowerTerm, vLower) <= d {
			out = append(out, v)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
