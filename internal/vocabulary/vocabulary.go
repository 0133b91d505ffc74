// Package vocabulary tracks the set of original (non-prefix) terms the
// indexer has ever seen, used by fuzzy expansion as its candidate set.
package vocabulary

import "sync"

// Vocabulary is an append-only set of terms, versioned so dependent caches
// (fuzzy expansion) can detect when their results are stale.
type Vocabulary struct {
	mu      sync.RWMutex
	terms   map[string]struct{}
	version uint64
	dirty   bool
}

// New returns an empty Vocabulary.
func New() *Vocabulary {
	return &Vocabulary{terms: make(map[string]struct{})}
}

// Add inserts term if not already present. Prefix tokens produced by edge
// n-gram expansion must never be added here; only original terms belong in
// the vocabulary fuzzy matching searches over.
func (v *Vocabulary) Add(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.terms[term]; ok {
		return
	}
	v.terms[term] = struct{}{}
	v.version++
	v.dirty = true
}

// Has reports whether term is in the vocabulary.
func (v *Vocabulary) Has(term string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.terms[term]
	return ok
}

// Terms returns every term currently in the vocabulary. The returned slice
// is a copy; mutating it does not affect the Vocabulary.
func (v *Vocabulary) Terms() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]string, 0, len(v.terms))
	for t := range v.terms {
		out = append(out, t)
	}
	return out
}

// Len returns the number of distinct terms tracked.
func (v *Vocabulary) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.terms)
}

// Version returns a counter that increments whenever Add inserts a new
// term and on every Clear and Load call, letting callers (fuzzy's expansion cache) detect staleness cheaply.
func (v *Vocabulary) Version() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

// Clear empties the vocabulary. Removing individual documents never prunes
// their terms from the vocabulary, only an explicit clear does: a term may
// still be shared by other documents, and walking postings to check isn't
// worth the cost.
func (v *Vocabulary) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.terms = make(map[string]struct{})
	v.version++
	v.dirty = true
}

// Dirty reports whether the vocabulary has changed since the last
// MarkPersisted call, the condition persistVocabulary checks before writing.
func (v *Vocabulary) Dirty() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.dirty
}

// MarkPersisted clears the dirty flag, called after a successful
// persistVocabulary.
func (v *Vocabulary) MarkPersisted() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dirty = false
}

// Snapshot is the persisted form of a Vocabulary.
type Snapshot struct {
	Terms []string `json:"terms"`
}

// Snapshot captures the current term set for persistence.
func (v *Vocabulary) Snapshot() Snapshot {
	return Snapshot{Terms: v.Terms()}
}

// Load replaces the vocabulary's contents with a previously captured
// snapshot.
func (v *Vocabulary) Load(snap Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.terms = make(map[string]struct{}, len(snap.Terms))
	for _, t := range snap.Terms {
		v.terms[t] = struct{}{}
	}
	v.version++
}
