// Package postings holds the in-memory inverted index: field -> term ->
// docKey -> posting, plus the dirty set of (field, term) pairs pending
// persistence.
package postings

import (
	"sync"

	"github.com/ftskit/ftsengine/internal/docid"
)

// Posting is one document's contribution to a term's posting list.
type Posting struct {
	DocID         docid.ID
	TermFrequency float64
	Metadata      map[string]any
}

// Key identifies a (field, term) pair, the granularity at which postings
// are persisted and marked dirty.
type Key struct {
	Field string
	Term  string
}

// termEntry is one term's posting list.
type termEntry struct {
	docs map[string]Posting
}

func newTermEntry() *termEntry {
	return &termEntry{docs: make(map[string]Posting)}
}

// Store is the engine's in-memory postings map.
type Store struct {
	mu    sync.RWMutex
	terms map[Key]*termEntry
	dirty map[Key]struct{}
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		terms: make(map[Key]*termEntry),
		dirty: make(map[Key]struct{}),
	}
}

// Upsert writes/overwrites the posting for (field, term, docKey) and marks
// the pair dirty.
func (s *Store) Upsert(field, term string, p Posting) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := Key{Field: field, Term: term}
	entry, ok := s.terms[k]
	if !ok {
		entry = newTermEntry()
		s.terms[k] = entry
	}
	entry.docs[p.DocID.String()] = p
	s.dirty[k] = struct{}{}
}

// Get returns the posting list for (field, term), or nil if the term has
// no in-memory entries.
func (s *Store) Get(field, term string) map[string]Posting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.terms[Key{Field: field, Term: term}]
	if !ok {
		return nil
	}
	out := make(map[string]Posting, len(entry.docs))
	for k, v := range entry.docs {
		out[k] = v
	}
	return out
}

// DocFrequency returns the number of documents currently posted against
// (field, term).
func (s *Store) DocFrequency(field, term string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.terms[Key{Field: field, Term: term}]
	if !ok {
		return 0
	}
	return len(entry.docs)
}

// RemoveDocument walks every posting list, removing docKey wherever
// present, marking affected terms dirty. Lists that become empty are left
// in place (empty) so persistPostings can detect and queue their deletion;
// they are removed from the in-memory map there, not here.
func (s *Store) RemoveDocument(docKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, entry := range s.terms {
		if _, ok := entry.docs[docKey]; !ok {
			continue
		}
		delete(entry.docs, docKey)
		s.dirty[k] = struct{}{}
	}
}

// DirtyKeys returns a snapshot of the current dirty set.
func (s *Store) DirtyKeys() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Key, 0, len(s.dirty))
	for k := range s.dirty {
		out = append(out, k)
	}
	return out
}

// IsEmpty reports whether (field, term)'s doc map is empty (including the
// "never existed" case), the condition that queues a term for deletion.
func (s *Store) IsEmpty(field, term string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.terms[Key{Field: field, Term: term}]
	if !ok {
		return true
	}
	return len(entry.docs) == 0
}

// DeleteTerm removes (field, term) from the in-memory map entirely, used
// once persistPostings has queued its deletion from storage.
func (s *Store) DeleteTerm(field, term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.terms, Key{Field: field, Term: term})
}

// ClearDirty empties the dirty set, called after a successful flush.
func (s *Store) ClearDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = make(map[Key]struct{})
}

// MarkDirty explicitly marks (field, term) dirty, used by snapshot import.
func (s *Store) MarkDirty(field, term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty[Key{Field: field, Term: term}] = struct{}{}
}

// Clear drops every in-memory posting and the dirty set.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms = make(map[Key]*termEntry)
	s.dirty = make(map[Key]struct{})
}

// Snapshot captures every (field, term) posting list for persistence/export.
type Snapshot struct {
	Field     string
	Term      string
	Documents []Posting
}

// Export returns every term's posting list, for full-state snapshots.
func (s *Store) Export() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Snapshot, 0, len(s.terms))
	for k, entry := range s.terms {
		if len(entry.docs) == 0 {
			continue
		}
		docs := make([]Posting, 0, len(entry.docs))
		for _, p := range entry.docs {
			docs = append(docs, p)
		}
		out = append(out, Snapshot{Field: k.Field, Term: k.Term, Documents: docs})
	}
	return out
}
