// Package memstore implements adapter.Store entirely in memory, used by
// tests and by engines that never need durability across process restarts.
package memstore

import (
	"context"
	"sync"

	"github.com/ftskit/ftsengine/internal/adapter"
)

// Store is an in-process adapter.Store. All methods are safe for
// concurrent use, which Engine.Flush relies on: it calls in from one
// goroutine per flush sub-operation.
type Store struct {
	mu sync.Mutex

	opened bool

	metadata   map[string]adapter.MetadataRecord
	terms      map[adapter.TermKey]adapter.TermChunk
	vectors    map[string]adapter.VectorRecord
	documents  map[string]adapter.DocumentRecord
	cacheState map[string]adapter.CacheStateRecord
}

// New returns an unopened in-memory Store.
func New() *Store {
	return &Store{}
}

// Open implements adapter.Store.
func (s *Store) Open(ctx context.Context, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata = make(map[string]adapter.MetadataRecord)
	s.terms = make(map[adapter.TermKey]adapter.TermChunk)
	s.vectors = make(map[string]adapter.VectorRecord)
	s.documents = make(map[string]adapter.DocumentRecord)
	s.cacheState = make(map[string]adapter.CacheStateRecord)
	s.opened = true
	return nil
}

// Close implements adapter.Store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = false
	return nil
}

// DeleteDatabase implements adapter.Store.
func (s *Store) DeleteDatabase(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata = make(map[string]adapter.MetadataRecord)
	s.terms = make(map[adapter.TermKey]adapter.TermChunk)
	s.vectors = make(map[string]adapter.VectorRecord)
	s.documents = make(map[string]adapter.DocumentRecord)
	s.cacheState = make(map[string]adapter.CacheStateRecord)
	return nil
}

// memTx is the Tx handle memstore hands to WithTransaction callbacks; it
// writes straight through to the parent Store since everything is
// in-process and already serialized by Store.mu.
type memTx struct {
	store *Store
}

func (t *memTx) PutTermChunk(chunk adapter.TermChunk) error {
	t.store.terms[adapter.TermKey{Field: chunk.Field, Term: chunk.Term, Chunk: chunk.Chunk}] = chunk
	return nil
}

func (t *memTx) DeleteTermChunk(key adapter.TermKey) error {
	delete(t.store.terms, key)
	return nil
}

func (t *memTx) PutDocument(rec adapter.DocumentRecord) error {
	t.store.documents[rec.DocID] = rec
	return nil
}

func (t *memTx) DeleteDocument(docID string) error {
	delete(t.store.documents, docID)
	return nil
}

func (t *memTx) PutMetadata(rec adapter.MetadataRecord) error {
	t.store.metadata[rec.Key] = rec
	return nil
}

func (t *memTx) PutCacheState(rec adapter.CacheStateRecord) error {
	t.store.cacheState[rec.Key] = rec
	return nil
}

// WithTransaction implements adapter.Store. Since all state lives in one
// process-local map set guarded by a single mutex, "transaction" here means
// holding that mutex for fn's duration; the state is cloned before fn runs
// and restored from that clone if fn returns an error, so every map is left
// exactly as it was before the call started.
func (s *Store) WithTransaction(ctx context.Context, stores []string, mode adapter.TxMode, fn func(tx adapter.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.cloneState()
	if err := fn(&memTx{store: s}); err != nil {
		s.restoreState(snapshot)
		return err
	}
	return nil
}

type stateSnapshot struct {
	metadata   map[string]adapter.MetadataRecord
	terms      map[adapter.TermKey]adapter.TermChunk
	vectors    map[string]adapter.VectorRecord
	documents  map[string]adapter.DocumentRecord
	cacheState map[string]adapter.CacheStateRecord
}

func (s *Store) cloneState() stateSnapshot {
	clone := stateSnapshot{
		metadata:   make(map[string]adapter.MetadataRecord, len(s.metadata)),
		terms:      make(map[adapter.TermKey]adapter.TermChunk, len(s.terms)),
		vectors:    make(map[string]adapter.VectorRecord, len(s.vectors)),
		documents:  make(map[string]adapter.DocumentRecord, len(s.documents)),
		cacheState: make(map[string]adapter.CacheStateRecord, len(s.cacheState)),
	}
	for k, v := range s.metadata {
		clone.metadata[k] = v
	}
	for k, v := range s.terms {
		clone.terms[k] = v
	}
	for k, v := range s.vectors {
		clone.vectors[k] = v
	}
	for k, v := range s.documents {
		clone.documents[k] = v
	}
	for k, v := range s.cacheState {
		clone.cacheState[k] = v
	}
	return clone
}

func (s *Store) restoreState(snap stateSnapshot) {
	s.metadata = snap.metadata
	s.terms = snap.terms
	s.vectors = snap.vectors
	s.documents = snap.documents
	s.cacheState = snap.cacheState
}

func (s *Store) PutMetadata(ctx context.Context, rec adapter.MetadataRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata[rec.Key] = rec
	return nil
}

func (s *Store) GetMetadata(ctx context.Context, key string) (adapter.MetadataRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.metadata[key]
	return rec, ok, nil
}

func (s *Store) DeleteMetadata(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.metadata, key)
	return nil
}

func (s *Store) PutTermChunk(ctx context.Context, chunk adapter.TermChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms[adapter.TermKey{Field: chunk.Field, Term: chunk.Term, Chunk: chunk.Chunk}] = chunk
	return nil
}

func (s *Store) GetTermChunk(ctx context.Context, key adapter.TermKey) (adapter.TermChunk, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chunk, ok := s.terms[key]
	return chunk, ok, nil
}

func (s *Store) DeleteTermChunk(ctx context.Context, key adapter.TermKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.terms, key)
	return nil
}

func (s *Store) PutTermChunksBatch(ctx context.Context, chunks []adapter.TermChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		s.terms[adapter.TermKey{Field: chunk.Field, Term: chunk.Term, Chunk: chunk.Chunk}] = chunk
	}
	return nil
}

func (s *Store) PutVector(ctx context.Context, rec adapter.VectorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors[vectorKey(rec.Field, rec.DocID)] = rec
	return nil
}

func (s *Store) GetVector(ctx context.Context, field, docID string) (adapter.VectorRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.vectors[vectorKey(field, docID)]
	return rec, ok, nil
}

func (s *Store) DeleteVector(ctx context.Context, field, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vectors, vectorKey(field, docID))
	return nil
}

func vectorKey(field, docID string) string {
	return field + "\x00" + docID
}

func (s *Store) PutDocument(ctx context.Context, rec adapter.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[rec.DocID] = rec
	return nil
}

func (s *Store) GetDocument(ctx context.Context, docID string) (adapter.DocumentRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.documents[docID]
	return rec, ok, nil
}

func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, docID)
	return nil
}

func (s *Store) PutDocumentsBatch(ctx context.Context, recs []adapter.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range recs {
		s.documents[rec.DocID] = rec
	}
	return nil
}

func (s *Store) PutCacheState(ctx context.Context, rec adapter.CacheStateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheState[rec.Key] = rec
	return nil
}

func (s *Store) GetCacheState(ctx context.Context, key string) (adapter.CacheStateRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.cacheState[key]
	return rec, ok, nil
}

func (s *Store) ClearStore(ctx context.Context, store string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch store {
	case adapter.StoreMetadata:
		s.metadata = make(map[string]adapter.MetadataRecord)
	case adapter.StoreTerms:
		s.terms = make(map[adapter.TermKey]adapter.TermChunk)
	case adapter.StoreVectors:
		s.vectors = make(map[string]adapter.VectorRecord)
	case adapter.StoreDocuments:
		s.documents = make(map[string]adapter.DocumentRecord)
	case adapter.StoreCacheState:
		s.cacheState = make(map[string]adapter.CacheStateRecord)
	}
	return nil
}

var _ adapter.Store = (*Store)(nil)
