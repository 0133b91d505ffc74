package engine

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ftskit/ftsengine/internal/adapter"
	"github.com/ftskit/ftsengine/internal/codec"
	"github.com/ftskit/ftsengine/internal/ftserrors"
	"github.com/ftskit/ftsengine/internal/postings"
)

// postingWire is the JSON shape one posting is encoded to before the whole
// per-term array is handed to the codec, so metadata round-trips through
// the json fallback path.
type postingWire struct {
	DocID         string         `json:"docId"`
	TermFrequency float64        `json:"termFrequency"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// persistPostings walks the dirty set once, writes all non-empty term
// chunks as a single batch transaction, deletes any chunk whose posting
// list emptied out, and clears the dirty set on success.
func (e *Engine) persistPostings(ctx context.Context) error {
	dirty := e.postings.DirtyKeys()
	if len(dirty) == 0 {
		return nil
	}

	var chunks []adapter.TermChunk
	var deletions []postings.Key

	for _, key := range dirty {
		if e.postings.IsEmpty(key.Field, key.Term) {
			deletions = append(deletions, key)
			continue
		}
		chunk, err := e.buildTermChunk(key)
		if err != nil {
			return err
		}
		chunks = append(chunks, chunk)
	}

	if len(deletions) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		for _, key := range deletions {
			key := key
			g.Go(func() error {
				return e.store.DeleteTermChunk(gctx, adapter.TermKey{Field: key.Field, Term: key.Term, Chunk: 0})
			})
		}
		if err := g.Wait(); err != nil {
			return ftserrors.TransactionError("failed to delete emptied term chunks", err)
		}
		for _, key := range deletions {
			e.postings.DeleteTerm(key.Field, key.Term)
		}
	}

	if len(chunks) > 0 {
		if err := e.store.PutTermChunksBatch(ctx, chunks); err != nil {
			return ftserrors.TransactionError("failed to batch-write term chunks", err)
		}
	}

	e.postings.ClearDirty()
	return nil
}

func (e *Engine) buildTermChunk(key postings.Key) (adapter.TermChunk, error) {
	docs := e.postings.Get(key.Field, key.Term)
	values := make([]any, 0, len(docs))
	for _, p := range docs {
		encoded, err := json.Marshal(postingWire{
			DocID:         p.DocID.String(),
			TermFrequency: p.TermFrequency,
			Metadata:      p.Metadata,
		})
		if err != nil {
			return adapter.TermChunk{}, ftserrors.InternalError("failed to encode posting", err)
		}
		values = append(values, string(encoded))
	}

	payload, enc, err := codec.Encode(values)
	if err != nil {
		return adapter.TermChunk{}, err
	}

	return adapter.TermChunk{
		Field:        key.Field,
		Term:         key.Term,
		Chunk:        0,
		Payload:      payload,
		Encoding:     string(enc),
		DocFrequency: len(docs),
	}, nil
}

// persistStats writes the document-stats snapshot into the cacheState
// store under its fixed key.
func (e *Engine) persistStats(ctx context.Context) error {
	data, err := json.Marshal(e.stats.Snapshot())
	if err != nil {
		return ftserrors.InternalError("failed to marshal document stats", err)
	}
	return e.store.PutCacheState(ctx, adapter.CacheStateRecord{
		Key:       cacheKeyDocumentStats,
		Payload:   data,
		UpdatedAt: time.Now().UnixMilli(),
	})
}

// persistVocabulary writes the vocabulary snapshot into the cacheState
// store under its fixed key, skipping the write entirely when the
// vocabulary hasn't changed since the last successful persist.
func (e *Engine) persistVocabulary(ctx context.Context) error {
	if !e.vocab.Dirty() {
		return nil
	}
	data, err := json.Marshal(e.vocab.Snapshot())
	if err != nil {
		return ftserrors.InternalError("failed to marshal vocabulary", err)
	}
	if err := e.store.PutCacheState(ctx, adapter.CacheStateRecord{
		Key:       cacheKeyVocabulary,
		Payload:   data,
		UpdatedAt: time.Now().UnixMilli(),
	}); err != nil {
		return err
	}
	e.vocab.MarkPersisted()
	return nil
}

// batchPersistDocuments flushes every pending stored document queued by
// Add(persist=false) in a single batch write, then empties the queue.
func (e *Engine) batchPersistDocuments(ctx context.Context) error {
	if len(e.pendingDocuments) == 0 {
		return nil
	}
	recs := make([]adapter.DocumentRecord, 0, len(e.pendingDocuments))
	now := time.Now().UnixMilli()
	for docKey, payload := range e.pendingDocuments {
		recs = append(recs, adapter.DocumentRecord{DocID: docKey, Payload: payload, UpdatedAt: now})
	}
	if err := e.store.PutDocumentsBatch(ctx, recs); err != nil {
		return ftserrors.TransactionError("failed to batch-write pending documents", err)
	}
	e.pendingDocuments = make(map[string][]byte)
	return nil
}

// Flush runs persistPostings, batchPersistDocuments, persistStats and (if
// the vocabulary is dirty) persistVocabulary as an independent group: they
// target disjoint object stores so their relative ordering doesn't matter,
// only that all four settle before Flush returns.
func (e *Engine) Flush(ctx context.Context) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.persistPostings(gctx) })
	g.Go(func() error { return e.batchPersistDocuments(gctx) })
	g.Go(func() error { return e.persistStats(gctx) })
	g.Go(func() error { return e.persistVocabulary(gctx) })

	return g.Wait()
}
