// Package engine implements the facade coordinating the ingestion
// pipeline, in-memory postings, vocabulary, document stats, the term LRU
// cache and the persistence adapter into add/flush/search/snapshot
// operations. Per the concurrency model this package's consumers must
// follow, an Engine is not safe for concurrent invocation from multiple
// goroutines; cross-goroutine handoff is done via ExportSnapshot/
// ImportSnapshot on a new owner.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ftskit/ftsengine/internal/accumulate"
	"github.com/ftskit/ftsengine/internal/adapter"
	"github.com/ftskit/ftsengine/internal/config"
	"github.com/ftskit/ftsengine/internal/docid"
	"github.com/ftskit/ftsengine/internal/docstats"
	"github.com/ftskit/ftsengine/internal/ftserrors"
	"github.com/ftskit/ftsengine/internal/fuzzy"
	"github.com/ftskit/ftsengine/internal/lru"
	"github.com/ftskit/ftsengine/internal/pipeline"
	"github.com/ftskit/ftsengine/internal/postings"
	"github.com/ftskit/ftsengine/internal/vocabulary"
)

const (
	cacheKeyDocumentStats = "document-stats"
	cacheKeyVocabulary    = "vocabulary"
)

// cachedPosting is the decoded, cache-resident form of one posting list
// entry: scorer-ready, independent of the wire encoding it came from.
type cachedPosting struct {
	DocID         string
	TermFrequency float64
	IsPrefix      bool
}

// Engine coordinates a single named index end to end.
type Engine struct {
	name   string
	fields []string
	cfg    config.Config

	store adapter.Store

	indexPipeline *accumulate.Indexer
	fullPipeline  *pipeline.Pipeline
	queryPipeline *pipeline.Pipeline

	postings *postings.Store
	stats    *docstats.Stats
	vocab    *vocabulary.Vocabulary
	expander *fuzzy.Expander

	termCache *lru.Cache[string, []cachedPosting]

	pendingDocuments map[string][]byte

	opened  bool
	openErr error
	breaker *ftserrors.CircuitBreaker

	logger *slog.Logger
}

// New builds an Engine bound to store, using cfg for its field list,
// pipeline options and cache sizes. The adapter is not opened until the
// first operation that needs it (ensureOpen memoises the result).
func New(cfg config.Config, store adapter.Store, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	termCache, err := lru.New[string, []cachedPosting](cfg.Cache.Terms)
	if err != nil {
		return nil, err
	}

	opts := cfg.Pipeline.ToPipelineOptions()
	indexPipe := pipeline.Build(opts)

	vocab := vocabulary.New()

	return &Engine{
		name:             cfg.Name,
		fields:           cfg.Fields,
		cfg:              cfg,
		store:            store,
		indexPipeline:    accumulate.NewIndexer(indexPipe),
		fullPipeline:     indexPipe,
		queryPipeline:    pipeline.Build(opts.WithoutEdgeNGrams()),
		postings:         postings.New(),
		stats:            docstats.New(),
		vocab:            vocab,
		expander:         fuzzy.NewExpander(vocab),
		termCache:        termCache,
		pendingDocuments: make(map[string][]byte),
		breaker:          ftserrors.NewCircuitBreaker(cfg.Name+"-adapter", 5, 30*time.Second),
		logger:           logger,
	}, nil
}

// ensureOpen opens the adapter exactly once, memoising the result for
// every subsequent caller.
func (e *Engine) ensureOpen(ctx context.Context) error {
	if e.opened {
		return e.openErr
	}
	e.openErr = e.breaker.Execute(func() error {
		return e.store.Open(ctx, e.cfg.Storage.Version)
	})
	e.opened = true
	if e.openErr != nil {
		e.logger.Error("failed to open adapter", "index", e.name, "error", e.openErr)
	}
	return e.openErr
}

// Add ingests one document: tokenizes its fields, upserts postings,
// refreshes the LRU cache for newly-dirty terms, and conditionally
// persists per opts.
func (e *Engine) Add(ctx context.Context, input AddInput, opts AddOptions) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}

	result, err := e.indexPipeline.Ingest(accumulate.Record{
		DocID:    input.DocID,
		Fields:   input.Fields,
		Store:    input.Store,
		HasStore: input.HasStore,
	})
	if err != nil {
		return err
	}
	if result.TotalLength == 0 {
		return nil
	}

	e.applyIngestResult(result)

	docKey := input.DocID.String()

	if opts.persist() {
		if err := e.persistPostings(ctx); err != nil {
			return err
		}
		if input.HasStore {
			if err := e.persistDocument(ctx, docKey, input.Store); err != nil {
				return err
			}
		}
	} else if input.HasStore {
		payload, err := json.Marshal(input.Store)
		if err != nil {
			return ftserrors.InternalError("failed to marshal stored document", err)
		}
		e.pendingDocuments[docKey] = payload
	}

	return nil
}

// applyIngestResult upserts postings/vocabulary/stats for one ingest
// Result and refreshes the term cache for every (field, term) pair it
// touched, without persisting anything.
func (e *Engine) applyIngestResult(result accumulate.Result) {
	docKey := result.DocID.String()
	e.stats.AddDocument(docKey, result.TotalLength)

	touched := make(map[postings.Key]struct{})
	for field, freqs := range result.FieldFrequencies {
		metadataByTerm := result.FieldMetadata[field]
		for term, freq := range freqs {
			meta := metadataByTerm[term]
			e.postings.Upsert(field, term, postings.Posting{
				DocID:         result.DocID,
				TermFrequency: float64(freq),
				Metadata:      meta,
			})
			touched[postings.Key{Field: field, Term: term}] = struct{}{}

			if !isPrefixMetadata(meta) && !e.vocab.Has(term) {
				e.vocab.Add(term)
			}
		}
	}

	for k := range touched {
		e.refreshTermCache(k.Field, k.Term)
	}
}

func isPrefixMetadata(meta map[string]any) bool {
	if meta == nil {
		return false
	}
	v, _ := meta["isPrefix"].(bool)
	return v
}

// refreshTermCache recomputes the decoded posting list for (field, term)
// straight from the in-memory store and writes it into the term cache, so
// the term is immediately queryable without a round trip through the
// adapter.
func (e *Engine) refreshTermCache(field, term string) {
	docs := e.postings.Get(field, term)
	list := make([]cachedPosting, 0, len(docs))
	for _, p := range docs {
		list = append(list, cachedPosting{
			DocID:         p.DocID.String(),
			TermFrequency: p.TermFrequency,
			IsPrefix:      isPrefixMetadata(p.Metadata),
		})
	}
	e.termCache.Set(cacheKey(field, term), list)
}

func cacheKey(field, term string) string {
	return field + ":" + term
}

// GetDocument returns the stored payload for docID, if any.
func (e *Engine) GetDocument(ctx context.Context, id docid.ID) ([]byte, bool, error) {
	if err := e.ensureOpen(ctx); err != nil {
		return nil, false, err
	}
	docKey := id.String()
	if payload, ok := e.pendingDocuments[docKey]; ok {
		return payload, true, nil
	}
	rec, found, err := e.store.GetDocument(ctx, docKey)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return rec.Payload, true, nil
}

func (e *Engine) persistDocument(ctx context.Context, docKey string, store any) error {
	payload, err := json.Marshal(store)
	if err != nil {
		return ftserrors.InternalError("failed to marshal stored document", err)
	}
	return e.store.PutDocument(ctx, adapter.DocumentRecord{
		DocID:     docKey,
		Payload:   payload,
		UpdatedAt: time.Now().UnixMilli(),
	})
}

// Remove strips docID from every in-memory posting list, marks affected
// terms dirty, persists immediately, clears the term cache (to avoid
// serving stale hits), then removes the stats entry and stored document.
// This only affects postings currently loaded in memory for this session;
// persisted chunks of terms not touched this session still list docID.
func (e *Engine) Remove(ctx context.Context, id docid.ID) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}
	docKey := id.String()

	e.postings.RemoveDocument(docKey)
	if err := e.persistPostings(ctx); err != nil {
		return err
	}
	e.termCache.Clear()

	e.stats.RemoveDocument(docKey)
	delete(e.pendingDocuments, docKey)
	if err := e.store.DeleteDocument(ctx, docKey); err != nil {
		return err
	}
	return nil
}

// Clear drops all in-memory state and clears every object store the
// adapter manages for this index.
func (e *Engine) Clear(ctx context.Context) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}
	e.postings.Clear()
	e.stats.Clear()
	e.vocab.Clear()
	e.termCache.Clear()
	e.pendingDocuments = make(map[string][]byte)

	for _, store := range []string{
		adapter.StoreMetadata, adapter.StoreTerms, adapter.StoreVectors,
		adapter.StoreDocuments, adapter.StoreCacheState,
	} {
		if err := e.store.ClearStore(ctx, store); err != nil {
			return err
		}
	}
	return nil
}

// Stats reports the engine's current document/term counts and average
// document length.
func (e *Engine) Stats() Stats {
	cacheStats := e.termCache.Stats()
	return Stats{
		DocumentCount:  e.stats.Count(),
		TermCount:      e.vocab.Len(),
		AvgDocLength:   e.stats.AverageLength(),
		CacheSize:      cacheStats.Size,
		CacheHits:      cacheStats.Hits,
		CacheMisses:    cacheStats.Misses,
		CacheEvictions: cacheStats.Evictions,
		DirtyTerms:     len(e.postings.DirtyKeys()),
	}
}

// Destroy clears in-memory state and deletes the underlying database.
func (e *Engine) Destroy(ctx context.Context) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}
	e.postings.Clear()
	e.stats.Clear()
	e.vocab.Clear()
	e.termCache.Clear()
	e.pendingDocuments = make(map[string][]byte)

	return e.store.DeleteDatabase(ctx)
}
