// Package ftsengine is the public entry point to the full-text search
// engine: a functional-options constructor over the internal engine
// facade, plus the types its Add/Search/Bulk operations exchange.
//
// An Engine is not safe for concurrent use by multiple goroutines; see
// the package-level docs on internal/engine for the concurrency model.
package ftsengine

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/ftskit/ftsengine/internal/adapter"
	"github.com/ftskit/ftsengine/internal/adapter/boltstore"
	"github.com/ftskit/ftsengine/internal/adapter/memstore"
	"github.com/ftskit/ftsengine/internal/config"
	"github.com/ftskit/ftsengine/internal/docid"
	"github.com/ftskit/ftsengine/internal/engine"
	"github.com/ftskit/ftsengine/internal/ftserrors"
	"github.com/ftskit/ftsengine/internal/snapshot"
)

// DocID is the canonical document identifier type ingest and search
// operations exchange with callers.
type DocID = docid.ID

// FromString parses a canonical document id string (as produced by
// DocID.String) back into a DocID.
func FromString(s string) DocID { return docid.FromString(s) }

// FromInt builds a DocID from an integer primary key.
func FromInt(n uint64) DocID { return docid.FromInt(n) }

// AddInput is one document to ingest: its field text plus an optional
// opaque stored payload returned, re-encoded as JSON, by
// GetDocument/SearchDetailed.
type AddInput = engine.AddInput

// AddOptions controls a single Add call.
type AddOptions = engine.AddOptions

// SearchOptions controls a Search/SearchDetailed call.
type SearchOptions = engine.SearchOptions

// SearchHit is one ranked result from SearchDetailed.
type SearchHit = engine.SearchHit

// BulkOptions controls AddBulk's batching behavior.
type BulkOptions = engine.BulkOptions

// RecoveryOptions controls AddBulkWithRecovery's batching and failure
// handling behavior.
type RecoveryOptions = engine.RecoveryOptions

// Checkpoint reports AddBulkWithRecovery's progress and any per-document
// failures collected along the way.
type Checkpoint = engine.Checkpoint

// FailedDocument records one document that failed during a recovering
// bulk ingest.
type FailedDocument = engine.FailedDocument

// Snapshot is the full-fidelity exported state of an Engine.
type Snapshot = snapshot.Internal

// WorkerSnapshot is the flattened, transport-safe form of Snapshot.
type WorkerSnapshot = snapshot.Worker

// Config re-exports the layered configuration type so callers can build
// or load one (config.Load) and pass it to WithConfig.
type Config = config.Config

// Stats summarizes an Engine's current indexed state.
type Stats struct {
	// DocumentCount is the number of documents currently tracked.
	DocumentCount int
	// TermCount is the number of distinct terms in the vocabulary.
	TermCount int
	// AvgDocLength is the mean document length in tokens.
	AvgDocLength float64
	// CacheSize is the term cache's current occupancy.
	CacheSize int
	// CacheHits is the term cache's cumulative hit count.
	CacheHits int64
	// CacheMisses is the term cache's cumulative miss count.
	CacheMisses int64
	// CacheEvictions is the term cache's cumulative eviction count.
	CacheEvictions int64
	// DirtyTerms is the number of (field, term) postings lists awaiting
	// the next Flush.
	DirtyTerms int
}

// Engine is the public handle to one named index.
type Engine struct {
	inner *engine.Engine
}

// Option configures a new Engine at construction time.
type Option func(*options)

type options struct {
	name       string
	fields     []string
	cfg        *config.Config
	userPath   string
	projPath   string
	store      adapter.Store
	logger     *slog.Logger
	dbDir      string
	useBolt    bool
}

// WithName sets the index name. Required unless WithConfig supplies one.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithFields sets the indexed field list. Required unless WithConfig
// supplies one.
func WithFields(fields ...string) Option {
	return func(o *options) { o.fields = fields }
}

// WithConfig supplies a fully-formed configuration, overriding whatever
// Default() (and any WithConfigFiles layer) produced. WithName/WithFields
// applied after WithConfig still take effect on top of it.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = &cfg }
}

// WithConfigFiles loads layered YAML configuration from userPath and
// projectPath (either may be empty) on top of the built-in defaults,
// before environment variable overrides and validation run.
func WithConfigFiles(userPath, projectPath string) Option {
	return func(o *options) {
		o.userPath = userPath
		o.projPath = projectPath
	}
}

// WithStore supplies a concrete adapter.Store, bypassing WithDataDir. Use
// this to share a store across multiple engines or inject a test double.
func WithStore(store adapter.Store) Option {
	return func(o *options) { o.store = store }
}

// WithDataDir selects a durable bbolt-backed store rooted at dir, named
// after the configured storage database name (dir/<Storage.DBName>.db,
// "ftsengine.db" by default). Without WithStore or WithDataDir, New
// defaults to an in-memory store suitable for tests and ephemeral
// indices.
func WithDataDir(dir string) Option {
	return func(o *options) {
		o.useBolt = true
		o.dbDir = dir
	}
}

// WithDBFile selects a durable bbolt-backed store at the exact file path
// given, bypassing the dir/<Storage.DBName>.db convention WithDataDir
// applies.
func WithDBFile(path string) Option {
	return func(o *options) { o.store = boltstore.New(path) }
}

// WithLogger supplies the *slog.Logger the engine logs adapter failures
// through. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New builds an Engine from opts. Configuration resolves in this order:
// built-in defaults, WithConfigFiles' YAML layers (if given), WithConfig
// (if given), then WithName/WithFields, and finally validation.
func New(opts ...Option) (*Engine, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	cfg := config.Default()
	if o.userPath != "" || o.projPath != "" {
		loaded, err := config.Load(o.userPath, o.projPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if o.cfg != nil {
		cfg = *o.cfg
	}
	if o.name != "" {
		cfg.Name = o.name
	}
	if len(o.fields) > 0 {
		cfg.Fields = o.fields
	}
	if cfg.Name == "" {
		return nil, ftserrors.ValidationError("config: name must not be empty", nil)
	}
	if len(cfg.Fields) == 0 {
		return nil, ftserrors.ValidationError("config: fields must not be empty", nil)
	}

	store := o.store
	if store == nil {
		if o.useBolt {
			store = boltstore.New(filepath.Join(o.dbDir, cfg.Storage.DBName+".db"))
		} else {
			store = memstore.New()
		}
	}

	inner, err := engine.New(cfg, store, o.logger)
	if err != nil {
		return nil, err
	}
	return &Engine{inner: inner}, nil
}

// Add ingests one document.
func (e *Engine) Add(ctx context.Context, input AddInput, opts AddOptions) error {
	return e.inner.Add(ctx, input, opts)
}

// AddBulk ingests docs in batches and flushes once at the end.
func (e *Engine) AddBulk(ctx context.Context, docs []AddInput, opts BulkOptions) error {
	return e.inner.AddBulk(ctx, docs, opts)
}

// AddBulkWithRecovery ingests docs in batches, collecting per-document
// failures and periodic checkpoints instead of aborting on the first
// error.
func (e *Engine) AddBulkWithRecovery(ctx context.Context, docs []AddInput, opts RecoveryOptions) (Checkpoint, error) {
	return e.inner.AddBulkWithRecovery(ctx, docs, opts)
}

// Search ranks documents against q, returning canonical document id
// strings highest score first.
func (e *Engine) Search(ctx context.Context, q string, opts SearchOptions) ([]string, error) {
	return e.inner.Search(ctx, q, opts)
}

// SearchDetailed ranks documents against q, returning each hit's score
// and, if requested, its stored payload.
func (e *Engine) SearchDetailed(ctx context.Context, q string, opts SearchOptions) ([]SearchHit, error) {
	return e.inner.SearchDetailed(ctx, q, opts)
}

// GetDocument returns the stored payload for id, if any.
func (e *Engine) GetDocument(ctx context.Context, id DocID) ([]byte, bool, error) {
	return e.inner.GetDocument(ctx, id)
}

// Remove strips id from the index.
func (e *Engine) Remove(ctx context.Context, id DocID) error {
	return e.inner.Remove(ctx, id)
}

// Flush persists any pending in-memory changes.
func (e *Engine) Flush(ctx context.Context) error {
	return e.inner.Flush(ctx)
}

// Clear empties the index but keeps the underlying database open.
func (e *Engine) Clear(ctx context.Context) error {
	return e.inner.Clear(ctx)
}

// Destroy empties the index and deletes the underlying database.
func (e *Engine) Destroy(ctx context.Context) error {
	return e.inner.Destroy(ctx)
}

// Stats reports the engine's current document/term counts and average
// document length.
func (e *Engine) Stats() Stats {
	s := e.inner.Stats()
	return Stats{
		DocumentCount:  s.DocumentCount,
		TermCount:      s.TermCount,
		AvgDocLength:   s.AvgDocLength,
		CacheSize:      s.CacheSize,
		CacheHits:      s.CacheHits,
		CacheMisses:    s.CacheMisses,
		CacheEvictions: s.CacheEvictions,
		DirtyTerms:     s.DirtyTerms,
	}
}

// ExportSnapshot captures the engine's full in-memory state for transfer
// to another Engine instance via ImportSnapshot.
func (e *Engine) ExportSnapshot() Snapshot {
	return e.inner.ExportSnapshot()
}

// ImportSnapshot replaces the engine's entire indexed state from snap.
func (e *Engine) ImportSnapshot(ctx context.Context, snap Snapshot) error {
	return e.inner.ImportSnapshot(ctx, snap)
}

// ExportWorkerSnapshot returns the flattened, transport-safe snapshot
// form suitable for a structured clone across a worker boundary.
func (e *Engine) ExportWorkerSnapshot() WorkerSnapshot {
	return e.inner.ExportWorkerSnapshot()
}

// ImportWorkerSnapshot reconstructs engine state from a worker snapshot.
func (e *Engine) ImportWorkerSnapshot(ctx context.Context, w WorkerSnapshot) error {
	return e.inner.ImportWorkerSnapshot(ctx, w)
}
