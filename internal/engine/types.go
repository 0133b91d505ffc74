package engine

import (
	"time"

	"github.com/ftskit/ftsengine/internal/docid"
)

// AddInput is one document supplied to Add: a set of field texts to index
// plus an optional opaque stored payload retrievable by GetDocument.
type AddInput struct {
	DocID  docid.ID
	Fields map[string]string
	Store  any
	HasStore bool
}

// AddOptions controls Add's persistence behavior.
type AddOptions struct {
	// Persist defaults to true. When false, the document's postings stay
	// dirty (picked up by the next Flush) and any stored payload is queued
	// in pendingDocuments rather than written immediately.
	Persist *bool
}

func (o AddOptions) persist() bool {
	if o.Persist == nil {
		return true
	}
	return *o.Persist
}

// SearchOptions controls query construction, mode selection and ranking.
type SearchOptions struct {
	Fields          []string
	Limit           int
	Fuzzy           *int
	Mode            string
	MinScore        float64
	ApplyQueryNGrams bool
	IncludeStored   bool
}

// SearchHit is one ranked result from SearchDetailed.
type SearchHit struct {
	DocID  string
	Score  float64
	Stored []byte
	HasStored bool
}

// BulkOptions controls AddBulk's batching and progress reporting.
type BulkOptions struct {
	BatchSize    int
	Adaptive     bool
	MinBatchSize int
	MaxBatchSize int
	MaxMemoryMB  int
	// ProgressInterval, when positive, reports OnProgress every
	// ProgressInterval documents processed instead of the default
	// once-per-batch, wall-clock-throttled cadence.
	ProgressInterval int
	OnProgress       func(processed, total int)
}

func (o BulkOptions) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return 100
}

func (o BulkOptions) minBatch() int {
	if o.MinBatchSize > 0 {
		return o.MinBatchSize
	}
	return 10
}

func (o BulkOptions) maxBatch() int {
	if o.MaxBatchSize > 0 {
		return o.MaxBatchSize
	}
	return 1000
}

func (o BulkOptions) maxMemoryBytes() int64 {
	mb := o.MaxMemoryMB
	if mb <= 0 {
		mb = 32
	}
	return int64(mb) * 1024 * 1024
}

// RecoveryOptions extends BulkOptions with addBulkWithRecovery's error
// tolerance and checkpointing knobs.
type RecoveryOptions struct {
	BulkOptions
	ContinueOnError    bool
	EnableCheckpointing bool
	CheckpointInterval int
	OnCheckpoint       func(Checkpoint)
}

func (o RecoveryOptions) checkpointInterval() int {
	if o.CheckpointInterval > 0 {
		return o.CheckpointInterval
	}
	return 500
}

// Stats summarizes an Engine's current indexed state.
type Stats struct {
	DocumentCount int
	TermCount     int
	AvgDocLength  float64
	CacheSize     int
	CacheHits     int64
	CacheMisses   int64
	CacheEvictions int64
	DirtyTerms    int
}

// FailedDocument records one document's processing failure inside a
// recovery checkpoint.
type FailedDocument struct {
	Index int
	DocID string
	Error string
}

// Checkpoint is addBulkWithRecovery's progress report, both streamed via
// OnCheckpoint and returned as the operation's final result. RunID is
// stable across every checkpoint emitted by one AddBulkWithRecovery call,
// so a caller can correlate them (e.g. in logs) across a long-running
// recovering ingest.
type Checkpoint struct {
	RunID               string
	ProcessedCount      int
	LastSuccessfulBatch int
	FailedDocuments     []FailedDocument
	Timestamp           time.Time
}
