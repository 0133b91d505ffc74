package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ftskit/ftsengine/internal/accumulate"
	"github.com/ftskit/ftsengine/internal/ftserrors"
	"github.com/ftskit/ftsengine/internal/postings"
)

// progressThrottle is the minimum wall-clock gap between batch-level
// progress callbacks.
const progressThrottle = 100 * time.Millisecond

// AddBulk ingests docs in batches, updating in-memory postings/vocabulary/
// cache per batch (skipping the per-document cache refresh and storage
// write that Add performs, folded instead into one updateCaches pass per
// batch), then flushes once at the end.
//
// Progress reporting has two modes. With opts.ProgressInterval set, every
// ProgressInterval documents (regardless of batch boundaries) trigger an
// OnProgress call, for callers that want a steady cadence independent of
// batch size. Otherwise OnProgress fires once per batch, throttled to at
// most once per progressThrottle of wall-clock time.
func (e *Engine) AddBulk(ctx context.Context, docs []AddInput, opts BulkOptions) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}

	batches := e.planBatches(docs, opts)
	var lastProgress time.Time
	processed := 0
	sinceInterval := 0

	for _, batch := range batches {
		records := toRecords(batch)
		results, err := e.indexPipeline.IngestBatch(records)
		if err != nil {
			return err
		}

		for i, result := range results {
			e.processIngestedDocument(result, batch[i])
			processed++
			sinceInterval++

			if opts.OnProgress != nil && opts.ProgressInterval > 0 && sinceInterval >= opts.ProgressInterval {
				opts.OnProgress(processed, len(docs))
				sinceInterval = 0
			}
		}
		e.updateCachesForBatch(results)

		if opts.OnProgress != nil && opts.ProgressInterval <= 0 {
			now := time.Now()
			if now.Sub(lastProgress) >= progressThrottle {
				opts.OnProgress(processed, len(docs))
				lastProgress = now
			}
		}
	}

	if opts.OnProgress != nil {
		opts.OnProgress(len(docs), len(docs))
	}

	return e.Flush(ctx)
}

// processIngestedDocument applies one ingest Result's postings/vocabulary/
// stats updates and, when the document carries a stored payload, queues it
// for the batch's pending-document set (persisted by the trailing Flush).
func (e *Engine) processIngestedDocument(result accumulate.Result, input AddInput) {
	if result.TotalLength == 0 {
		return
	}
	e.applyIngestResultNoCache(result)
	if input.HasStore {
		if payload, err := json.Marshal(input.Store); err == nil {
			e.pendingDocuments[result.DocID.String()] = payload
		}
	}
}

// applyIngestResultNoCache mirrors applyIngestResult's postings/vocabulary/
// stats bookkeeping but defers the term-cache refresh to the batch-level
// updateCachesForBatch pass.
func (e *Engine) applyIngestResultNoCache(result accumulate.Result) {
	docKey := result.DocID.String()
	e.stats.AddDocument(docKey, result.TotalLength)

	for field, freqs := range result.FieldFrequencies {
		metadataByTerm := result.FieldMetadata[field]
		for term, freq := range freqs {
			meta := metadataByTerm[term]
			e.postings.Upsert(field, term, postings.Posting{
				DocID:         result.DocID,
				TermFrequency: float64(freq),
				Metadata:      meta,
			})
			if !isPrefixMetadata(meta) && !e.vocab.Has(term) {
				e.vocab.Add(term)
			}
		}
	}
}

// updateCachesForBatch refreshes the term cache once for every (field,
// term) pair touched across an entire batch, rather than per document.
func (e *Engine) updateCachesForBatch(results []accumulate.Result) {
	touched := make(map[string][2]string)
	for _, result := range results {
		for field, freqs := range result.FieldFrequencies {
			for term := range freqs {
				touched[cacheKey(field, term)] = [2]string{field, term}
			}
		}
	}
	for _, ft := range touched {
		e.refreshTermCache(ft[0], ft[1])
	}
}

// planBatches splits docs into batches of fixed or adaptive size.
// Adaptive mode re-estimates memory per batch from each document's rough
// JSON byte size (doubled, as a cheap proxy for in-memory overhead) and
// caps a batch once the running estimate would exceed maxMemoryBytes,
// while respecting [minBatchSize, maxBatchSize].
func (e *Engine) planBatches(docs []AddInput, opts BulkOptions) [][]AddInput {
	if !opts.Adaptive {
		size := opts.batchSize()
		var out [][]AddInput
		for i := 0; i < len(docs); i += size {
			end := i + size
			if end > len(docs) {
				end = len(docs)
			}
			out = append(out, docs[i:end])
		}
		return out
	}

	minSize := opts.minBatch()
	maxSize := opts.maxBatch()
	maxBytes := opts.maxMemoryBytes()

	var out [][]AddInput
	var current []AddInput
	var estimate int64

	flush := func() {
		if len(current) > 0 {
			out = append(out, current)
			current = nil
			estimate = 0
		}
	}

	for _, d := range docs {
		docBytes := roughByteSize(d)
		if len(current) >= minSize && estimate+docBytes > maxBytes {
			flush()
		}
		current = append(current, d)
		estimate += docBytes
		if len(current) >= maxSize {
			flush()
		}
	}
	flush()
	return out
}

func roughByteSize(d AddInput) int64 {
	data, err := json.Marshal(d.Fields)
	if err != nil {
		return 0
	}
	return int64(len(data)) * 2
}

func toRecords(docs []AddInput) []accumulate.Record {
	recs := make([]accumulate.Record, len(docs))
	for i, d := range docs {
		recs[i] = accumulate.Record{DocID: d.DocID, Fields: d.Fields, Store: d.Store, HasStore: d.HasStore}
	}
	return recs
}

// AddBulkWithRecovery wraps AddBulk's control flow in a per-batch error
// guard, collecting a Checkpoint of progress and per-document failures (a
// failed batch records each of its documents) instead of propagating the
// first error.
func (e *Engine) AddBulkWithRecovery(ctx context.Context, docs []AddInput, opts RecoveryOptions) (Checkpoint, error) {
	if err := e.ensureOpen(ctx); err != nil {
		return Checkpoint{}, err
	}

	checkpoint := Checkpoint{RunID: uuid.NewString(), Timestamp: time.Now()}
	batches := e.planBatches(docs, opts.BulkOptions)

	processedSinceCheckpoint := 0
	docIndex := 0

	for batchNum, batch := range batches {
		records := toRecords(batch)
		results, err := e.indexPipeline.IngestBatch(records)
		if err != nil {
			if !opts.ContinueOnError {
				checkpoint.Timestamp = time.Now()
				return checkpoint, err
			}
			for i, d := range batch {
				checkpoint.FailedDocuments = append(checkpoint.FailedDocuments, FailedDocument{
					Index: docIndex + i,
					DocID: d.DocID.String(),
					Error: ftserrors.DocumentProcessingError("batch ingest failed", err).Error(),
				})
			}
			docIndex += len(batch)
			continue
		}

		for i, result := range results {
			e.processIngestedDocument(result, batch[i])
			checkpoint.ProcessedCount++
			processedSinceCheckpoint++
		}
		e.updateCachesForBatch(results)
		checkpoint.LastSuccessfulBatch = batchNum
		docIndex += len(batch)

		if opts.EnableCheckpointing && processedSinceCheckpoint >= opts.checkpointInterval() {
			if err := e.Flush(ctx); err != nil {
				return checkpoint, err
			}
			checkpoint.Timestamp = time.Now()
			if opts.OnCheckpoint != nil {
				opts.OnCheckpoint(checkpoint)
			}
			processedSinceCheckpoint = 0
		}
	}

	if err := e.Flush(ctx); err != nil {
		return checkpoint, err
	}
	checkpoint.Timestamp = time.Now()
	return checkpoint, nil
}
