package engine

import (
	"context"

	"github.com/ftskit/ftsengine/internal/docid"
	"github.com/ftskit/ftsengine/internal/postings"
	"github.com/ftskit/ftsengine/internal/snapshot"
)

// ExportSnapshot captures the engine's full in-memory state: every posting
// list, the document-stats array, and the vocabulary.
func (e *Engine) ExportSnapshot() snapshot.Internal {
	postingEntries := e.postings.Export()
	out := snapshot.Internal{
		Postings:   make([]snapshot.PostingEntry, 0, len(postingEntries)),
		Vocabulary: e.vocab.Terms(),
	}
	for _, entry := range postingEntries {
		docs := make([]snapshot.PostingDocument, 0, len(entry.Documents))
		for _, p := range entry.Documents {
			docs = append(docs, snapshot.PostingDocument{
				DocID:         p.DocID.String(),
				TermFrequency: p.TermFrequency,
				Metadata:      p.Metadata,
			})
		}
		out.Postings = append(out.Postings, snapshot.PostingEntry{
			Field:     entry.Field,
			Term:      entry.Term,
			Documents: docs,
		})
	}

	statsSnap := e.stats.Snapshot()
	out.StatsFlat = make([]snapshot.StatEntry, 0, len(statsSnap.Lengths))
	for docKey, length := range statsSnap.Lengths {
		out.StatsFlat = append(out.StatsFlat, snapshot.StatEntry{DocID: docKey, Length: length})
	}

	return out
}

// ImportSnapshot replaces the engine's entire indexed state: postings,
// dirty set, and term cache are cleared, then repopulated from snap,
// marking every (field, term) dirty before persisting so the import
// becomes durable.
func (e *Engine) ImportSnapshot(ctx context.Context, snap snapshot.Internal) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}

	e.postings.Clear()
	e.termCache.Clear()
	e.stats.Clear()
	e.vocab.Clear()

	for _, entry := range snap.Postings {
		for _, doc := range entry.Documents {
			e.postings.Upsert(entry.Field, entry.Term, postings.Posting{
				DocID:         docid.FromString(doc.DocID),
				TermFrequency: doc.TermFrequency,
				Metadata:      doc.Metadata,
			})
		}
		e.postings.MarkDirty(entry.Field, entry.Term)
	}

	for _, stat := range snap.StatsFlat {
		e.stats.AddDocument(stat.DocID, stat.Length)
	}

	for _, term := range snap.Vocabulary {
		e.vocab.Add(term)
	}

	return e.persistPostings(ctx)
}

// ExportWorkerSnapshot returns the flattened, transport-safe snapshot form
// suitable for a structured clone across a worker boundary. Per-posting
// metadata (isPrefix/originalTerm) is necessarily dropped.
func (e *Engine) ExportWorkerSnapshot() snapshot.Worker {
	return snapshot.ToWorker(e.ExportSnapshot())
}

// ImportWorkerSnapshot reconstructs engine state from a worker snapshot.
// Every posting's metadata comes back nil, so the prefix-match penalty is
// not applied to postings restored this way.
func (e *Engine) ImportWorkerSnapshot(ctx context.Context, w snapshot.Worker) error {
	return e.ImportSnapshot(ctx, snapshot.FromWorker(w))
}
