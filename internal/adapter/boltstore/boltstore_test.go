package boltstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ftskit/ftsengine/internal/adapter"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s := New(filepath.Join(dir, "test.db"))
	if err := s.Open(context.Background(), 1); err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetTermChunk(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	chunk := adapter.TermChunk{Field: "title", Term: "fox", Chunk: 0, Payload: []byte{1, 2, 3}, Encoding: "delta-varint", DocFrequency: 1}
	if err := s.PutTermChunk(ctx, chunk); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := s.GetTermChunk(ctx, adapter.TermKey{Field: "title", Term: "fox", Chunk: 0})
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.DocFrequency != 1 || string(got.Payload) != string([]byte{1, 2, 3}) {
		t.Fatalf("unexpected chunk %+v", got)
	}
}

func TestBatchTermChunksSingleTransaction(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	err := s.PutTermChunksBatch(ctx, []adapter.TermChunk{
		{Field: "title", Term: "fox", Chunk: 0, Payload: []byte("a")},
		{Field: "title", Term: "dog", Chunk: 0, Payload: []byte("b")},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if _, ok, _ := s.GetTermChunk(ctx, adapter.TermKey{Field: "title", Term: "dog", Chunk: 0}); !ok {
		t.Fatalf("expected dog chunk present")
	}
}

func TestWithTransactionAbortsOnError(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	s.PutDocument(ctx, adapter.DocumentRecord{DocID: "doc-1", Payload: []byte("v1")})

	err := s.WithTransaction(ctx, []string{adapter.StoreDocuments}, adapter.TxReadWrite, func(tx adapter.Tx) error {
		tx.PutDocument(adapter.DocumentRecord{DocID: "doc-1", Payload: []byte("v2")})
		return context.Canceled
	})
	if err == nil {
		t.Fatalf("expected transaction error")
	}
	rec, _, _ := s.GetDocument(ctx, "doc-1")
	if string(rec.Payload) != "v1" {
		t.Fatalf("expected abort to leave v1, got %q", rec.Payload)
	}
}

func TestClearStoreRemovesAllEntries(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	s.PutTermChunk(ctx, adapter.TermChunk{Field: "title", Term: "fox", Chunk: 0, Payload: []byte("a")})
	if err := s.ClearStore(ctx, adapter.StoreTerms); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := s.GetTermChunk(ctx, adapter.TermKey{Field: "title", Term: "fox", Chunk: 0}); ok {
		t.Fatalf("expected terms cleared")
	}
}

func TestReopenAfterCloseRetainsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "reopen.db")

	s1 := New(path)
	if err := s1.Open(ctx, 1); err != nil {
		t.Fatalf("open 1: %v", err)
	}
	s1.PutDocument(ctx, adapter.DocumentRecord{DocID: "doc-1", Payload: []byte("hi")})
	if err := s1.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2 := New(path)
	if err := s2.Open(ctx, 1); err != nil {
		t.Fatalf("open 2: %v", err)
	}
	defer s2.Close()
	rec, ok, err := s2.GetDocument(ctx, "doc-1")
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if string(rec.Payload) != "hi" {
		t.Fatalf("unexpected payload %q", rec.Payload)
	}
}
