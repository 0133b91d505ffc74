package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/ftskit/ftsengine/internal/adapter"
)

func TestPutGetDocument(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Open(ctx, 1); err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if err := s.PutDocument(ctx, adapter.DocumentRecord{DocID: "doc-1", Payload: []byte("hi")}); err != nil {
		t.Fatalf("put: %v", err)
	}
	rec, ok, err := s.GetDocument(ctx, "doc-1")
	if err != nil || !ok {
		t.Fatalf("get: rec=%v ok=%v err=%v", rec, ok, err)
	}
	if string(rec.Payload) != "hi" {
		t.Fatalf("unexpected payload %q", rec.Payload)
	}
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Open(ctx, 1)
	defer s.Close()

	s.PutDocument(ctx, adapter.DocumentRecord{DocID: "doc-1", Payload: []byte("v1")})

	boom := errors.New("boom")
	err := s.WithTransaction(ctx, []string{adapter.StoreDocuments}, adapter.TxReadWrite, func(tx adapter.Tx) error {
		tx.PutDocument(adapter.DocumentRecord{DocID: "doc-1", Payload: []byte("v2")})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
	rec, _, _ := s.GetDocument(ctx, "doc-1")
	if string(rec.Payload) != "v1" {
		t.Fatalf("expected rollback to v1, got %q", rec.Payload)
	}
}

func TestBatchWritesAndClear(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Open(ctx, 1)
	defer s.Close()

	err := s.PutTermChunksBatch(ctx, []adapter.TermChunk{
		{Field: "title", Term: "fox", Chunk: 0, Payload: []byte("x")},
		{Field: "title", Term: "dog", Chunk: 0, Payload: []byte("y")},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if _, ok, _ := s.GetTermChunk(ctx, adapter.TermKey{Field: "title", Term: "fox", Chunk: 0}); !ok {
		t.Fatalf("expected fox chunk present")
	}

	if err := s.ClearStore(ctx, adapter.StoreTerms); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := s.GetTermChunk(ctx, adapter.TermKey{Field: "title", Term: "fox", Chunk: 0}); ok {
		t.Fatalf("expected terms store cleared")
	}
}

func TestDeleteDatabaseResetsEverything(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Open(ctx, 1)
	defer s.Close()

	s.PutDocument(ctx, adapter.DocumentRecord{DocID: "doc-1", Payload: []byte("x")})
	if err := s.DeleteDatabase(ctx); err != nil {
		t.Fatalf("delete database: %v", err)
	}
	if _, ok, _ := s.GetDocument(ctx, "doc-1"); ok {
		t.Fatalf("expected document gone after delete database")
	}
}
