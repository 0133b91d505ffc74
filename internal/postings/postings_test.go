package postings

import (
	"testing"

	"github.com/ftskit/ftsengine/internal/docid"
)

func TestUpsertMarksDirty(t *testing.T) {
	s := New()
	s.Upsert("title", "fox", Posting{DocID: docid.FromString("doc-1"), TermFrequency: 1})

	dirty := s.DirtyKeys()
	if len(dirty) != 1 || dirty[0] != (Key{Field: "title", Term: "fox"}) {
		t.Fatalf("expected fox dirty, got %v", dirty)
	}
	if s.DocFrequency("title", "fox") != 1 {
		t.Fatalf("expected docFrequency 1")
	}
}

func TestRemoveDocumentMarksAffectedTermsDirty(t *testing.T) {
	s := New()
	s.Upsert("title", "fox", Posting{DocID: docid.FromString("doc-1"), TermFrequency: 1})
	s.Upsert("title", "dog", Posting{DocID: docid.FromString("doc-2"), TermFrequency: 1})
	s.ClearDirty()

	s.RemoveDocument("doc-1")

	if s.DocFrequency("title", "fox") != 0 {
		t.Fatalf("expected fox doc map empty")
	}
	if !s.IsEmpty("title", "fox") {
		t.Fatalf("expected fox queued empty")
	}
	if s.DocFrequency("title", "dog") != 1 {
		t.Fatalf("expected dog untouched")
	}
	dirty := s.DirtyKeys()
	if len(dirty) != 1 || dirty[0] != (Key{Field: "title", Term: "fox"}) {
		t.Fatalf("expected only fox marked dirty, got %v", dirty)
	}
}

func TestClearDirtyEmptiesSet(t *testing.T) {
	s := New()
	s.Upsert("title", "fox", Posting{DocID: docid.FromString("doc-1"), TermFrequency: 1})
	s.ClearDirty()
	if len(s.DirtyKeys()) != 0 {
		t.Fatalf("expected empty dirty set")
	}
}

func TestExportSkipsEmptyTerms(t *testing.T) {
	s := New()
	s.Upsert("title", "fox", Posting{DocID: docid.FromString("doc-1"), TermFrequency: 1})
	s.RemoveDocument("doc-1")

	snap := s.Export()
	if len(snap) != 0 {
		t.Fatalf("expected no snapshot entries for emptied term, got %v", snap)
	}
}
