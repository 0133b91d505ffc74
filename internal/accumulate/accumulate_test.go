package accumulate

import (
	"testing"

	"github.com/ftskit/ftsengine/internal/docid"
	"github.com/ftskit/ftsengine/internal/pipeline"
)

func TestIngestProducesFrequenciesAndLengths(t *testing.T) {
	p := pipeline.Build(pipeline.Options{StopWords: []string{}, StopWordsSet: true})
	idx := NewIndexer(p)

	res, err := idx.Ingest(Record{
		DocID: docid.FromString("doc-1"),
		Fields: map[string]string{
			"title": "Quick brown fox",
			"body":  "",
		},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if _, ok := res.FieldFrequencies["body"]; ok {
		t.Fatalf("expected empty field to be skipped")
	}
	freq := res.FieldFrequencies["title"]
	if freq["quick"] != 1 || freq["brown"] != 1 || freq["fox"] != 1 {
		t.Fatalf("unexpected frequencies: %v", freq)
	}
	if res.FieldLengths["title"] != 3 {
		t.Fatalf("expected length 3, got %d", res.FieldLengths["title"])
	}
	if res.TotalLength != 3 {
		t.Fatalf("expected total length 3, got %d", res.TotalLength)
	}
}

func TestFirstMetadataWins(t *testing.T) {
	p := pipeline.Build(pipeline.Options{EnableEdgeNGrams: true, EdgeNGramMinLength: 2, EdgeNGramMaxLength: 15})
	idx := NewIndexer(p)

	res, err := idx.Ingest(Record{
		DocID:  docid.FromString("doc-1"),
		Fields: map[string]string{"title": "anthropic anthropic"},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	md := res.FieldMetadata["title"]["anthropic"]
	if md["isPrefix"] != false {
		t.Fatalf("expected first-seen metadata to be kept, got %v", md)
	}
	if res.FieldFrequencies["title"]["anthropic"] != 2 {
		t.Fatalf("expected frequency 2, got %d", res.FieldFrequencies["title"]["anthropic"])
	}
}

func TestIngestBatchReusesTokenization(t *testing.T) {
	p := pipeline.Build(pipeline.Options{StopWords: []string{}, StopWordsSet: true})
	idx := NewIndexer(p)

	recs := []Record{
		{DocID: docid.FromString("doc-1"), Fields: map[string]string{"title": "quick brown fox"}},
		{DocID: docid.FromString("doc-2"), Fields: map[string]string{"title": "quick brown fox"}},
	}
	results, err := idx.IngestBatch(recs)
	if err != nil {
		t.Fatalf("ingest batch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, res := range results {
		if res.DocID.String() != recs[i].DocID.String() {
			t.Fatalf("result %d docId mismatch: %s vs %s", i, res.DocID.String(), recs[i].DocID.String())
		}
		if res.FieldFrequencies["title"]["quick"] != 1 {
			t.Fatalf("expected quick freq 1 for result %d", i)
		}
	}
}
