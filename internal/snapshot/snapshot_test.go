package snapshot

import "testing"

func TestToWorkerFlattensAndDropsMetadata(t *testing.T) {
	in := Internal{
		Postings: []PostingEntry{
			{
				Field: "title",
				Term:  "fox",
				Documents: []PostingDocument{
					{DocID: "doc-1", TermFrequency: 2, Metadata: map[string]any{"isPrefix": true}},
					{DocID: "doc-2", TermFrequency: 1},
				},
			},
		},
		StatsFlat: []StatEntry{{DocID: "doc-1", Length: 10}},
	}

	w := ToWorker(in)
	if len(w.Postings) != 1 {
		t.Fatalf("expected 1 posting entry, got %d", len(w.Postings))
	}
	entry := w.Postings[0]
	if len(entry.DocIDs) != 2 || entry.DocIDs[0] != "doc-1" || entry.TermFrequencies[0] != 2 {
		t.Fatalf("unexpected flattened entry: %+v", entry)
	}
}

func TestFromWorkerMetadataIsNil(t *testing.T) {
	w := Worker{
		Postings: []WorkerPostingEntry{
			{Field: "title", Term: "fox", DocIDs: []string{"doc-1"}, TermFrequencies: []float64{3}},
		},
	}
	in := FromWorker(w)
	doc := in.Postings[0].Documents[0]
	if doc.Metadata != nil {
		t.Fatalf("expected nil metadata after worker round trip, got %v", doc.Metadata)
	}
	if doc.TermFrequency != 3 {
		t.Fatalf("expected frequency 3, got %v", doc.TermFrequency)
	}
}

func TestFromWorkerDefaultsMissingFrequencyToOne(t *testing.T) {
	w := Worker{
		Postings: []WorkerPostingEntry{
			{Field: "title", Term: "fox", DocIDs: []string{"doc-1"}, TermFrequencies: nil},
		},
	}
	in := FromWorker(w)
	if in.Postings[0].Documents[0].TermFrequency != 1 {
		t.Fatalf("expected default frequency 1")
	}
}
