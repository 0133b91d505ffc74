package scorer

import "testing"

func TestIDFFallsBackWhenNotStored(t *testing.T) {
	got := IDF(0, false, 4)
	if got <= 0 {
		t.Fatalf("expected positive fallback idf, got %v", got)
	}
}

func TestIDFZeroWhenDocFrequencyNonPositive(t *testing.T) {
	if got := IDF(0, false, 0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestIDFUsesStoredValue(t *testing.T) {
	if got := IDF(2.5, true, 100); got != 2.5 {
		t.Fatalf("expected stored idf 2.5, got %v", got)
	}
}

func TestScoringMonotonicityOnTermFrequency(t *testing.T) {
	idf := IDF(0, false, 2)
	scoreA := Contribution(idf, 1, 10, 10, false)
	scoreB := Contribution(idf, 2, 10, 10, false)
	if scoreB < scoreA {
		t.Fatalf("expected higher tf to score at least as high: %v vs %v", scoreB, scoreA)
	}
}

func TestPrefixPenaltyReducesContribution(t *testing.T) {
	idf := IDF(0, false, 2)
	exact := Contribution(idf, 1, 10, 10, false)
	prefix := Contribution(idf, 1, 10, 10, true)
	if prefix >= exact {
		t.Fatalf("expected prefix contribution to be discounted: %v vs %v", prefix, exact)
	}
}

func TestTopKTruncatesAndSorts(t *testing.T) {
	acc := NewAccumulator()
	acc.Add("doc-1", 5)
	acc.Add("doc-2", 9)
	acc.Add("doc-3", 1)

	top := acc.TopK(2, 0)
	if len(top) != 2 {
		t.Fatalf("expected 2 results, got %d", len(top))
	}
	if top[0].DocKey != "doc-2" || top[1].DocKey != "doc-1" {
		t.Fatalf("unexpected order: %v", top)
	}
}

func TestTopKAppliesMinScore(t *testing.T) {
	acc := NewAccumulator()
	acc.Add("doc-1", 5)
	acc.Add("doc-2", 0.5)

	top := acc.TopK(10, 1)
	if len(top) != 1 || top[0].DocKey != "doc-1" {
		t.Fatalf("expected only doc-1 to survive minScore, got %v", top)
	}
}

func TestTopKClampsLimitToAtLeastOne(t *testing.T) {
	acc := NewAccumulator()
	acc.Add("doc-1", 5)
	acc.Add("doc-2", 9)

	top := acc.TopK(0, 0)
	if len(top) != 1 {
		t.Fatalf("expected limit clamped to 1, got %d", len(top))
	}
}
