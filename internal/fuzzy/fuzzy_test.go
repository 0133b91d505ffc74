package fuzzy

import (
	"sort"
	"testing"

	"github.com/ftskit/ftsengine/internal/vocabulary"
)

func TestDistanceScenarioE(t *testing.T) {
	if got := Distance("anthropic", "anthopric"); got != 2 {
		t.Fatalf("expected distance 2, got %d", got)
	}
}

func TestDistanceIdentical(t *testing.T) {
	if got := Distance("fox", "fox"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestExpandScenarioE(t *testing.T) {
	vocab := vocabulary.New()
	vocab.Add("anthropic")
	vocab.Add("anthropology")
	vocab.Add("antenna")

	e := NewExpander(vocab)
	matches := e.Expand("anthopric", 2)

	found := false
	for _, m := range matches {
		if m == "anthropic" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected anthropic in expansion, got %v", matches)
	}
}

func TestExpandCapsDistanceAtThree(t *testing.T) {
	vocab := vocabulary.New()
	vocab.Add("run")
	e := NewExpander(vocab)
	// distance requested way above 3 should behave identically to 3
	a := e.Expand("rub", 3)
	b := e.Expand("rub", 10)
	sort.Strings(a)
	sort.Strings(b)
	if len(a) != len(b) {
		t.Fatalf("expected capped distance to produce same results: %v vs %v", a, b)
	}
}

func TestExpandInvalidatesOnVocabularyMutation(t *testing.T) {
	vocab := vocabulary.New()
	vocab.Add("run")
	e := NewExpander(vocab)

	first := e.Expand("rub", 1)
	if len(first) != 1 {
		t.Fatalf("expected run to match, got %v", first)
	}

	vocab.Add("rug")
	second := e.Expand("rub", 1)
	found := false
	for _, m := range second {
		if m == "rug" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected newly added rug to appear after cache invalidation, got %v", second)
	}
}

func TestExpandPreservesOriginalCasing(t *testing.T) {
	vocab := vocabulary.New()
	vocab.Add("RunFast")
	e := NewExpander(vocab)
	matches := e.Expand("runfast", 0)
	if len(matches) != 1 || matches[0] != "RunFast" {
		t.Fatalf("expected original casing preserved, got %v", matches)
	}
}
