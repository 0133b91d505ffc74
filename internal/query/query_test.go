package query

import (
	"testing"

	"github.com/ftskit/ftsengine/internal/fuzzy"
	"github.com/ftskit/ftsengine/internal/pipeline"
	"github.com/ftskit/ftsengine/internal/scorer"
	"github.com/ftskit/ftsengine/internal/vocabulary"
)

func TestDetermineSearchModeAuto(t *testing.T) {
	cases := []struct {
		query string
		want  Mode
	}{
		{"go", ModePrefix},
		{"abc", ModePrefix},
		{"medium", ModeExact},
		{"anthropic", ModeFuzzy},
		{"  ab  ", ModePrefix},
	}
	for _, c := range cases {
		if got := DetermineSearchMode(c.query, ModeAuto); got != c.want {
			t.Fatalf("query %q: got %v want %v", c.query, got, c.want)
		}
	}
}

func TestDetermineSearchModeExplicitWins(t *testing.T) {
	if got := DetermineSearchMode("anthropic", ModeExact); got != ModeExact {
		t.Fatalf("expected explicit mode to win, got %v", got)
	}
}

func TestResolveFuzzyDistanceDefaultsWhenFuzzyModeAndUnset(t *testing.T) {
	if got := ResolveFuzzyDistance(ModeFuzzy, nil); got != 2 {
		t.Fatalf("expected default distance 2, got %d", got)
	}
}

func TestResolveFuzzyDistanceHonorsExplicitOption(t *testing.T) {
	explicit := 3
	if got := ResolveFuzzyDistance(ModeExact, &explicit); got != 3 {
		t.Fatalf("expected explicit distance to apply regardless of mode, got %d", got)
	}
}

func TestBuildTokensDeduplicates(t *testing.T) {
	p := pipeline.Build(pipeline.Options{StopWords: []string{}, StopWordsSet: true})
	tokens, err := BuildTokens(p, []string{"title"}, "fox fox")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(tokens) != 1 {
		t.Fatalf("expected dedup to 1 token, got %v", tokens)
	}
	if tokens[0].Boost != 1.0 {
		t.Fatalf("expected boost 1.0, got %v", tokens[0].Boost)
	}
}

func TestExpandAddsFuzzyBoostedTokens(t *testing.T) {
	vocab := vocabulary.New()
	vocab.Add("anthropic")
	expander := fuzzy.NewExpander(vocab)

	tokens := []Token{{Field: "title", Term: "anthopric", Boost: 1.0}}
	expanded := Expand(tokens, 2, expander)

	if len(expanded) != 2 {
		t.Fatalf("expected original plus one fuzzy match, got %v", expanded)
	}
	var sawFuzzy bool
	for _, t2 := range expanded {
		if t2.Term == "anthropic" && t2.Boost == scorer.FuzzyBoost {
			sawFuzzy = true
		}
	}
	if !sawFuzzy {
		t.Fatalf("expected fuzzy-boosted anthropic token, got %v", expanded)
	}
}

func TestExpandNoopWhenDistanceZero(t *testing.T) {
	vocab := vocabulary.New()
	vocab.Add("anthropic")
	expander := fuzzy.NewExpander(vocab)
	tokens := []Token{{Field: "title", Term: "anthopric", Boost: 1.0}}
	expanded := Expand(tokens, 0, expander)
	if len(expanded) != 1 {
		t.Fatalf("expected no expansion, got %v", expanded)
	}
}
