package pipeline

import (
	"regexp"
	"strings"

	"github.com/ftskit/ftsengine/internal/ftserrors"
)

// Stage is the capability trait every pipeline step implements: consume the
// tokens produced so far plus the run's context, and produce the next set
// of tokens. Built-in stages (tokenize, normalize, stop-word filter, stem,
// edge n-gram) and caller-supplied custom stages all satisfy this.
type Stage interface {
	Execute(tokens []Token, ctx Context) ([]Token, error)
}

// StageFunc adapts a plain function to the Stage interface.
type StageFunc func(tokens []Token, ctx Context) ([]Token, error)

// Execute implements Stage.
func (f StageFunc) Execute(tokens []Token, ctx Context) ([]Token, error) {
	return f(tokens, ctx)
}

// wordRegex matches the Unicode-aware class of letters and digits the
// tokenizer stage splits text into.
var wordRegex = regexp.MustCompile(`[\p{L}\p{N}]+`)

// TokenizeStage expects exactly one seed token holding raw text and emits a
// token per matched word, position set to the match's byte offset in the
// source text.
type TokenizeStage struct{}

// Execute implements Stage.
func (TokenizeStage) Execute(tokens []Token, ctx Context) ([]Token, error) {
	if len(tokens) != 1 {
		return nil, ftserrors.PipelineInputError("tokenize stage requires exactly one seed token")
	}
	seed := tokens[0]
	matches := wordRegex.FindAllStringIndex(seed.Value, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	out := make([]Token, 0, len(matches))
	for _, m := range matches {
		out = append(out, Token{
			Value:      seed.Value[m[0]:m[1]],
			Position:   m[0],
			Field:      ctx.Field,
			DocumentID: ctx.DocumentID,
		})
	}
	return out, nil
}

// NormalizeStage lower-cases every token's value.
type NormalizeStage struct{}

// Execute implements Stage.
func (NormalizeStage) Execute(tokens []Token, ctx Context) ([]Token, error) {
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		tok.Value = strings.ToLower(tok.Value)
		out[i] = tok
	}
	return out, nil
}

// StopWordStage drops tokens whose value is in the configured set. An empty
// set is a no-op.
type StopWordStage struct {
	Words map[string]struct{}
}

// Execute implements Stage.
func (s StopWordStage) Execute(tokens []Token, ctx Context) ([]Token, error) {
	if len(s.Words) == 0 {
		return tokens, nil
	}
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if _, isStop := s.Words[tok.Value]; isStop {
			continue
		}
		out = append(out, tok)
	}
	return out, nil
}

// Stemmer reduces a single token's value to a stem form.
type Stemmer interface {
	Stem(value string) string
}

// PassthroughStemmer is the no-op stemmer used for languages without a
// dedicated suffix-stripping implementation.
type PassthroughStemmer struct{}

// Stem implements Stemmer.
func (PassthroughStemmer) Stem(value string) string { return value }

// StemStage applies a Stemmer to every token's value.
type StemStage struct {
	Stemmer Stemmer
}

// Execute implements Stage.
func (s StemStage) Execute(tokens []Token, ctx Context) ([]Token, error) {
	if s.Stemmer == nil {
		return tokens, nil
	}
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		tok.Value = s.Stemmer.Stem(tok.Value)
		out[i] = tok
	}
	return out, nil
}

// EdgeNGramConfig controls prefix expansion, optionally overridden per field.
type EdgeNGramConfig struct {
	MinLength int
	MaxLength int
}

// EdgeNGramStage emits, for each token at least MinLength long, one token
// per prefix length from MinLength up to min(len(value), MaxLength). Only
// the full-length token carries isPrefix=false; all shorter prefixes carry
// isPrefix=true and originalTerm set to the full value. Tokens shorter than
// MinLength pass through unchanged, gaining no metadata.
//
// AllowedFields is nil when n-grams are globally enabled for every field;
// when non-nil, only fields mapped to true generate n-grams (a per-field
// override), and any other field passes through untouched regardless of
// the global flag.
type EdgeNGramStage struct {
	Default       EdgeNGramConfig
	PerField      map[string]EdgeNGramConfig
	AllowedFields map[string]bool
}

// Execute implements Stage.
func (s EdgeNGramStage) Execute(tokens []Token, ctx Context) ([]Token, error) {
	if s.AllowedFields != nil && !s.AllowedFields[ctx.Field] {
		return tokens, nil
	}

	cfg := s.Default
	if override, ok := s.PerField[ctx.Field]; ok {
		if override.MinLength > 0 {
			cfg.MinLength = override.MinLength
		}
		if override.MaxLength > 0 {
			cfg.MaxLength = override.MaxLength
		}
	}

	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		runes := []rune(tok.Value)
		if len(runes) < cfg.MinLength {
			out = append(out, tok)
			continue
		}
		maxLen := cfg.MaxLength
		if maxLen > len(runes) {
			maxLen = len(runes)
		}
		for l := cfg.MinLength; l <= maxLen; l++ {
			prefixTok := tok
			prefixTok.Value = string(runes[:l])
			isPrefix := l != len(runes)
			prefixTok = prefixTok.WithMetadata("isPrefix", isPrefix)
			prefixTok = prefixTok.WithMetadata("originalTerm", tok.Value)
			out = append(out, prefixTok)
		}
	}
	return out, nil
}
