package pipeline

import "github.com/ftskit/ftsengine/internal/docid"

// FieldNGramConfig is a per-field override for edge n-gram expansion. A
// nil MinLength/MaxLength means "inherit the pipeline-wide default".
type FieldNGramConfig struct {
	Enabled   bool
	MinLength *int
	MaxLength *int
}

// Options configures a Pipeline's default stage set. Every field has a
// documented default so callers only need to set what they want to change.
type Options struct {
	Language string

	// StopWords, when StopWordsSet is true, replaces the language default
	// stop list entirely (an explicit empty slice disables filtering).
	StopWords    []string
	StopWordsSet bool

	EnableStemming bool
	// Stemmer, if set, is used instead of the language-derived stemmer
	// whenever EnableStemming is true.
	Stemmer Stemmer

	EnableEdgeNGrams     bool
	EdgeNGramMinLength   int
	EdgeNGramMaxLength   int
	EdgeNGramFieldConfig map[string]FieldNGramConfig

	CustomStages []Stage
}

// Pipeline is an ordered sequence of stages run over a single seed token.
// A stage that returns zero tokens short-circuits the remaining stages.
type Pipeline struct {
	stages []Stage
}

// Build assembles the default stage order (tokenize, normalize, stop-word
// filter, optional stem, optional edge n-gram) followed by any custom
// stages.
func Build(opts Options) *Pipeline {
	lang := resolveLanguage(opts.Language)

	stopWords := defaultStopWords(lang)
	if opts.StopWordsSet {
		stopWords = opts.StopWords
	}

	stages := []Stage{
		TokenizeStage{},
		NormalizeStage{},
		StopWordStage{Words: toStopWordSet(stopWords)},
	}

	if opts.EnableStemming {
		stemmer := opts.Stemmer
		if stemmer == nil {
			stemmer = defaultStemmer(lang)
		}
		stages = append(stages, StemStage{Stemmer: stemmer})
	}

	if stage, ok := buildEdgeNGramStage(opts); ok {
		stages = append(stages, stage)
	}

	stages = append(stages, opts.CustomStages...)

	return &Pipeline{stages: stages}
}

func buildEdgeNGramStage(opts Options) (EdgeNGramStage, bool) {
	minLen := opts.EdgeNGramMinLength
	if minLen <= 0 {
		minLen = 2
	}
	maxLen := opts.EdgeNGramMaxLength
	if maxLen <= 0 {
		maxLen = 15
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	def := EdgeNGramConfig{MinLength: minLen, MaxLength: maxLen}

	if len(opts.EdgeNGramFieldConfig) > 0 {
		allowed := make(map[string]bool, len(opts.EdgeNGramFieldConfig))
		perField := make(map[string]EdgeNGramConfig, len(opts.EdgeNGramFieldConfig))
		for field, cfg := range opts.EdgeNGramFieldConfig {
			allowed[field] = cfg.Enabled
			override := EdgeNGramConfig{}
			if cfg.MinLength != nil {
				override.MinLength = *cfg.MinLength
			}
			if cfg.MaxLength != nil {
				override.MaxLength = *cfg.MaxLength
			}
			perField[field] = override
		}
		return EdgeNGramStage{Default: def, PerField: perField, AllowedFields: allowed}, true
	}

	if opts.EnableEdgeNGrams {
		return EdgeNGramStage{Default: def}, true
	}

	return EdgeNGramStage{}, false
}

// Run tokenizes text for field/documentID through the full stage chain.
func (p *Pipeline) Run(field string, documentID *docid.ID, text string) ([]Token, error) {
	ctx := Context{Field: field, DocumentID: documentID}
	tokens := []Token{{Value: text, Field: field, DocumentID: documentID}}

	for _, stage := range p.stages {
		next, err := stage.Execute(tokens, ctx)
		if err != nil {
			return nil, err
		}
		tokens = next
		if len(tokens) == 0 {
			break
		}
	}
	return tokens, nil
}

// WithoutEdgeNGrams returns a copy of opts with edge n-gram expansion
// disabled outright, used to build the query-time pipeline variant (n-grams
// are an index-time expansion by default; see applyQueryNGrams).
func (o Options) WithoutEdgeNGrams() Options {
	cp := o
	cp.EnableEdgeNGrams = false
	cp.EdgeNGramFieldConfig = nil
	return cp
}
