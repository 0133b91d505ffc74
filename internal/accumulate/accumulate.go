// Package accumulate runs the pipeline across a document's fields and
// accumulates per-field term frequencies, first-seen metadata, and field
// lengths ready for posting upserts.
package accumulate

import (
	"github.com/ftskit/ftsengine/internal/docid"
	"github.com/ftskit/ftsengine/internal/pipeline"
)

// FieldAccumulator holds per-term counts for a single document field.
type FieldAccumulator struct {
	TermFrequencies map[string]int
	TermMetadata    map[string]map[string]any
	Length          int
}

func newFieldAccumulator() *FieldAccumulator {
	return &FieldAccumulator{
		TermFrequencies: make(map[string]int),
		TermMetadata:    make(map[string]map[string]any),
	}
}

// Add records one token's contribution. Empty-valued tokens are dropped.
// The first non-nil metadata seen for a term wins; later occurrences of the
// same term never overwrite it.
func (f *FieldAccumulator) Add(tok pipeline.Token) {
	if tok.Value == "" {
		return
	}
	f.TermFrequencies[tok.Value]++
	f.Length++
	if tok.Metadata == nil {
		return
	}
	if _, seen := f.TermMetadata[tok.Value]; seen {
		return
	}
	f.TermMetadata[tok.Value] = tok.Metadata
}

// Accumulator collects FieldAccumulators keyed by field name for one document.
type Accumulator struct {
	fields map[string]*FieldAccumulator
}

// New returns an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{fields: make(map[string]*FieldAccumulator)}
}

// Field returns (creating if necessary) the accumulator for field.
func (a *Accumulator) Field(field string) *FieldAccumulator {
	fa, ok := a.fields[field]
	if !ok {
		fa = newFieldAccumulator()
		a.fields[field] = fa
	}
	return fa
}

// Result is the output of running the indexer over one document's fields.
type Result struct {
	DocID           docid.ID
	FieldFrequencies map[string]map[string]int
	FieldMetadata    map[string]map[string]map[string]any
	FieldLengths     map[string]int
	TotalLength      int
}

// Record is one document's raw input: field name to raw text.
type Record struct {
	DocID  docid.ID
	Fields map[string]string
	Store  any
	HasStore bool
}

// Indexer runs a pipeline over documents, producing accumulate Results.
type Indexer struct {
	pipeline *pipeline.Pipeline
}

// NewIndexer builds an Indexer around a built pipeline.
func NewIndexer(p *pipeline.Pipeline) *Indexer {
	return &Indexer{pipeline: p}
}

// Ingest runs the pipeline for every non-empty field of rec and accumulates
// term frequencies/metadata/lengths.
func (idx *Indexer) Ingest(rec Record) (Result, error) {
	acc := New()
	for field, text := range rec.Fields {
		if text == "" {
			continue
		}
		tokens, err := idx.pipeline.Run(field, &rec.DocID, text)
		if err != nil {
			return Result{}, err
		}
		fa := acc.Field(field)
		for _, tok := range tokens {
			fa.Add(tok)
		}
	}
	return buildResult(rec.DocID, acc), nil
}

// tokenCacheKey identifies a distinct (field, rawText) pair for ingestBatch's
// token cache.
type tokenCacheKey struct {
	field string
	text  string
}

// IngestBatch runs Ingest over every record, tokenizing each distinct
// (field, rawText) pair only once across the whole batch. Tokenization must
// be deterministic for a given input for this reuse to be valid, which the
// pipeline guarantees.
func (idx *Indexer) IngestBatch(recs []Record) ([]Result, error) {
	cache := make(map[tokenCacheKey][]pipeline.Token)
	results := make([]Result, 0, len(recs))

	for _, rec := range recs {
		acc := New()
		for field, text := range rec.Fields {
			if text == "" {
				continue
			}
			key := tokenCacheKey{field: field, text: text}
			tokens, cached := cache[key]
			if !cached {
				var err error
				tokens, err = idx.pipeline.Run(field, &rec.DocID, text)
				if err != nil {
					return nil, err
				}
				cache[key] = tokens
			}
			fa := acc.Field(field)
			for _, tok := range tokens {
				tok.DocumentID = &rec.DocID
				fa.Add(tok)
			}
		}
		results = append(results, buildResult(rec.DocID, acc))
	}
	return results, nil
}

func buildResult(id docid.ID, acc *Accumulator) Result {
	res := Result{
		DocID:            id,
		FieldFrequencies: make(map[string]map[string]int, len(acc.fields)),
		FieldMetadata:    make(map[string]map[string]map[string]any, len(acc.fields)),
		FieldLengths:     make(map[string]int, len(acc.fields)),
	}
	for field, fa := range acc.fields {
		res.FieldFrequencies[field] = fa.TermFrequencies
		res.FieldMetadata[field] = fa.TermMetadata
		res.FieldLengths[field] = fa.Length
		res.TotalLength += fa.Length
	}
	return res
}
