package engine

import (
	"context"
	"encoding/json"

	"github.com/ftskit/ftsengine/internal/adapter"
	"github.com/ftskit/ftsengine/internal/codec"
	"github.com/ftskit/ftsengine/internal/docid"
	"github.com/ftskit/ftsengine/internal/query"
	"github.com/ftskit/ftsengine/internal/scorer"
)

// Search ranks documents against q and returns their canonical docId
// strings, highest score first.
func (e *Engine) Search(ctx context.Context, q string, opts SearchOptions) ([]string, error) {
	hits, err := e.SearchDetailed(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.DocID
	}
	return out, nil
}

// SearchDetailed runs the full query pipeline: mode resolution, query-token
// construction, optional fuzzy expansion, posting retrieval (cache then
// adapter), BM25-like scoring, and truncation. When opts.IncludeStored is
// set, each hit's stored payload is attached.
func (e *Engine) SearchDetailed(ctx context.Context, q string, opts SearchOptions) ([]SearchHit, error) {
	if err := e.ensureOpen(ctx); err != nil {
		return nil, err
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = e.fields
	}

	mode := query.DetermineSearchMode(q, query.Mode(opts.Mode))

	queryPipe := e.queryPipeline
	if opts.ApplyQueryNGrams {
		queryPipe = e.fullPipeline
	}

	tokens, err := query.BuildTokens(queryPipe, fields, q)
	if err != nil {
		return nil, err
	}

	fuzzyDistance := query.ResolveFuzzyDistance(mode, opts.Fuzzy)
	tokens = query.Expand(tokens, fuzzyDistance, e.expander)

	acc := scorer.NewAccumulator()
	avgLen := e.stats.AverageLength()

	for _, tok := range tokens {
		list, err := e.resolvePostings(ctx, tok.Field, tok.Term)
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			continue
		}
		idf := scorer.IDF(0, false, len(list))
		for _, p := range list {
			docLength, ok := e.stats.Length(p.DocID)
			if !ok {
				docLength = int(avgLen)
			}
			tf := p.TermFrequency * tok.Boost
			contribution := scorer.Contribution(idf, tf, docLength, avgLen, p.IsPrefix)
			acc.Add(p.DocID, contribution)
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	scored := acc.TopK(limit, opts.MinScore)

	hits := make([]SearchHit, 0, len(scored))
	for _, s := range scored {
		hit := SearchHit{DocID: s.DocKey, Score: s.Score}
		if opts.IncludeStored {
			payload, found, err := e.GetDocument(ctx, docid.FromString(s.DocKey))
			if err != nil {
				return nil, err
			}
			if found {
				hit.Stored = payload
				hit.HasStored = true
			}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// resolvePostings looks up (field, term) in the term cache; on a miss it
// fetches the persisted chunk, decodes it with the stored encoding, and
// fills the cache under the same key.
func (e *Engine) resolvePostings(ctx context.Context, field, term string) ([]cachedPosting, error) {
	key := cacheKey(field, term)
	if list, ok := e.termCache.Get(key); ok {
		return list, nil
	}

	chunk, found, err := e.store.GetTermChunk(ctx, adapter.TermKey{Field: field, Term: term, Chunk: 0})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	values, err := codec.Decode(chunk.Payload, codec.Encoding(chunk.Encoding))
	if err != nil {
		return nil, err
	}

	list := make([]cachedPosting, 0, len(values))
	for _, v := range values {
		list = append(list, decodePostingValue(v))
	}

	e.termCache.Set(key, list)
	return list, nil
}

// decodePostingValue converts one decoded codec value into a cachedPosting.
// String entries are JSON-parsed; an object with a docId field yields its
// canonical form and stored term frequency (default 1). Raw numbers or
// bare strings become a posting with frequency 1.
func decodePostingValue(v any) cachedPosting {
	s, ok := v.(string)
	if !ok {
		return cachedPosting{DocID: stringifyRawDocID(v), TermFrequency: 1}
	}

	var wire postingWire
	if err := json.Unmarshal([]byte(s), &wire); err == nil && wire.DocID != "" {
		tf := wire.TermFrequency
		if tf <= 0 {
			tf = 1
		}
		return cachedPosting{
			DocID:         wire.DocID,
			TermFrequency: tf,
			IsPrefix:      isPrefixMetadata(wire.Metadata),
		}
	}
	return cachedPosting{DocID: s, TermFrequency: 1}
}

func stringifyRawDocID(v any) string {
	switch t := v.(type) {
	case uint64:
		return jsonNumberString(t)
	case float64:
		if t >= 0 && t == float64(uint64(t)) {
			return jsonNumberString(uint64(t))
		}
		return ""
	default:
		return ""
	}
}

func jsonNumberString(v uint64) string {
	data, _ := json.Marshal(v)
	return string(data)
}

