package pipeline

import "github.com/ftskit/ftsengine/internal/docid"

// Token is one unit produced (or consumed) by a pipeline stage.
type Token struct {
	Value      string
	Position   int
	Field      string
	DocumentID *docid.ID
	Metadata   map[string]any
}

// Context carries the field/document scope a pipeline run operates under.
type Context struct {
	Field      string
	DocumentID *docid.ID
}

// WithMetadata returns a copy of the token with key set to value.
func (t Token) WithMetadata(key string, value any) Token {
	md := make(map[string]any, len(t.Metadata)+1)
	for k, v := range t.Metadata {
		md[k] = v
	}
	md[key] = value
	t.Metadata = md
	return t
}

// IsPrefix reports the isPrefix metadata flag, defaulting to false.
func (t Token) IsPrefix() bool {
	if t.Metadata == nil {
		return false
	}
	v, _ := t.Metadata["isPrefix"].(bool)
	return v
}

// OriginalTerm reports the originalTerm metadata value, if any.
func (t Token) OriginalTerm() (string, bool) {
	if t.Metadata == nil {
		return "", false
	}
	v, ok := t.Metadata["originalTerm"].(string)
	return v, ok
}
