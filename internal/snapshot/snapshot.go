// Package snapshot defines the engine's exportable state shapes: the full
// internal snapshot (used for backup/restore within the same process
// family) and the flattened worker snapshot (safe to structured-clone
// across a thread/worker boundary, at the documented cost of posting
// metadata).
package snapshot

// PostingDocument is one document's contribution to a (field, term) entry
// in an internal Snapshot.
type PostingDocument struct {
	DocID         string         `json:"docId"`
	TermFrequency float64        `json:"termFrequency"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// PostingEntry is one (field, term)'s full posting list.
type PostingEntry struct {
	Field     string            `json:"field"`
	Term      string            `json:"term"`
	Documents []PostingDocument `json:"documents"`
}

// Internal is the full-fidelity snapshot shape: postings, stats, the
// in-memory variant additionally carrying stored documents and vocabulary.
type Internal struct {
	Postings   []PostingEntry   `json:"postings"`
	StatsFlat  []StatEntry      `json:"stats"`
	Documents  []StoredDocument `json:"documents,omitempty"`
	Vocabulary []string         `json:"vocabulary,omitempty"`
}

// StatEntry is one document's length entry inside a stats snapshot array.
type StatEntry struct {
	DocID  string `json:"docId"`
	Length int    `json:"length"`
}

// StoredDocument is one caller-supplied opaque payload.
type StoredDocument struct {
	DocID   string `json:"docId"`
	Payload []byte `json:"payload"`
}

// Worker is the flattened, transport-safe shape suitable for a structured
// clone across a worker boundary. It omits per-posting metadata: round
// tripping through this shape loses isPrefix/originalTerm, so the
// prefix-match penalty cannot be reconstructed for postings recovered
// only from a worker snapshot (see the design notes on worker handoff).
type Worker struct {
	Postings []WorkerPostingEntry `json:"postings"`
	Stats    []StatEntry          `json:"stats"`
}

// WorkerPostingEntry flattens one (field, term) posting list into parallel
// docIds/termFrequencies arrays, dropping metadata entirely.
type WorkerPostingEntry struct {
	Field          string    `json:"field"`
	Term           string    `json:"term"`
	DocIDs         []string  `json:"docIds"`
	TermFrequencies []float64 `json:"termFrequencies"`
}

// ToWorker flattens an Internal snapshot into the transport-safe shape.
func ToWorker(in Internal) Worker {
	out := Worker{
		Postings: make([]WorkerPostingEntry, 0, len(in.Postings)),
		Stats:    in.StatsFlat,
	}
	for _, p := range in.Postings {
		entry := WorkerPostingEntry{
			Field:           p.Field,
			Term:            p.Term,
			DocIDs:          make([]string, 0, len(p.Documents)),
			TermFrequencies: make([]float64, 0, len(p.Documents)),
		}
		for _, d := range p.Documents {
			entry.DocIDs = append(entry.DocIDs, d.DocID)
			entry.TermFrequencies = append(entry.TermFrequencies, d.TermFrequency)
		}
		out.Postings = append(out.Postings, entry)
	}
	return out
}

// FromWorker reconstructs an Internal snapshot from a Worker one. Every
// posting's metadata is necessarily absent (nil) per the documented
// lossiness; callers that need prefix-penalty scoring fidelity across a
// worker handoff must use the internal snapshot form instead.
func FromWorker(w Worker) Internal {
	out := Internal{
		Postings:  make([]PostingEntry, 0, len(w.Postings)),
		StatsFlat: w.Stats,
	}
	for _, p := range w.Postings {
		entry := PostingEntry{
			Field:     p.Field,
			Term:      p.Term,
			Documents: make([]PostingDocument, 0, len(p.DocIDs)),
		}
		for i, docID := range p.DocIDs {
			tf := 1.0
			if i < len(p.TermFrequencies) {
				tf = p.TermFrequencies[i]
			}
			entry.Documents = append(entry.Documents, PostingDocument{DocID: docID, TermFrequency: tf})
		}
		out.Postings = append(out.Postings, entry)
	}
	return out
}
