// Package adapter defines the persistence boundary the search kernel
// depends on: a set of named, transactional object stores. Concrete
// implementations live in adapter/boltstore (durable, bbolt-backed) and
// adapter/memstore (in-process, used by tests and ephemeral engines).
package adapter

import "context"

// Store names for the four core object stores plus cacheState.
const (
	StoreMetadata   = "metadata"
	StoreTerms      = "terms"
	StoreVectors    = "vectors"
	StoreDocuments  = "documents"
	StoreCacheState = "cacheState"
)

// TermChunk is one persisted posting-list chunk.
type TermChunk struct {
	Field                    string
	Term                     string
	Chunk                    int
	Payload                  []byte
	Encoding                 string
	DocFrequency             int
	InverseDocumentFrequency *float64
	AccessCount              *int
	LastAccessedAt           *int64
}

// TermKey addresses a single persisted chunk.
type TermKey struct {
	Field string
	Term  string
	Chunk int
}

// DocumentRecord is one stored, opaque document payload.
type DocumentRecord struct {
	DocID     string
	Payload   []byte
	UpdatedAt int64
}

// MetadataRecord is a single key/value pair in the metadata store.
type MetadataRecord struct {
	Key       string
	Value     string
	UpdatedAt int64
}

// CacheStateRecord is a single named blob in the cacheState store.
type CacheStateRecord struct {
	Key       string
	Payload   []byte
	UpdatedAt int64
}

// VectorRecord is reserved for future use; the engine currently writes none.
type VectorRecord struct {
	Field     string
	DocID     string
	Vector    []byte
	UpdatedAt int64
}

// TxMode distinguishes read-only transactions from read-write ones, letting
// an implementation choose cheaper locking for reads.
type TxMode int

const (
	TxReadOnly TxMode = iota
	TxReadWrite
)

// Store is the persistence boundary the search kernel depends on. All
// methods are safe to call only while the store is Open.
type Store interface {
	Open(ctx context.Context, version int) error
	Close() error
	DeleteDatabase(ctx context.Context) error

	// WithTransaction runs fn inside a single transaction scoped to the
	// named stores, aborting (and leaving prior state untouched) if fn
	// returns an error.
	WithTransaction(ctx context.Context, stores []string, mode TxMode, fn func(tx Tx) error) error

	PutMetadata(ctx context.Context, rec MetadataRecord) error
	GetMetadata(ctx context.Context, key string) (MetadataRecord, bool, error)
	DeleteMetadata(ctx context.Context, key string) error

	PutTermChunk(ctx context.Context, chunk TermChunk) error
	GetTermChunk(ctx context.Context, key TermKey) (TermChunk, bool, error)
	DeleteTermChunk(ctx context.Context, key TermKey) error
	PutTermChunksBatch(ctx context.Context, chunks []TermChunk) error

	PutVector(ctx context.Context, rec VectorRecord) error
	GetVector(ctx context.Context, field, docID string) (VectorRecord, bool, error)
	DeleteVector(ctx context.Context, field, docID string) error

	PutDocument(ctx context.Context, rec DocumentRecord) error
	GetDocument(ctx context.Context, docID string) (DocumentRecord, bool, error)
	DeleteDocument(ctx context.Context, docID string) error
	PutDocumentsBatch(ctx context.Context, recs []DocumentRecord) error

	PutCacheState(ctx context.Context, rec CacheStateRecord) error
	GetCacheState(ctx context.Context, key string) (CacheStateRecord, bool, error)

	ClearStore(ctx context.Context, store string) error
}

// Tx is the transaction handle passed to WithTransaction callbacks. It
// exposes the same put/get/delete surface as Store but scoped to the
// stores the transaction was opened against.
type Tx interface {
	PutTermChunk(chunk TermChunk) error
	DeleteTermChunk(key TermKey) error
	PutDocument(rec DocumentRecord) error
	DeleteDocument(docID string) error
	PutMetadata(rec MetadataRecord) error
	PutCacheState(rec CacheStateRecord) error
}
