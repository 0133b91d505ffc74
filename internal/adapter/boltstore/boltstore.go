// Package boltstore implements adapter.Store on top of go.etcd.io/bbolt,
// one bucket per named object store, guarded by a gofrs/flock file lock so
// only one process at a time opens a given database file.
package boltstore

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	bolt "go.etcd.io/bbolt"

	"github.com/ftskit/ftsengine/internal/adapter"
	"github.com/ftskit/ftsengine/internal/ftserrors"
)

var buckets = []string{
	adapter.StoreMetadata,
	adapter.StoreTerms,
	adapter.StoreVectors,
	adapter.StoreDocuments,
	adapter.StoreCacheState,
}

// Store is a durable, file-backed adapter.Store.
type Store struct {
	path string
	db   *bolt.DB
	lock *flock.Flock
}

// New returns a Store bound to the bbolt database file at path. Open must
// be called before any other method.
func New(path string) *Store {
	return &Store{path: path}
}

// Open acquires the file lock, opens the database, and idempotently
// creates any missing bucket. version is recorded under a metadata key so
// future opens can detect a schema mismatch (no migration logic exists at
// this version).
func (s *Store) Open(ctx context.Context, version int) error {
	s.lock = flock.New(s.path + ".lock")
	locked, err := s.lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return ftserrors.AdapterError("failed to acquire database lock", err)
	}
	if !locked {
		return ftserrors.AdapterError("database is locked by another process", nil)
	}

	db, err := bolt.Open(s.path, 0o600, nil)
	if err != nil {
		s.lock.Unlock()
		return ftserrors.AdapterError("failed to open database", err)
	}
	s.db = db

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(b)); err != nil {
				return err
			}
		}
		versionBucket, err := tx.CreateBucketIfNotExists([]byte(adapter.StoreMetadata))
		if err != nil {
			return err
		}
		return versionBucket.Put([]byte("__schema_version"), []byte(strconv.Itoa(version)))
	})
	if err != nil {
		db.Close()
		s.lock.Unlock()
		return ftserrors.TransactionError("failed to initialize database schema", err)
	}
	return nil
}

// Close releases the database handle and file lock.
func (s *Store) Close() error {
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		s.lock.Unlock()
	}
	return err
}

// DeleteDatabase drops and recreates every bucket, leaving the database
// open and the file in place but empty.
func (s *Store) DeleteDatabase(ctx context.Context) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, b := range buckets {
			if err := tx.DeleteBucket([]byte(b)); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucketIfNotExists([]byte(b)); err != nil {
				return err
			}
		}
		return nil
	})
}

// termKeyBytes joins field/term/chunk with NUL separators into a single
// compound key.
func termKeyBytes(field, term string, chunk int) []byte {
	var b strings.Builder
	b.WriteString(field)
	b.WriteByte(0)
	b.WriteString(term)
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(chunk))
	return []byte(b.String())
}

func vectorKeyBytes(field, docID string) []byte {
	var b strings.Builder
	b.WriteString(field)
	b.WriteByte(0)
	b.WriteString(docID)
	return []byte(b.String())
}

type boltTx struct {
	tx *bolt.Tx
}

func (t *boltTx) PutTermChunk(chunk adapter.TermChunk) error {
	return putTermChunk(t.tx, chunk)
}

func (t *boltTx) DeleteTermChunk(key adapter.TermKey) error {
	bucket := t.tx.Bucket([]byte(adapter.StoreTerms))
	return bucket.Delete(termKeyBytes(key.Field, key.Term, key.Chunk))
}

func (t *boltTx) PutDocument(rec adapter.DocumentRecord) error {
	return putDocument(t.tx, rec)
}

func (t *boltTx) DeleteDocument(docID string) error {
	bucket := t.tx.Bucket([]byte(adapter.StoreDocuments))
	return bucket.Delete([]byte(docID))
}

func (t *boltTx) PutMetadata(rec adapter.MetadataRecord) error {
	return putMetadata(t.tx, rec)
}

func (t *boltTx) PutCacheState(rec adapter.CacheStateRecord) error {
	return putCacheState(t.tx, rec)
}

// WithTransaction runs fn inside a single read-write or read-only bbolt
// transaction. bbolt aborts (rolls back) an Update transaction whenever
// the callback returns an error, giving all-or-nothing semantics across
// every write fn makes.
func (s *Store) WithTransaction(ctx context.Context, stores []string, mode adapter.TxMode, fn func(tx adapter.Tx) error) error {
	run := s.db.Update
	if mode == adapter.TxReadOnly {
		run = func(fn func(*bolt.Tx) error) error { return s.db.View(fn) }
	}
	err := run(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
	if err != nil {
		return ftserrors.TransactionError("transaction aborted", err)
	}
	return nil
}

func putTermChunk(tx *bolt.Tx, chunk adapter.TermChunk) error {
	bucket := tx.Bucket([]byte(adapter.StoreTerms))
	data, err := json.Marshal(chunk)
	if err != nil {
		return err
	}
	return bucket.Put(termKeyBytes(chunk.Field, chunk.Term, chunk.Chunk), data)
}

func putDocument(tx *bolt.Tx, rec adapter.DocumentRecord) error {
	bucket := tx.Bucket([]byte(adapter.StoreDocuments))
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return bucket.Put([]byte(rec.DocID), data)
}

func putMetadata(tx *bolt.Tx, rec adapter.MetadataRecord) error {
	bucket := tx.Bucket([]byte(adapter.StoreMetadata))
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return bucket.Put([]byte(rec.Key), data)
}

func putCacheState(tx *bolt.Tx, rec adapter.CacheStateRecord) error {
	bucket := tx.Bucket([]byte(adapter.StoreCacheState))
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return bucket.Put([]byte(rec.Key), data)
}

func (s *Store) PutMetadata(ctx context.Context, rec adapter.MetadataRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error { return putMetadata(tx, rec) })
}

func (s *Store) GetMetadata(ctx context.Context, key string) (adapter.MetadataRecord, bool, error) {
	var out adapter.MetadataRecord
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(adapter.StoreMetadata)).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &out)
	})
	return out, found, err
}

func (s *Store) DeleteMetadata(ctx context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(adapter.StoreMetadata)).Delete([]byte(key))
	})
}

func (s *Store) PutTermChunk(ctx context.Context, chunk adapter.TermChunk) error {
	return s.db.Update(func(tx *bolt.Tx) error { return putTermChunk(tx, chunk) })
}

func (s *Store) GetTermChunk(ctx context.Context, key adapter.TermKey) (adapter.TermChunk, bool, error) {
	var out adapter.TermChunk
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(adapter.StoreTerms)).Get(termKeyBytes(key.Field, key.Term, key.Chunk))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &out)
	})
	return out, found, err
}

func (s *Store) DeleteTermChunk(ctx context.Context, key adapter.TermKey) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(adapter.StoreTerms)).Delete(termKeyBytes(key.Field, key.Term, key.Chunk))
	})
}

// PutTermChunksBatch writes every chunk inside a single transaction.
func (s *Store) PutTermChunksBatch(ctx context.Context, chunks []adapter.TermChunk) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, chunk := range chunks {
			if err := putTermChunk(tx, chunk); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) PutVector(ctx context.Context, rec adapter.VectorRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(adapter.StoreVectors))
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return bucket.Put(vectorKeyBytes(rec.Field, rec.DocID), data)
	})
}

func (s *Store) GetVector(ctx context.Context, field, docID string) (adapter.VectorRecord, bool, error) {
	var out adapter.VectorRecord
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(adapter.StoreVectors)).Get(vectorKeyBytes(field, docID))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &out)
	})
	return out, found, err
}

func (s *Store) DeleteVector(ctx context.Context, field, docID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(adapter.StoreVectors)).Delete(vectorKeyBytes(field, docID))
	})
}

func (s *Store) PutDocument(ctx context.Context, rec adapter.DocumentRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error { return putDocument(tx, rec) })
}

func (s *Store) GetDocument(ctx context.Context, docID string) (adapter.DocumentRecord, bool, error) {
	var out adapter.DocumentRecord
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(adapter.StoreDocuments)).Get([]byte(docID))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &out)
	})
	return out, found, err
}

func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(adapter.StoreDocuments)).Delete([]byte(docID))
	})
}

func (s *Store) PutDocumentsBatch(ctx context.Context, recs []adapter.DocumentRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, rec := range recs {
			if err := putDocument(tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) PutCacheState(ctx context.Context, rec adapter.CacheStateRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error { return putCacheState(tx, rec) })
}

func (s *Store) GetCacheState(ctx context.Context, key string) (adapter.CacheStateRecord, bool, error) {
	var out adapter.CacheStateRecord
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(adapter.StoreCacheState)).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &out)
	})
	return out, found, err
}

func (s *Store) ClearStore(ctx context.Context, store string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(store)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(store))
		return err
	})
}

// lockRetryInterval is the delay between TryLockContext's attempts to take
// the file lock; the caller's ctx bounds the total wait. This only matters across processes sharing a database
// file, since within one process bbolt already serializes opens.
const lockRetryInterval = 50 * time.Millisecond

var _ adapter.Store = (*Store)(nil)
