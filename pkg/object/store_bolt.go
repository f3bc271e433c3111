package object

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// boltOpenTimeout bounds the wait for the database file lock held by
// another process.
const boltOpenTimeout = 2 * time.Second

var (
	boltCommitBucket = []byte("commits")
	boltBlobBucket   = []byte("blobs")
)

// BoltStore keeps commits and blobs as keyed records in a single BoltDB
// file, one bucket per object type.
type BoltStore struct {
	db          *bolt.DB
	compression Compression
	once        sync.Once
}

var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens (or creates) a BoltDB object database at path.
func OpenBoltStore(path string, opts ...StoreOption) (*BoltStore, error) {
	if path == "" {
		return nil, errors.New("open bolt store: path is required")
	}
	o := applyStoreOptions(opts)

	cleaned := filepath.Clean(path)
	if dir := filepath.Dir(cleaned); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("open bolt store: mkdir: %w", err)
		}
	}

	db, err := bolt.Open(cleaned, 0o600, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("open bolt store: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{boltCommitBucket, boltBlobBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open bolt store: create buckets: %w", err)
	}

	return &BoltStore{db: db, compression: o.compression}, nil
}

func boltBucket(objType ObjectType) []byte {
	if objType == TypeCommit {
		return boltCommitBucket
	}
	return boltBlobBucket
}

func (s *BoltStore) write(objType ObjectType, h Hash, payload []byte) error {
	raw, err := encodeRecord(s.compression, encodeEnvelope(objType, payload))
	if err != nil {
		return fmt.Errorf("object write %s: %w", h, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltBucket(objType))
		if b == nil {
			return fmt.Errorf("object write %s: bucket %s missing", h, boltBucket(objType))
		}
		if b.Get([]byte(h)) != nil {
			return nil
		}
		return b.Put([]byte(h), raw)
	})
}

func (s *BoltStore) read(objType ObjectType, h Hash) ([]byte, error) {
	var stored []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltBucket(objType))
		if b == nil {
			return fmt.Errorf("object read %s %s: %w", objType, h, ErrNotFound)
		}
		data := b.Get([]byte(h))
		if data == nil {
			return fmt.Errorf("object read %s %s: %w", objType, h, ErrNotFound)
		}
		// Bolt values are only valid for the life of the transaction.
		stored = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return unpackRecord(objType, h, stored)
}

// PutBlob stores a Blob and returns its hash.
func (s *BoltStore) PutBlob(b *Blob) (Hash, error) {
	h, payload := blobRecord(b)
	if err := s.write(TypeBlob, h, payload); err != nil {
		return "", err
	}
	return h, nil
}

// GetBlob reads and deserializes a Blob.
func (s *BoltStore) GetBlob(h Hash) (*Blob, error) {
	payload, err := s.read(TypeBlob, h)
	if err != nil {
		return nil, err
	}
	return decodeBlob(h, payload)
}

// PutCommit stores a Commit and returns its hash.
func (s *BoltStore) PutCommit(c *Commit) (Hash, error) {
	h, payload := commitRecord(c)
	if err := s.write(TypeCommit, h, payload); err != nil {
		return "", err
	}
	return h, nil
}

// GetCommit reads and deserializes a Commit.
func (s *BoltStore) GetCommit(h Hash) (*Commit, error) {
	payload, err := s.read(TypeCommit, h)
	if err != nil {
		return nil, err
	}
	return decodeCommit(h, payload)
}

// HasCommit reports whether a commit with the given full hash is stored.
func (s *BoltStore) HasCommit(h Hash) bool {
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(boltCommitBucket); b != nil {
			found = b.Get([]byte(h)) != nil
		}
		return nil
	})
	return found
}

// ListCommits returns every stored commit hash. Bolt iterates keys in byte
// order, so the result is already sorted.
func (s *BoltStore) ListCommits() ([]Hash, error) {
	var out []Hash
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltCommitBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			out = append(out, Hash(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}
	return out, nil
}

// ResolvePrefix expands an abbreviated commit hash with a cursor seek over
// the commit bucket.
func (s *BoltStore) ResolvePrefix(prefix string) (Hash, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || !isHex(prefix) {
		return "", fmt.Errorf("resolve %q: %w", prefix, ErrNotFound)
	}

	var candidates []Hash
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltCommitBucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			candidates = append(candidates, Hash(k))
			// Two matches are enough to prove ambiguity.
			if len(candidates) > 1 {
				break
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", prefix, err)
	}
	return MatchPrefix(prefix, candidates)
}

// Close shuts down the Bolt DB.
func (s *BoltStore) Close() error {
	var err error
	s.once.Do(func() {
		err = s.db.Close()
	})
	return err
}
