package object

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store persists blobs and commits by content hash. Objects are immutable:
// writing an object that is already present is a no-op.
type Store interface {
	PutBlob(b *Blob) (Hash, error)
	GetBlob(h Hash) (*Blob, error)
	PutCommit(c *Commit) (Hash, error)
	GetCommit(h Hash) (*Commit, error)
	HasCommit(h Hash) bool
	// ResolvePrefix expands an abbreviated commit hash.
	ResolvePrefix(prefix string) (Hash, error)
	// ListCommits returns every stored commit hash in sorted order.
	ListCommits() ([]Hash, error)
	Close() error
}

// StoreOption configures a Store implementation.
type StoreOption func(*storeOptions)

type storeOptions struct {
	compression Compression
}

// WithCompression sets the at-rest encoding for newly written objects.
func WithCompression(c Compression) StoreOption {
	return func(o *storeOptions) {
		o.compression = c
	}
}

func applyStoreOptions(opts []StoreOption) storeOptions {
	o := storeOptions{compression: CompressionNone}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FileStore keeps one file per object: commits/<hash> and blobs/<hash>.
type FileStore struct {
	root        string
	compression Compression
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at the given directory. The
// commits/ and blobs/ subdirectories are created lazily on first write.
func NewFileStore(root string, opts ...StoreOption) *FileStore {
	o := applyStoreOptions(opts)
	return &FileStore{root: root, compression: o.compression}
}

func typeDir(objType ObjectType) string {
	switch objType {
	case TypeCommit:
		return "commits"
	default:
		return "blobs"
	}
}

// objectPath returns the filesystem path for a given hash.
func (s *FileStore) objectPath(objType ObjectType, h Hash) string {
	return filepath.Join(s.root, typeDir(objType), string(h))
}

func (s *FileStore) has(objType ObjectType, h Hash) bool {
	if !IsFullHash(string(h)) {
		return false
	}
	_, err := os.Stat(s.objectPath(objType, h))
	return err == nil
}

// write stores an object under h. Writes are atomic: data is written to a
// temp file and then renamed into place.
func (s *FileStore) write(objType ObjectType, h Hash, payload []byte) error {
	// Fast path: already exists.
	if s.has(objType, h) {
		return nil
	}

	raw, err := encodeRecord(s.compression, encodeEnvelope(objType, payload))
	if err != nil {
		return fmt.Errorf("object write %s: %w", h, err)
	}

	dir := filepath.Join(s.root, typeDir(objType))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("object write close: %w", err)
	}

	if err := os.Rename(tmpName, s.objectPath(objType, h)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("object write rename: %w", err)
	}
	return nil
}

// read retrieves an object's payload, checking the envelope type.
func (s *FileStore) read(objType ObjectType, h Hash) ([]byte, error) {
	if !IsFullHash(string(h)) {
		return nil, fmt.Errorf("object read %s %q: %w", objType, h, ErrNotFound)
	}
	stored, err := os.ReadFile(s.objectPath(objType, h))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("object read %s %s: %w", objType, h, ErrNotFound)
		}
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return unpackRecord(objType, h, stored)
}

// PutBlob stores a Blob and returns its hash.
func (s *FileStore) PutBlob(b *Blob) (Hash, error) {
	h, payload := blobRecord(b)
	if err := s.write(TypeBlob, h, payload); err != nil {
		return "", err
	}
	return h, nil
}

// GetBlob reads and deserializes a Blob.
func (s *FileStore) GetBlob(h Hash) (*Blob, error) {
	payload, err := s.read(TypeBlob, h)
	if err != nil {
		return nil, err
	}
	return decodeBlob(h, payload)
}

// PutCommit stores a Commit and returns its hash.
func (s *FileStore) PutCommit(c *Commit) (Hash, error) {
	h, payload := commitRecord(c)
	if err := s.write(TypeCommit, h, payload); err != nil {
		return "", err
	}
	return h, nil
}

// GetCommit reads and deserializes a Commit.
func (s *FileStore) GetCommit(h Hash) (*Commit, error) {
	payload, err := s.read(TypeCommit, h)
	if err != nil {
		return nil, err
	}
	return decodeCommit(h, payload)
}

// HasCommit reports whether a commit with the given full hash is stored.
func (s *FileStore) HasCommit(h Hash) bool {
	return s.has(TypeCommit, h)
}

// ListCommits returns the hashes of all stored commits, sorted.
func (s *FileStore) ListCommits() ([]Hash, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, typeDir(TypeCommit)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list commits: %w", err)
	}
	out := make([]Hash, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if IsFullHash(e.Name()) {
			out = append(out, Hash(e.Name()))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// ResolvePrefix expands an abbreviated commit hash by scanning the stored
// commits.
func (s *FileStore) ResolvePrefix(prefix string) (Hash, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if IsFullHash(prefix) {
		if s.HasCommit(Hash(prefix)) {
			return Hash(prefix), nil
		}
		return "", fmt.Errorf("resolve %q: %w", prefix, ErrNotFound)
	}
	all, err := s.ListCommits()
	if err != nil {
		return "", err
	}
	return MatchPrefix(prefix, all)
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }

// ---------------------------------------------------------------------------
// Record helpers shared by Store implementations
// ---------------------------------------------------------------------------

func blobRecord(b *Blob) (Hash, []byte) {
	payload := MarshalBlob(b)
	h := HashObject(TypeBlob, payload)
	if b.ID == "" {
		b.ID = h
	}
	return h, payload
}

func commitRecord(c *Commit) (Hash, []byte) {
	h := HashCommit(c)
	if c.ID == "" {
		c.ID = h
	}
	return h, MarshalCommit(c)
}

func unpackRecord(objType ObjectType, h Hash, stored []byte) ([]byte, error) {
	raw, err := decodeRecord(stored)
	if err != nil {
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}
	gotType, payload, err := decodeEnvelope(h, raw)
	if err != nil {
		return nil, err
	}
	if gotType != objType {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", h, gotType, objType)
	}
	return payload, nil
}

func decodeBlob(h Hash, payload []byte) (*Blob, error) {
	if got := HashObject(TypeBlob, payload); got != h {
		return nil, fmt.Errorf("object %s: corrupt blob (content hashes to %s)", h, got)
	}
	b, err := UnmarshalBlob(payload)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	b.ID = h
	return b, nil
}

func decodeCommit(h Hash, payload []byte) (*Commit, error) {
	c, err := UnmarshalCommit(payload)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	if c.ID != h {
		return nil, fmt.Errorf("object %s: corrupt commit (fields hash to %s)", h, c.ID)
	}
	return c, nil
}
