package object

import (
	"sort"
	"time"
)

// Hash is a 40-character hex-encoded SHA-1 digest.
type Hash string

// Short returns the first n characters of the hash, or the whole hash when
// it is shorter than n.
func (h Hash) Short(n int) string {
	if n <= 0 || len(h) <= n {
		return string(h)
	}
	return string(h[:n])
}

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeCommit ObjectType = "commit"
)

const (
	// InitialCommitMessage is the message of the fixed root commit.
	InitialCommitMessage = "initial commit"
	// DefaultBranch is the branch created by Init.
	DefaultBranch = "master"
)

// Blob is an immutable snapshot of one file's content at add-time.
// Two blobs with the same filename and content share an ID.
type Blob struct {
	ID       Hash
	Filename string
	Data     []byte
}

// NewBlob builds a Blob and assigns its content-derived ID.
func NewBlob(filename string, data []byte) *Blob {
	b := &Blob{Filename: filename, Data: append([]byte(nil), data...)}
	b.ID = HashObject(TypeBlob, MarshalBlob(b))
	return b
}

// Tree maps a tracked filename to the ID of its blob.
type Tree map[string]Hash

// Names returns the tree's filenames in sorted order.
func (t Tree) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the tree.
func (t Tree) Clone() Tree {
	out := make(Tree, len(t))
	for name, h := range t {
		out[name] = h
	}
	return out
}

// Commit is an immutable snapshot of the tracked file set plus ancestry.
// Parent is empty only for the initial commit; MergeParent is set only for
// merge commits.
type Commit struct {
	ID          Hash
	Message     string
	Timestamp   int64 // unix seconds
	Tree        Tree
	Parent      Hash
	MergeParent Hash
	Branch      string
}

// NewCommit builds a Commit and assigns its ID. The ID covers every field
// except ID itself and Branch.
func NewCommit(message string, timestamp int64, tree Tree, parent, mergeParent Hash, branch string) *Commit {
	if tree == nil {
		tree = Tree{}
	}
	c := &Commit{
		Message:     message,
		Timestamp:   timestamp,
		Tree:        tree,
		Parent:      parent,
		MergeParent: mergeParent,
		Branch:      branch,
	}
	c.ID = HashCommit(c)
	return c
}

// InitialCommit returns the reproducible root commit shared by every
// repository: empty tree, epoch timestamp, no parents.
func InitialCommit() *Commit {
	return NewCommit(InitialCommitMessage, 0, Tree{}, "", "", DefaultBranch)
}

// Time returns the commit timestamp as a time.Time.
func (c *Commit) Time() time.Time {
	return time.Unix(c.Timestamp, 0)
}

// IsMerge reports whether the commit has two parents.
func (c *Commit) IsMerge() bool {
	return c.MergeParent != ""
}

// Parents returns the non-empty parent links, first parent first.
func (c *Commit) Parents() []Hash {
	var out []Hash
	if c.Parent != "" {
		out = append(out, c.Parent)
	}
	if c.MergeParent != "" {
		out = append(out, c.MergeParent)
	}
	return out
}
