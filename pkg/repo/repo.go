package repo

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/odvcencio/gitlet/pkg/object"
	"go.uber.org/zap"
)

// Repo represents an opened Gitlet repository. A Repo is not safe for use
// by more than one process at a time.
type Repo struct {
	RootDir    string       // working directory root
	ControlDir string       // .gitlet/ directory
	Store      object.Store // content-addressed object store
	Config     *Config
	Worktree   Worktree

	logger *zap.Logger
	now    func() time.Time
	state  *State

	traversalOnce sync.Once
	traversal     *traversalState
}

// Option configures a Repo at Init or Open time.
type Option func(*options)

type options struct {
	logger   *zap.Logger
	now      func() time.Time
	config   *Config
	worktree Worktree
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the source of commit timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithConfig sets the configuration Init writes. Open always reads the
// configuration from disk.
func WithConfig(cfg *Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithWorktree replaces the on-disk worktree rooted at the repository root.
func WithWorktree(w Worktree) Option {
	return func(o *options) { o.worktree = w }
}

func applyOptions(opts []Option) options {
	o := options{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SetLogger replaces the logger. A nil logger disables logging.
func (r *Repo) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	r.logger = l
}

// Close flushes the logger and releases the object store.
func (r *Repo) Close() error {
	// Sync fails on unsyncable writers such as a terminal stderr.
	_ = r.logger.Sync()
	return r.Store.Close()
}

// Head returns the commit the current branch points at.
func (r *Repo) Head() object.Hash {
	return r.state.Head
}

// CurrentBranch returns the name of the checked-out branch.
func (r *Repo) CurrentBranch() string {
	return r.state.CurrentBranch
}

// Staging returns a copy of the staging index.
func (r *Repo) Staging() *Staging {
	return r.state.Stage.Clone()
}

// HeadCommit reads the commit at head.
func (r *Repo) HeadCommit() (*object.Commit, error) {
	return r.readCommit(r.state.Head)
}

// ReadCommit resolves id (full or abbreviated) and reads the commit.
func (r *Repo) ReadCommit(id string) (*object.Commit, error) {
	h, err := r.ResolveCommit(id)
	if err != nil {
		return nil, err
	}
	return r.readCommit(h)
}

// ReadBlob reads a stored blob.
func (r *Repo) ReadBlob(h object.Hash) (*object.Blob, error) {
	b, err := r.Store.GetBlob(h)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", h, err)
	}
	return b, nil
}

// ResolveCommit maps a full or abbreviated commit id to a stored commit
// hash. Prefixes are matched against the abbreviation index first and then
// against the object store; a prefix shared by more than one commit is
// ErrAmbiguousCommit.
func (r *Repo) ResolveCommit(id string) (object.Hash, error) {
	prefix := strings.ToLower(strings.TrimSpace(id))
	if prefix == "" {
		return "", ErrNoSuchCommit
	}
	if object.IsFullHash(prefix) {
		if !r.Store.HasCommit(object.Hash(prefix)) {
			return "", ErrNoSuchCommit
		}
		return object.Hash(prefix), nil
	}

	candidates := r.state.abbrevCandidates(prefix, r.Config.Core.AbbrevLength)
	h, err := object.MatchPrefix(prefix, candidates)
	if errors.Is(err, ErrNotFound) {
		// Commits missing from the index are still found by a store scan.
		h, err = r.Store.ResolvePrefix(prefix)
	}
	switch {
	case err == nil:
		return h, nil
	case errors.Is(err, ErrAmbiguous):
		r.logger.Debug("ambiguous commit prefix", zap.String("prefix", prefix), zap.Error(err))
		return "", ErrAmbiguousCommit
	case errors.Is(err, ErrNotFound):
		return "", ErrNoSuchCommit
	default:
		return "", fmt.Errorf("resolve commit %q: %w", prefix, err)
	}
}

// update runs fn against a copy of the repository state and persists the
// result. If fn or the write fails, the in-memory and on-disk state are
// left exactly as they were.
func (r *Repo) update(op string, fn func(st *State) error) error {
	st := r.state.clone()
	if err := fn(st); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := st.check(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeState(r.ControlDir, st); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	r.state = st
	r.logger.Debug("state persisted",
		zap.String("op", op),
		zap.String("branch", st.CurrentBranch),
		zap.String("head", string(st.Head)),
		zap.Int("staged", len(st.Stage.Added)),
		zap.Int("removed", len(st.Stage.Removed)),
	)
	return nil
}

func (r *Repo) getTraversalState() *traversalState {
	r.traversalOnce.Do(func() {
		r.traversal = newTraversalState()
	})
	return r.traversal
}

// readCommit reads a commit through the traversal cache. Commits are
// immutable, so a cached copy never goes stale.
func (r *Repo) readCommit(h object.Hash) (*object.Commit, error) {
	return r.getTraversalState().readCommit(r.Store, h)
}

// writeCommit stores c and indexes its abbreviation.
func (r *Repo) writeCommit(st *State, c *object.Commit) error {
	if _, err := r.Store.PutCommit(c); err != nil {
		return fmt.Errorf("write commit: %w", err)
	}
	st.indexCommit(c.ID, r.Config.Core.AbbrevLength)
	return nil
}
