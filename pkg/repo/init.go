package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/gitlet/pkg/object"
	"go.uber.org/zap"
)

const controlDirName = ".gitlet"

// Init creates a new Gitlet repository at path: the .gitlet/ directory,
// config.toml, the object store holding the initial commit, and a state
// record with "master" pointing at it. Returns ErrAlreadyInitialized if a
// .gitlet/ directory already exists.
func Init(path string, opts ...Option) (*Repo, error) {
	o := applyOptions(opts)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	controlDir := filepath.Join(abs, controlDirName)

	if _, err := os.Stat(controlDir); err == nil {
		return nil, fmt.Errorf("init: %w", ErrAlreadyInitialized)
	}
	if err := os.MkdirAll(controlDir, 0o755); err != nil {
		return nil, fmt.Errorf("init: mkdir %s: %w", controlDir, err)
	}

	cfg := o.config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := WriteConfig(controlDir, cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	store, err := openStore(controlDir, cfg)
	if err != nil {
		return nil, fmt.Errorf("init: open store: %w", err)
	}

	root := object.InitialCommit()
	if _, err := store.PutCommit(root); err != nil {
		store.Close()
		return nil, fmt.Errorf("init: write initial commit: %w", err)
	}

	st := newState(root.ID, object.DefaultBranch, cfg.Core.AbbrevLength)
	if err := writeState(controlDir, st); err != nil {
		store.Close()
		return nil, fmt.Errorf("init: %w", err)
	}

	o.logger.Debug("initialized repository",
		zap.String("root", abs),
		zap.String("backend", cfg.Core.Backend),
		zap.String("initial_commit", string(root.ID)),
	)
	return newRepo(abs, controlDir, store, cfg, st, o), nil
}

// Open searches upward from path for a .gitlet/ directory and opens the
// repository. Returns ErrNotInitialized if no .gitlet/ directory is found.
func Open(path string, opts ...Option) (*Repo, error) {
	o := applyOptions(opts)

	// Resolve to absolute path for consistent traversal.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		controlDir := filepath.Join(cur, controlDirName)
		info, err := os.Stat(controlDir)
		if err == nil && info.IsDir() {
			return openAt(cur, controlDir, o)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached filesystem root without finding .gitlet/.
			return nil, fmt.Errorf("open: %w", ErrNotInitialized)
		}
		cur = parent
	}
}

func openAt(root, controlDir string, o options) (*Repo, error) {
	cfg, err := ReadConfig(controlDir)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	st, err := readState(controlDir)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if st.AbbrevLength != cfg.Core.AbbrevLength {
		st.reindex(cfg.Core.AbbrevLength)
	}
	store, err := openStore(controlDir, cfg)
	if err != nil {
		return nil, fmt.Errorf("open: store: %w", err)
	}
	if !store.HasCommit(st.Head) {
		store.Close()
		return nil, fmt.Errorf("open: head %s: %w", st.Head, ErrNoSuchCommit)
	}
	return newRepo(root, controlDir, store, cfg, st, o), nil
}

func newRepo(root, controlDir string, store object.Store, cfg *Config, st *State, o options) *Repo {
	wt := o.worktree
	if wt == nil {
		wt = NewDirWorktree(root)
	}
	return &Repo{
		RootDir:    root,
		ControlDir: controlDir,
		Store:      store,
		Config:     cfg,
		Worktree:   wt,
		logger:     o.logger,
		now:        o.now,
		state:      st,
	}
}
