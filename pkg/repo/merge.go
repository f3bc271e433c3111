package repo

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// FileMergeReport records the merge outcome for a single file.
type FileMergeReport struct {
	Path   string
	Status string // "given", "removed", "conflict"
}

// MergeReport is the overall result of a repository-level merge.
type MergeReport struct {
	Branch        string
	Split         object.Hash
	Files         []FileMergeReport
	FastForward   bool        // current branch advanced to the given tip
	AlreadyMerged bool        // given tip is already an ancestor of head
	HasConflicts  bool        // conflict markers were written
	Conflicts     []string    // conflicted filenames, sorted
	MergeCommit   object.Hash // set when a merge commit was created
}

type mergeAction int

const (
	mergeKeep mergeAction = iota
	mergeTakeGiven
	mergeRemove
	mergeConflict
)

// classifyMerge decides the outcome for one filename from its blob id in
// the split, current and given trees. An empty id means the file is absent
// on that side.
func classifyMerge(split, current, given object.Hash) mergeAction {
	switch {
	case current == given:
		return mergeKeep
	case split != "" && current == split:
		if given == "" {
			return mergeRemove
		}
		return mergeTakeGiven
	case split != "" && given == split:
		return mergeKeep
	case split != "":
		return mergeConflict
	case current == "":
		return mergeTakeGiven
	case given == "":
		return mergeKeep
	default:
		return mergeConflict
	}
}

// renderConflict builds the whole-file conflict text. Absent sides are
// empty; no newline is inserted after either side.
func renderConflict(current, given []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<<<<<<< HEAD\n")
	buf.Write(current)
	buf.WriteString("=======\n")
	buf.Write(given)
	buf.WriteString(">>>>>>>\n")
	return buf.Bytes()
}

type plannedFile struct {
	name    string
	action  mergeAction
	blob    *object.Blob // content to write for take-given and conflict
	current object.Hash
}

// Merge merges branch name into the current branch.
//
// Algorithm:
//  1. Check preconditions in order: empty stage, branch exists, not the
//     current branch, no untracked files.
//  2. Find the split point of head and the branch tip.
//  3. If the split is the branch tip, there is nothing to do.
//  4. If the split is head, fast-forward the current branch.
//  5. Otherwise classify every file of the three trees, update the working
//     tree and stage, and commit with the branch tip as merge parent.
//
// Conflicts do not fail the merge; they are reported in MergeReport.
func (r *Repo) Merge(name string) (*MergeReport, error) {
	report := &MergeReport{Branch: name}
	err := r.update("merge", func(st *State) error {
		// 1. Preconditions.
		if !st.Stage.IsEmpty() {
			return ErrUncommittedChanges
		}
		givenTip, ok := st.Branches[name]
		if !ok {
			return ErrNoSuchBranch
		}
		if name == st.CurrentBranch {
			return ErrSelfMerge
		}
		head, err := r.readCommit(st.Head)
		if err != nil {
			return err
		}
		if err := r.checkUntracked(st, head.Tree); err != nil {
			return err
		}
		given, err := r.readCommit(givenTip)
		if err != nil {
			return err
		}

		// 2. Split point.
		splitHash, err := r.FindSplit(st.Head, givenTip)
		if err != nil {
			return err
		}
		report.Split = splitHash

		// 3. Given branch is an ancestor of head.
		if splitHash == givenTip {
			report.AlreadyMerged = true
			r.logger.Debug("merge: already merged", zap.String("branch", name))
			return nil
		}

		// 4. Fast-forward.
		if splitHash == st.Head {
			if err := r.applyTree(head.Tree, given.Tree, nil); err != nil {
				return err
			}
			st.advance(givenTip)
			st.Stage.Clear()
			report.FastForward = true
			r.logger.Debug("merge: fast-forward",
				zap.String("branch", st.CurrentBranch),
				zap.String("to", string(givenTip)),
			)
			return nil
		}

		// 5. Three-way reconciliation.
		split, err := r.readCommit(splitHash)
		if err != nil {
			return err
		}
		plan, err := r.planMerge(split.Tree, head.Tree, given.Tree)
		if err != nil {
			return err
		}
		if err := r.applyMergePlan(st, plan, head.Tree, report); err != nil {
			return err
		}

		msg := fmt.Sprintf("Merged %s into %s.", name, st.CurrentBranch)
		c, err := r.commitStaged(st, msg, givenTip)
		if err != nil {
			return err
		}
		report.MergeCommit = c.ID
		r.logger.Debug("merge: committed",
			zap.String("commit", string(c.ID)),
			zap.Int("conflicts", len(report.Conflicts)),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// planMerge classifies every filename in the three trees and loads the
// content each non-trivial outcome will write. Nothing is written yet.
func (r *Repo) planMerge(split, current, given object.Tree) ([]plannedFile, error) {
	names := collectAllNames(split, current, given)
	var plan []plannedFile
	for _, name := range names {
		action := classifyMerge(split[name], current[name], given[name])
		pf := plannedFile{name: name, action: action, current: current[name]}

		switch action {
		case mergeKeep:
			continue
		case mergeTakeGiven:
			b, err := r.ReadBlob(given[name])
			if err != nil {
				return nil, err
			}
			pf.blob = b
		case mergeConflict:
			cur, err := r.blobData(current[name])
			if err != nil {
				return nil, err
			}
			giv, err := r.blobData(given[name])
			if err != nil {
				return nil, err
			}
			pf.blob = object.NewBlob(name, renderConflict(cur, giv))
		}
		plan = append(plan, pf)
	}
	return plan, nil
}

func (r *Repo) applyMergePlan(st *State, plan []plannedFile, headTree object.Tree, report *MergeReport) error {
	for _, pf := range plan {
		switch pf.action {
		case mergeTakeGiven:
			if err := r.Worktree.WriteFile(pf.name, pf.blob.Data); err != nil {
				return err
			}
			st.Stage.StageAdd(pf.blob, headTree)
			report.Files = append(report.Files, FileMergeReport{Path: pf.name, Status: "given"})

		case mergeRemove:
			if err := r.Worktree.Remove(pf.name); err != nil {
				return err
			}
			st.Stage.StageRemove(pf.name, pf.current)
			report.Files = append(report.Files, FileMergeReport{Path: pf.name, Status: "removed"})

		case mergeConflict:
			if _, err := r.Store.PutBlob(pf.blob); err != nil {
				return fmt.Errorf("write conflicted blob %q: %w", pf.name, err)
			}
			if err := r.Worktree.WriteFile(pf.name, pf.blob.Data); err != nil {
				return err
			}
			st.Stage.StageAdd(pf.blob, headTree)
			report.Files = append(report.Files, FileMergeReport{Path: pf.name, Status: "conflict"})
			report.Conflicts = append(report.Conflicts, pf.name)
			report.HasConflicts = true
			r.logger.Debug("merge: conflict", zap.String("file", pf.name))
		}
	}
	return nil
}

// blobData returns the content of h, or nil when h is empty.
func (r *Repo) blobData(h object.Hash) ([]byte, error) {
	if h == "" {
		return nil, nil
	}
	b, err := r.ReadBlob(h)
	if err != nil {
		return nil, err
	}
	return b.Data, nil
}

func collectAllNames(trees ...object.Tree) []string {
	var names []string
	for _, t := range trees {
		names = append(names, lo.Keys(t)...)
	}
	names = lo.Uniq(names)
	sort.Strings(names)
	return names
}
