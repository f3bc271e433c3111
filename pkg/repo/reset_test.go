package repo

import (
	"errors"
	"testing"

	"github.com/odvcencio/gitlet/pkg/object"
)

func TestResetMovesBranchAndWorkingTree(t *testing.T) {
	r, dir := initTestRepo(t)
	first := commitFile(t, r, dir, "a.txt", "a1", "a1")
	commitFile(t, r, dir, "b.txt", "b", "add b")
	commitFile(t, r, dir, "a.txt", "a2", "a2")

	writeFile(t, dir, "c.txt", "staged only")
	if err := r.Add("c.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := r.Reset(string(first[:6])); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if r.Head() != first {
		t.Errorf("Head = %s, want %s", r.Head(), first)
	}
	if tip, _ := r.BranchTip("master"); tip != first {
		t.Errorf("master = %s, want %s", tip, first)
	}
	if got := readFile(t, dir, "a.txt"); got != "a1" {
		t.Errorf("a.txt = %q, want a1", got)
	}
	for _, name := range []string{"b.txt", "c.txt"} {
		if fileExists(dir, name) {
			t.Errorf("%s survived reset to a commit without it", name)
		}
	}
	if !r.Staging().IsEmpty() {
		t.Error("reset did not clear the stage")
	}
}

func TestResetErrors(t *testing.T) {
	r, dir := initTestRepo(t)
	h := commitFile(t, r, dir, "a.txt", "a", "add a")

	if err := r.Reset("0000000000"); !errors.Is(err, ErrNoSuchCommit) {
		t.Errorf("unknown commit: err = %v, want ErrNoSuchCommit", err)
	}

	writeFile(t, dir, "stray.txt", "x")
	if err := r.Reset(string(object.InitialCommit().ID)); !errors.Is(err, ErrUntrackedFileConflict) {
		t.Errorf("untracked file: err = %v, want ErrUntrackedFileConflict", err)
	}
	if r.Head() != h || !fileExists(dir, "a.txt") {
		t.Error("failed reset changed head or working tree")
	}
}
