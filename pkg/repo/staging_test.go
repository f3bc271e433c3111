package repo

import (
	"errors"
	"testing"

	"github.com/odvcencio/gitlet/pkg/object"
)

func TestStagingStageAddAgainstHead(t *testing.T) {
	committed := object.NewBlob("f.txt", []byte("v1"))
	headTree := object.Tree{"f.txt": committed.ID}
	s := NewStaging()

	changed := object.NewBlob("f.txt", []byte("v2"))
	if !s.StageAdd(changed, headTree) {
		t.Fatal("StageAdd of changed content returned false")
	}
	if s.Added["f.txt"] != changed.ID {
		t.Fatalf("Added[f.txt] = %s, want %s", s.Added["f.txt"], changed.ID)
	}

	// Re-adding the committed version drops the pending addition.
	if s.StageAdd(committed, headTree) {
		t.Fatal("StageAdd of committed content returned true")
	}
	if _, ok := s.Added["f.txt"]; ok {
		t.Error("f.txt still staged after re-adding committed version")
	}
	if !s.IsEmpty() {
		t.Error("stage not empty")
	}
}

func TestStagingAddAndRemoveAreExclusive(t *testing.T) {
	s := NewStaging()
	b := object.NewBlob("f.txt", []byte("x"))

	s.StageAdd(b, object.Tree{})
	s.StageRemove("f.txt", b.ID)
	if _, ok := s.Added["f.txt"]; ok {
		t.Error("StageRemove left an addition behind")
	}
	if _, ok := s.Removed["f.txt"]; !ok {
		t.Error("StageRemove did not record the removal")
	}

	s.StageAdd(b, object.Tree{})
	if _, ok := s.Removed["f.txt"]; ok {
		t.Error("StageAdd left a removal behind")
	}

	s.Unstage("f.txt")
	if !s.IsEmpty() {
		t.Errorf("stage not empty after Unstage: %+v", s)
	}
	s.StageRemove("g.txt", "h")
	s.Unremove("g.txt")
	if !s.IsEmpty() {
		t.Errorf("stage not empty after Unremove: %+v", s)
	}
}

func TestStagingApplyAndClone(t *testing.T) {
	base := object.Tree{"keep.txt": "k", "drop.txt": "d", "edit.txt": "e1"}
	s := NewStaging()
	s.Added["edit.txt"] = "e2"
	s.Added["new.txt"] = "n"
	s.Removed["drop.txt"] = "d"

	got := s.Apply(base)
	want := object.Tree{"keep.txt": "k", "edit.txt": "e2", "new.txt": "n"}
	if len(got) != len(want) {
		t.Fatalf("Apply = %v, want %v", got, want)
	}
	for name, h := range want {
		if got[name] != h {
			t.Errorf("Apply[%s] = %s, want %s", name, got[name], h)
		}
	}
	if base["edit.txt"] != "e1" || len(base) != 3 {
		t.Error("Apply mutated its input tree")
	}

	c := s.Clone()
	c.Clear()
	if s.IsEmpty() {
		t.Error("clearing a clone cleared the original")
	}
	if got := s.AddedNames(); len(got) != 2 || got[0] != "edit.txt" || got[1] != "new.txt" {
		t.Errorf("AddedNames = %v", got)
	}
}

func TestAddStagesFileAndWritesBlob(t *testing.T) {
	r, dir := initTestRepo(t)
	writeFile(t, dir, "hello.txt", "hello\n")

	if err := r.Add("hello.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	stg := r.Staging()
	h, ok := stg.Added["hello.txt"]
	if !ok {
		t.Fatal("hello.txt not staged")
	}
	blob, err := r.ReadBlob(h)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if string(blob.Data) != "hello\n" || blob.Filename != "hello.txt" {
		t.Errorf("blob = %+v", blob)
	}
}

func TestAddMissingFile(t *testing.T) {
	r, _ := initTestRepo(t)
	err := r.Add("nope.txt")
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("Add missing: err = %v, want ErrFileNotFound", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Add missing: err = %v, want kind ErrNotFound", err)
	}
}

func TestAddRejectsBadNames(t *testing.T) {
	r, _ := initTestRepo(t)
	for _, name := range []string{"", ".", "..", ".gitlet", "sub/f.txt", "a\nb"} {
		if err := r.Add(name); !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("Add(%q): err = %v, want ErrInvalidFilename", name, err)
		}
	}
}

func TestAddUnchangedFileIsNotStaged(t *testing.T) {
	r, dir := initTestRepo(t)
	commitFile(t, r, dir, "f.txt", "same\n", "add f")

	writeFile(t, dir, "f.txt", "changed\n")
	if err := r.Add("f.txt"); err != nil {
		t.Fatalf("Add changed: %v", err)
	}
	writeFile(t, dir, "f.txt", "same\n")
	if err := r.Add("f.txt"); err != nil {
		t.Fatalf("Add reverted: %v", err)
	}
	if _, ok := r.Staging().Added["f.txt"]; ok {
		t.Error("file equal to head version is still staged")
	}
}

func TestRemoveTrackedFile(t *testing.T) {
	r, dir := initTestRepo(t)
	commitFile(t, r, dir, "f.txt", "data\n", "add f")

	if err := r.Remove("f.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if fileExists(dir, "f.txt") {
		t.Error("Remove left the working file")
	}
	if _, ok := r.Staging().Removed["f.txt"]; !ok {
		t.Error("f.txt not staged for removal")
	}

	// Adding it back un-removes it even though the file is gone.
	if err := r.Add("f.txt"); err != nil {
		t.Fatalf("Add after Remove: %v", err)
	}
	if !r.Staging().IsEmpty() {
		t.Errorf("stage not empty after un-remove: %+v", r.Staging())
	}
}

func TestRemoveStagedUntrackedFile(t *testing.T) {
	r, dir := initTestRepo(t)
	writeFile(t, dir, "new.txt", "new\n")
	if err := r.Add("new.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Remove("new.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !r.Staging().IsEmpty() {
		t.Error("stage not empty after removing a staged untracked file")
	}
	if !fileExists(dir, "new.txt") {
		t.Error("Remove deleted an untracked working file")
	}
}

func TestRemoveNoReason(t *testing.T) {
	r, dir := initTestRepo(t)
	writeFile(t, dir, "loose.txt", "x")
	err := r.Remove("loose.txt")
	if !errors.Is(err, ErrNoReasonToRemove) {
		t.Fatalf("Remove: err = %v, want ErrNoReasonToRemove", err)
	}
	if !fileExists(dir, "loose.txt") {
		t.Error("failed Remove deleted the file")
	}
}
