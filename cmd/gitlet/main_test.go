package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/odvcencio/gitlet/pkg/repo"
	"go.uber.org/zap/zapcore"
)

func chdirForTest(t *testing.T, dir string) func() {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%s): %v", dir, err)
	}
	return func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restore cwd %s: %v", wd, err)
		}
	}
}

// run executes one gitlet command line and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("gitlet %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func writeWorkFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func readWorkFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func initCLIRepo(t *testing.T, extra ...string) {
	t.Helper()
	dir := t.TempDir()
	t.Cleanup(chdirForTest(t, dir))
	out := mustRun(t, append([]string{"init"}, extra...)...)
	if !strings.Contains(out, ".gitlet") {
		t.Fatalf("init output = %q", out)
	}
}

func TestCLIInitTwice(t *testing.T) {
	initCLIRepo(t)
	_, err := run(t, "init")
	if !errors.Is(err, repo.ErrAlreadyInitialized) {
		t.Fatalf("second init: err = %v, want ErrAlreadyInitialized", err)
	}
	if got := repo.Message(err); got != "A Gitlet version-control system already exists in the current directory." {
		t.Errorf("message = %q", got)
	}
}

func TestCLIOutsideRepository(t *testing.T) {
	t.Cleanup(chdirForTest(t, t.TempDir()))
	_, err := run(t, "status")
	if repo.Message(err) != "Not in an initialized Gitlet directory." {
		t.Fatalf("status outside repo: err = %v", err)
	}
}

func TestCLICommitLogAndFind(t *testing.T) {
	initCLIRepo(t)
	writeWorkFile(t, "a.txt", "a\n")
	mustRun(t, "add", "a.txt")
	mustRun(t, "commit", "add a")

	out := mustRun(t, "log")
	entries := strings.Count(out, "===\ncommit ")
	if entries != 2 {
		t.Fatalf("log shows %d commits, want 2:\n%s", entries, out)
	}
	if !strings.Contains(out, "\nadd a\n\n") || !strings.HasSuffix(out, "initial commit\n\n") {
		t.Errorf("log output:\n%s", out)
	}
	if !strings.Contains(out, "Date: ") {
		t.Errorf("log output lacks Date line:\n%s", out)
	}

	found := mustRun(t, "find", "add a")
	if len(strings.Fields(found)) != 1 {
		t.Errorf("find output = %q, want one id", found)
	}
	_, err := run(t, "find", "missing")
	if repo.Message(err) != "Found no commit with that message." {
		t.Errorf("find missing: err = %v", err)
	}

	global := mustRun(t, "global-log")
	if strings.Count(global, "===\ncommit ") != 2 {
		t.Errorf("global-log:\n%s", global)
	}
}

func TestCLICommitErrors(t *testing.T) {
	initCLIRepo(t)
	_, err := run(t, "commit", "nothing staged")
	if repo.Message(err) != "No changes added to the commit." {
		t.Errorf("empty stage: err = %v", err)
	}
	writeWorkFile(t, "a.txt", "a")
	mustRun(t, "add", "a.txt")
	_, err = run(t, "commit", "")
	if repo.Message(err) != "Please enter a commit message." {
		t.Errorf("empty message: err = %v", err)
	}
}

func TestCLIStatus(t *testing.T) {
	initCLIRepo(t)
	writeWorkFile(t, "tracked.txt", "t")
	mustRun(t, "add", "tracked.txt")
	mustRun(t, "commit", "tracked")
	mustRun(t, "branch", "other")

	writeWorkFile(t, "staged.txt", "s")
	mustRun(t, "add", "staged.txt")
	mustRun(t, "rm", "tracked.txt")
	writeWorkFile(t, "loose.txt", "l")

	want := strings.Join([]string{
		"=== Branches ===",
		"*master",
		"other",
		"",
		"=== Staged Files ===",
		"staged.txt",
		"",
		"=== Removed Files ===",
		"tracked.txt",
		"",
		"=== Modifications Not Staged For Commit ===",
		"",
		"=== Untracked Files ===",
		"loose.txt",
		"",
		"",
	}, "\n")
	if got := mustRun(t, "status"); got != want {
		t.Errorf("status:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestCLICheckoutForms(t *testing.T) {
	initCLIRepo(t)
	writeWorkFile(t, "f.txt", "v1")
	mustRun(t, "add", "f.txt")
	mustRun(t, "commit", "v1")
	first := strings.TrimSpace(mustRun(t, "find", "v1"))

	writeWorkFile(t, "f.txt", "v2")
	mustRun(t, "add", "f.txt")
	mustRun(t, "commit", "v2")

	writeWorkFile(t, "f.txt", "scratch")
	mustRun(t, "checkout", "--", "f.txt")
	if got := readWorkFile(t, "f.txt"); got != "v2" {
		t.Errorf("checkout -- f.txt: %q, want v2", got)
	}

	mustRun(t, "checkout", first[:6], "--", "f.txt")
	if got := readWorkFile(t, "f.txt"); got != "v1" {
		t.Errorf("checkout <id> -- f.txt: %q, want v1", got)
	}

	if _, err := run(t, "checkout", first, "f.txt"); repo.Message(err) != "Incorrect operands." {
		t.Errorf("checkout without dash: err = %v", err)
	}
	if _, err := run(t, "checkout", "nope"); repo.Message(err) != "A branch with that name does not exist." {
		t.Errorf("checkout unknown branch: err = %v", err)
	}
	if _, err := run(t, "checkout", "master"); repo.Message(err) != "No need to checkout the current branch." {
		t.Errorf("checkout current branch: err = %v", err)
	}
}

func TestCLIMergeConflict(t *testing.T) {
	initCLIRepo(t, "--backend", "bolt", "--compression", "zstd")
	writeWorkFile(t, "f.txt", "base\n")
	mustRun(t, "add", "f.txt")
	mustRun(t, "commit", "base")
	mustRun(t, "branch", "given")

	writeWorkFile(t, "f.txt", "mine\n")
	mustRun(t, "add", "f.txt")
	mustRun(t, "commit", "mine")

	mustRun(t, "checkout", "given")
	writeWorkFile(t, "f.txt", "theirs\n")
	mustRun(t, "add", "f.txt")
	mustRun(t, "commit", "theirs")
	mustRun(t, "checkout", "master")

	out := mustRun(t, "merge", "given")
	if out != "Encountered a merge conflict.\n" {
		t.Errorf("merge output = %q", out)
	}
	want := "<<<<<<< HEAD\nmine\n=======\ntheirs\n>>>>>>>\n"
	if got := readWorkFile(t, "f.txt"); got != want {
		t.Errorf("f.txt = %q, want %q", got, want)
	}

	log := mustRun(t, "log")
	if !strings.Contains(log, "Merge: ") || !strings.Contains(log, "Merged given into master.") {
		t.Errorf("log after merge:\n%s", log)
	}

	if _, err := run(t, "merge", "master"); repo.Message(err) != "Cannot merge a branch with itself." {
		t.Errorf("self merge: err = %v", err)
	}
}

func TestCLIMergeFastForwardAndAncestor(t *testing.T) {
	initCLIRepo(t)
	writeWorkFile(t, "f.txt", "base")
	mustRun(t, "add", "f.txt")
	mustRun(t, "commit", "base")
	mustRun(t, "branch", "ahead")
	mustRun(t, "checkout", "ahead")
	writeWorkFile(t, "g.txt", "g")
	mustRun(t, "add", "g.txt")
	mustRun(t, "commit", "ahead")
	mustRun(t, "checkout", "master")

	if out := mustRun(t, "merge", "ahead"); out != "Current branch fast-forwarded.\n" {
		t.Errorf("fast-forward output = %q", out)
	}
	if out := mustRun(t, "merge", "ahead"); out != "Given branch is an ancestor of the current branch.\n" {
		t.Errorf("ancestor output = %q", out)
	}
}

func TestCLIBranchAndReset(t *testing.T) {
	initCLIRepo(t)
	writeWorkFile(t, "f.txt", "one")
	mustRun(t, "add", "f.txt")
	mustRun(t, "commit", "one")
	first := strings.TrimSpace(mustRun(t, "find", "one"))
	writeWorkFile(t, "f.txt", "two")
	mustRun(t, "add", "f.txt")
	mustRun(t, "commit", "two")

	mustRun(t, "branch", "side")
	if _, err := run(t, "branch", "side"); repo.Message(err) != "A branch with that name already exists." {
		t.Errorf("duplicate branch: err = %v", err)
	}
	if _, err := run(t, "rm-branch", "master"); repo.Message(err) != "Cannot remove the current branch." {
		t.Errorf("rm current branch: err = %v", err)
	}
	mustRun(t, "rm-branch", "side")
	if _, err := run(t, "rm-branch", "side"); repo.Message(err) != "A branch with that name does not exist." {
		t.Errorf("rm missing branch: err = %v", err)
	}

	mustRun(t, "reset", first)
	if got := readWorkFile(t, "f.txt"); got != "one" {
		t.Errorf("f.txt after reset = %q, want one", got)
	}
	if _, err := run(t, "reset", "0000000"); repo.Message(err) != "No commit with that id exists." {
		t.Errorf("reset unknown: err = %v", err)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	if _, err := newLogger("warn", false); err != nil {
		t.Fatalf("newLogger(warn): %v", err)
	}
	logger, err := newLogger("error", true)
	if err != nil {
		t.Fatalf("newLogger(error, verbose): %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("--verbose did not enable debug logging")
	}
	if _, err := newLogger("chatty", false); err == nil {
		t.Error("newLogger accepted an unknown level")
	}
}
