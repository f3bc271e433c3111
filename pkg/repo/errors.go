package repo

import (
	"errors"

	"github.com/odvcencio/gitlet/pkg/object"
)

// Error kinds. Every named repository error below unwraps to exactly one of
// these, so callers can match either the kind or the specific condition
// with errors.Is.
var (
	ErrNotFound            = object.ErrNotFound
	ErrAmbiguous           = object.ErrAmbiguous
	ErrInvalidOperation    = errors.New("invalid operation")
	ErrWorkingTreeConflict = errors.New("working tree conflict")
)

// opError is a user-facing condition tagged with its kind.
type opError struct {
	kind error
	msg  string
}

func newOpError(kind error, msg string) *opError {
	return &opError{kind: kind, msg: msg}
}

func (e *opError) Error() string { return e.msg }

func (e *opError) Unwrap() error { return e.kind }

var (
	ErrNotInitialized     = newOpError(ErrNotFound, "Not in an initialized Gitlet directory.")
	ErrAlreadyInitialized = newOpError(ErrInvalidOperation, "A Gitlet version-control system already exists in the current directory.")

	ErrFileNotFound        = newOpError(ErrNotFound, "File does not exist.")
	ErrNoSuchCommit        = newOpError(ErrNotFound, "No commit with that id exists.")
	ErrFileNotInCommit     = newOpError(ErrNotFound, "File does not exist in that commit.")
	ErrNoSuchBranch        = newOpError(ErrNotFound, "A branch with that name does not exist.")
	ErrNoCommitWithMessage = newOpError(ErrNotFound, "Found no commit with that message.")

	ErrAmbiguousCommit = newOpError(ErrAmbiguous, "Commit id is ambiguous; use more characters.")

	ErrEmptyMessage        = newOpError(ErrInvalidOperation, "Please enter a commit message.")
	ErrNothingToCommit     = newOpError(ErrInvalidOperation, "No changes added to the commit.")
	ErrNoOpCheckout        = newOpError(ErrInvalidOperation, "No need to checkout the current branch.")
	ErrBranchExists        = newOpError(ErrInvalidOperation, "A branch with that name already exists.")
	ErrRemoveCurrentBranch = newOpError(ErrInvalidOperation, "Cannot remove the current branch.")
	ErrRemoveMissingBranch = newOpError(ErrInvalidOperation, "A branch with that name does not exist.")
	ErrInvalidBranchName   = newOpError(ErrInvalidOperation, "Invalid branch name.")
	ErrInvalidFilename     = newOpError(ErrInvalidOperation, "Invalid file name.")
	ErrNoReasonToRemove    = newOpError(ErrInvalidOperation, "No reason to remove the file.")
	ErrUncommittedChanges  = newOpError(ErrInvalidOperation, "You have uncommitted changes.")
	ErrSelfMerge           = newOpError(ErrInvalidOperation, "Cannot merge a branch with itself.")

	ErrUntrackedFileConflict = newOpError(ErrWorkingTreeConflict, "There is an untracked file in the way; delete it, or add and commit it first.")
)

// Message returns the user-facing sentence carried by err, without the
// operation prefixes added while it propagated. Errors that carry no such
// sentence are returned in full.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var op *opError
	if errors.As(err, &op) {
		return op.msg
	}
	return err.Error()
}
