package acquire

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSource means a target string names no usable repository.
	ErrInvalidSource = errors.New("invalid repository source")
	// ErrBranchNotFound means the repository exists but the ref does not.
	ErrBranchNotFound = errors.New("branch not found")
	// ErrUnreachable means the repository could not be fetched at all.
	ErrUnreachable = errors.New("repository unreachable")
)

// AcquireError reports a failed checkout of Source at Branch.
type AcquireError struct {
	Source string
	Branch string
	Err    error
}

func (e *AcquireError) Error() string {
	if e.Branch == "" {
		return fmt.Sprintf("acquire %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("acquire %s@%s: %v", e.Source, e.Branch, e.Err)
}

func (e *AcquireError) Unwrap() error {
	return e.Err
}
