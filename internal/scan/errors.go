package scan

import "fmt"

// FileSystemError reports a target path that does not exist or a subtree that
// could not be read. It is fatal to the scan.
type FileSystemError struct {
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("filesystem error at %s: %v", e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error {
	return e.Err
}
