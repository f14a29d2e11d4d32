package scan

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"
)

// Options tunes a Scan.
type Options struct {
	// Ignore lists directory base names pruned from the walk (e.g. ".git").
	Ignore []string
	// Classifier overrides the default rule chain.
	Classifier *Classifier
}

// Scan walks root sequentially and classifies every file it finds.
//
// A missing root or any unreadable subtree aborts the walk with a *FileSystemError
// naming the offending path. Symlinks are not followed: a link to a directory
// is listed nowhere, any other link is listed as a file.
func Scan(root string, opts Options) (*Summary, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &FileSystemError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &FileSystemError{Path: root, Err: errors.New("not a directory")}
	}

	cl := opts.Classifier
	if cl == nil {
		cl = NewClassifier()
	}
	ignore := make(map[string]struct{}, len(opts.Ignore))
	for _, name := range opts.Ignore {
		ignore[name] = struct{}{}
	}

	sum := NewSummary()
	seenData := make(map[string]struct{})

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return &FileSystemError{Path: p, Err: err}
		}
		relOS, err := filepath.Rel(root, p)
		if err != nil {
			return &FileSystemError{Path: p, Err: err}
		}
		rel := filepath.ToSlash(relOS)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if _, skip := ignore[d.Name()]; skip {
				return filepath.SkipDir
			}
			sum.addDir(rel)
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 && linksToDir(p) {
			return nil
		}

		sum.addFile(rel)
		e := Entry{Name: d.Name(), Dir: path.Dir(rel), Path: rel}
		cat, recorded, ok := cl.Classify(e)
		if !ok {
			return nil
		}
		if cat == CategoryDataFolders {
			if _, dup := seenData[recorded]; dup {
				return nil
			}
			seenData[recorded] = struct{}{}
		}
		sum.Patterns[cat] = append(sum.Patterns[cat], recorded)
		return nil
	})
	if walkErr != nil {
		var fsErr *FileSystemError
		if errors.As(walkErr, &fsErr) {
			return nil, fsErr
		}
		return nil, &FileSystemError{Path: root, Err: walkErr}
	}
	return sum, nil
}

func linksToDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// Record is the persisted scan artifact consumed by the audit stage.
type Record struct {
	RepoURL   string   `json:"repo_url"`
	Timestamp string   `json:"scan_timestamp"`
	Structure *Summary `json:"structure"`
}

// NewRecord stamps sum with its source identifier and the current UTC time.
func NewRecord(source string, sum *Summary) *Record {
	return &Record{
		RepoURL:   source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Structure: sum,
	}
}
