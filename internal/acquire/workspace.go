package acquire

import (
	"fmt"
	"os"
	"sync"
)

// Workspace is a checked-out working tree. Close releases any temporary
// directory created for it; it is safe to call more than once.
type Workspace struct {
	Dir    string
	Source Source
	Branch string

	temp string
	once sync.Once
	err  error
}

func (w *Workspace) Close() error {
	if w == nil {
		return nil
	}
	w.once.Do(func() {
		if w.temp == "" {
			return
		}
		if err := os.RemoveAll(w.temp); err != nil {
			w.err = fmt.Errorf("remove workspace %s: %w", w.temp, err)
		}
	})
	return w.err
}
