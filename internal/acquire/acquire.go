package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	fallbackFrom = "main"
	fallbackTo   = "master"
)

// Acquirer materializes a Source as a local working tree.
type Acquirer struct {
	GitHub ArchiveClient
	Git    Cloner
	// TempRoot is the parent of per-request temp dirs; empty means os.TempDir.
	TempRoot string
	// Log receives progress lines; nil discards them.
	Log io.Writer
}

// Acquire checks out src. Local sources are used in place. Remote sources go
// to a fresh temp dir that the returned Workspace owns. An explicit "main"
// that does not exist is retried as "master".
func (a *Acquirer) Acquire(ctx context.Context, src Source, branch string) (*Workspace, error) {
	if src.Kind == KindLocal {
		return &Workspace{Dir: src.Path, Source: src, Branch: branch}, nil
	}

	ws, err := a.fetch(ctx, src, branch)
	if errors.Is(err, ErrBranchNotFound) && branch == fallbackFrom {
		a.logf("branch %s not found for %s, trying %s\n", fallbackFrom, src, fallbackTo)
		ws, err = a.fetch(ctx, src, fallbackTo)
		branch = fallbackTo
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &AcquireError{Source: src.String(), Branch: branch, Err: err}
	}
	return ws, nil
}

func (a *Acquirer) fetch(ctx context.Context, src Source, branch string) (*Workspace, error) {
	temp, err := os.MkdirTemp(a.TempRoot, "mlopsaudit-")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	ws := &Workspace{Dir: temp, Source: src, Branch: branch, temp: temp}

	switch src.Kind {
	case KindGitHub:
		err = a.acquireGitHub(ctx, ws)
	case KindGit:
		err = a.acquireGit(ctx, ws)
	default:
		err = fmt.Errorf("unsupported source kind %s", src.Kind)
	}
	if err != nil {
		_ = ws.Close()
		return nil, err
	}
	a.logf("acquired %s@%s\n", src, ws.Branch)
	return ws, nil
}

func (a *Acquirer) acquireGitHub(ctx context.Context, ws *Workspace) error {
	if a.GitHub == nil {
		return fmt.Errorf("%w: no github client configured", ErrUnreachable)
	}
	if ws.Branch == "" {
		b, err := a.defaultBranch(ctx, ws.Source)
		if err != nil {
			return err
		}
		ws.Branch = b
	}
	return a.fetchGitHub(ctx, ws.Source, ws.Branch, ws.Dir)
}

func (a *Acquirer) acquireGit(ctx context.Context, ws *Workspace) error {
	cloner := a.Git
	if cloner == nil {
		cloner = GitCLI{}
	}
	// git refuses to clone into a non-empty dir; the temp dir is empty.
	return cloner.Clone(ctx, ws.Source.URL, ws.Branch, ws.Dir)
}

func (a *Acquirer) logf(format string, args ...any) {
	if a.Log != nil {
		_, _ = fmt.Fprintf(a.Log, format, args...)
	}
}
