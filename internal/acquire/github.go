package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"

	"mlopsaudit/internal/github"
)

// ArchiveClient is the slice of the GitHub client acquisition needs.
type ArchiveClient interface {
	DefaultBranch(ctx context.Context, owner, repo string) (string, error)
	DownloadTarball(ctx context.Context, owner, repo, ref string) (io.ReadCloser, error)
}

var _ ArchiveClient = (*github.Client)(nil)

func (a *Acquirer) fetchGitHub(ctx context.Context, src Source, branch, dest string) error {
	rc, err := a.GitHub.DownloadTarball(ctx, src.Owner, src.Repo, branch)
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			return fmt.Errorf("%w: %v", ErrBranchNotFound, err)
		}
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer rc.Close()

	if err := extractTarball(rc, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return nil
}

func (a *Acquirer) defaultBranch(ctx context.Context, src Source) (string, error) {
	b, err := a.GitHub.DefaultBranch(ctx, src.Owner, src.Repo)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return b, nil
}
