package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/go-github/v81/github"
)

// ErrNotFound is returned when the repository or ref does not exist, or is not
// visible with the current credentials.
var ErrNotFound = errors.New("github: not found")

const maxRedirects = 3

// DefaultBranch looks up the repository's default branch.
func (c *Client) DefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	r, resp, err := c.Client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", classify(resp, fmt.Errorf("get repository %s/%s: %w", owner, repo, err))
	}
	if r.GetDefaultBranch() == "" {
		return "", fmt.Errorf("repository %s/%s has no default branch", owner, repo)
	}
	return r.GetDefaultBranch(), nil
}

// DownloadTarball streams the gzipped tarball of ref. The caller closes the
// returned reader.
func (c *Client) DownloadTarball(ctx context.Context, owner, repo, ref string) (io.ReadCloser, error) {
	link, resp, err := c.Client.Repositories.GetArchiveLink(ctx, owner, repo, github.Tarball,
		&github.RepositoryContentGetOptions{Ref: ref}, maxRedirects)
	if err != nil {
		return nil, classify(resp, fmt.Errorf("archive link %s/%s@%s: %w", owner, repo, ref, err))
	}
	if link == nil || link.String() == "" {
		return nil, fmt.Errorf("archive link %s/%s@%s: no redirect location", owner, repo, ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link.String(), nil)
	if err != nil {
		return nil, err
	}
	dl, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s/%s@%s: %w", owner, repo, ref, err)
	}
	if dl.StatusCode != http.StatusOK {
		_ = dl.Body.Close()
		err := fmt.Errorf("download %s/%s@%s: unexpected status %s", owner, repo, ref, dl.Status)
		if dl.StatusCode == http.StatusNotFound {
			return nil, errors.Join(ErrNotFound, err)
		}
		return nil, err
	}
	return dl.Body, nil
}

func classify(resp *github.Response, err error) error {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return errors.Join(ErrNotFound, err)
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
		return errors.Join(ErrNotFound, err)
	}
	return err
}
