package acquire

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

type Kind int

const (
	KindLocal Kind = iota
	KindGitHub
	KindGit
)

func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindGitHub:
		return "github"
	case KindGit:
		return "git"
	default:
		return "unknown"
	}
}

// Source is a parsed audit target.
type Source struct {
	Raw   string
	Kind  Kind
	Path  string // KindLocal: absolute directory
	Owner string // KindGitHub
	Repo  string // KindGitHub
	URL   string // KindGitHub, KindGit: clone URL
}

var (
	ownerRepoRe = regexp.MustCompile(`^([A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?)/([A-Za-z0-9._-]+)$`)
	githubSSHRe = regexp.MustCompile(`^git@github\.com:([^/]+)/([^/]+?)(?:\.git)?/?$`)
)

// ParseSource classifies raw as an existing local directory, a GitHub
// repository (owner/repo or a github.com URL) or any other git URL. Local
// directories win over owner/repo shorthand.
func ParseSource(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, fmt.Errorf("%w: empty", ErrInvalidSource)
	}

	if fi, err := os.Stat(raw); err == nil {
		if !fi.IsDir() {
			return Source{}, fmt.Errorf("%w: %q is a file, not a directory", ErrInvalidSource, raw)
		}
		abs, err := filepath.Abs(raw)
		if err != nil {
			return Source{}, fmt.Errorf("resolve %q: %w", raw, err)
		}
		return Source{Raw: raw, Kind: KindLocal, Path: abs}, nil
	}

	if m := githubSSHRe.FindStringSubmatch(raw); m != nil {
		return githubSource(raw, m[1], m[2]), nil
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return Source{}, fmt.Errorf("%w: malformed url %q", ErrInvalidSource, raw)
		}
		if strings.EqualFold(u.Host, "github.com") || strings.EqualFold(u.Host, "www.github.com") {
			parts := strings.Split(strings.Trim(u.Path, "/"), "/")
			if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
				return Source{}, fmt.Errorf("%w: github url %q does not name a repository", ErrInvalidSource, raw)
			}
			return githubSource(raw, parts[0], strings.TrimSuffix(parts[1], ".git")), nil
		}
		return Source{Raw: raw, Kind: KindGit, URL: raw}, nil
	}

	if strings.HasPrefix(raw, "git@") {
		return Source{Raw: raw, Kind: KindGit, URL: raw}, nil
	}

	if m := ownerRepoRe.FindStringSubmatch(raw); m != nil {
		return githubSource(raw, m[1], strings.TrimSuffix(m[2], ".git")), nil
	}

	return Source{}, fmt.Errorf("%w: %q is neither a local directory nor a repository url", ErrInvalidSource, raw)
}

func githubSource(raw, owner, repo string) Source {
	return Source{
		Raw:   raw,
		Kind:  KindGitHub,
		Owner: owner,
		Repo:  repo,
		URL:   fmt.Sprintf("https://github.com/%s/%s.git", owner, repo),
	}
}

// Name is a short label for reports: the repository or directory name.
func (s Source) Name() string {
	switch s.Kind {
	case KindLocal:
		return filepath.Base(s.Path)
	case KindGitHub:
		return s.Repo
	default:
		trimmed := strings.TrimSuffix(strings.TrimRight(s.URL, "/"), ".git")
		if i := strings.LastIndexAny(trimmed, "/:"); i >= 0 {
			trimmed = trimmed[i+1:]
		}
		return path.Clean(trimmed)
	}
}

func (s Source) String() string {
	switch s.Kind {
	case KindLocal:
		return s.Path
	case KindGitHub:
		return s.Owner + "/" + s.Repo
	default:
		return s.URL
	}
}
