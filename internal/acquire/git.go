package acquire

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Cloner checks out url at branch into dest. An empty branch means the
// remote's default branch.
type Cloner interface {
	Clone(ctx context.Context, url, branch, dest string) error
}

// GitCLI shallow-clones with the git binary on PATH.
type GitCLI struct {
	Binary string
}

var branchMissingHints = []string{
	"not found in upstream",
	"Remote branch",
	"couldn't find remote ref",
}

func (g GitCLI) Clone(ctx context.Context, url, branch, dest string) error {
	bin := g.Binary
	if bin == "" {
		bin = "git"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("%w: git is not installed: %v", ErrUnreachable, err)
	}

	args := []string{"clone", "--depth", "1", "--quiet"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, "--", url, dest)

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		for _, hint := range branchMissingHints {
			if strings.Contains(msg, hint) {
				return fmt.Errorf("%w: %s", ErrBranchNotFound, msg)
			}
		}
		return fmt.Errorf("%w: git clone: %v: %s", ErrUnreachable, err, msg)
	}
	return nil
}
