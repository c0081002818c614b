package gitlog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lsifkit/shardgraph"
	"github.com/lsifkit/shardgraph/pkg/commits"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 5 * time.Second

// Reader lists the commits of local repositories, one "<sha> [parent ...]"
// line per commit, newest first.
type Reader struct {
	// Timeout of a git invocation. DefaultTimeout when zero.
	Timeout time.Duration
	// MaxCount limits the number of commits read. No limit when zero.
	MaxCount int
	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

func (r *Reader) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

func (r *Reader) args() []string {
	// rev-list prints "<sha> [parent ...]" without the trailing space that
	// git log --pretty='%H %P' leaves on root commits.
	args := []string{"rev-list", "--all", "--topo-order", "--parents"}
	if r.MaxCount > 0 {
		args = append(args, "--max-count="+strconv.Itoa(r.MaxCount))
	}
	return args
}

// Lines runs git rev-list in dir and returns the commit lines.
func (r *Reader) Lines(ctx context.Context, dir string) ([]string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := r.args()
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	r.logger().Debug("executing git command", "dir", dir, "args", args, "timeout", timeout.String())

	start := time.Now()
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("git rev-list in %s: %w", dir, ctx.Err())
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("git rev-list in %s failed: %w: %s", dir, err, bytes.TrimSpace(stderr.Bytes()))
		}
		return nil, fmt.Errorf("git rev-list in %s: %w", dir, err)
	}

	lines, err := commits.ParseLog(bytes.NewReader(output))
	if err != nil {
		return nil, err
	}

	r.logger().Debug("git rev-list done", "dir", dir, "commits", len(lines), "duration", time.Since(start))
	return lines, nil
}

// Loader serves the repositories cloned under root, where the directory of
// a repository is its name joined to root. Repositories without a directory,
// or whose name is not a local path, are reported as missing.
func Loader(root string, r *Reader) shardgraph.Loader {
	return func(ctx context.Context, repos []string) (map[string][]string, error) {
		found := make(map[string][]string, len(repos))

		for _, repo := range repos {
			if !filepath.IsLocal(filepath.FromSlash(repo)) {
				r.logger().Warn("repository name escapes the clone root", "repo", repo)
				continue
			}

			dir := filepath.Join(root, filepath.FromSlash(repo))
			if _, err := os.Stat(dir); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					r.logger().Debug("repository not cloned", "repo", repo, "dir", dir)
					continue
				}
				return nil, err
			}

			lines, err := r.Lines(ctx, dir)
			if err != nil {
				return nil, err
			}
			found[repo] = lines
		}

		return found, nil
	}
}
