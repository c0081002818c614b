package gitlog

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lsifkit/shardgraph"
	"github.com/lsifkit/shardgraph/pkg/commits"
	"github.com/stretchr/testify/assert"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test",
		"GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_CONFIG_NOSYSTEM=1",
		"HOME="+dir,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v: %s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// newRepo creates a repository with a merge commit:
//
//	merge  <- main, feature
//	main   <- root
//	feature <- root
func newRepo(t *testing.T, dir string) map[string]string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	git(t, dir, "init", "--quiet", "--initial-branch=main")
	git(t, dir, "commit", "--quiet", "--allow-empty", "-m", "root")
	root := git(t, dir, "rev-parse", "HEAD")

	git(t, dir, "checkout", "--quiet", "-b", "feature")
	git(t, dir, "commit", "--quiet", "--allow-empty", "-m", "feature")
	feature := git(t, dir, "rev-parse", "HEAD")

	git(t, dir, "checkout", "--quiet", "main")
	git(t, dir, "commit", "--quiet", "--allow-empty", "-m", "main")
	main := git(t, dir, "rev-parse", "HEAD")

	git(t, dir, "merge", "--quiet", "--no-ff", "-m", "merge", "feature")
	merge := git(t, dir, "rev-parse", "HEAD")

	return map[string]string{"root": root, "feature": feature, "main": main, "merge": merge}
}

func TestReaderLines(t *testing.T) {
	requireGit(t)
	is := assert.New(t)

	dir := t.TempDir()
	shas := newRepo(t, dir)

	reader := &Reader{}
	lines, err := reader.Lines(context.Background(), dir)
	is.NoError(err)
	is.Len(lines, 4)
	is.Contains(lines, shas["merge"]+" "+shas["main"]+" "+shas["feature"])
	is.Contains(lines, shas["root"])

	edges, err := commits.FlattenParents(lines)
	is.NoError(err)
	is.Len(edges, 5)

	graph := commits.NewGraph(edges)
	parent, ok := graph.FirstParent(shas["merge"])
	is.True(ok)
	is.Equal(shas["main"], parent)
	is.Equal([]string{shas["root"]}, graph.Roots())
}

func TestReaderRootCommit(t *testing.T) {
	requireGit(t)
	is := assert.New(t)

	dir := t.TempDir()
	git(t, dir, "init", "--quiet")
	git(t, dir, "commit", "--quiet", "--allow-empty", "-m", "root")
	root := git(t, dir, "rev-parse", "HEAD")

	reader := &Reader{}
	lines, err := reader.Lines(context.Background(), dir)
	is.NoError(err)
	is.Equal([]string{root}, lines)

	edges, err := commits.FlattenParents(lines)
	is.NoError(err)
	is.Equal([]commits.Edge{{Child: root}}, edges)
	is.True(edges[0].IsRoot())
}

func TestReaderMaxCount(t *testing.T) {
	requireGit(t)
	is := assert.New(t)

	dir := t.TempDir()
	newRepo(t, dir)

	reader := &Reader{MaxCount: 2}
	lines, err := reader.Lines(context.Background(), dir)
	is.NoError(err)
	is.Len(lines, 2)
}

func TestReaderNotARepository(t *testing.T) {
	requireGit(t)
	is := assert.New(t)

	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	reader := &Reader{Timeout: time.Second}
	lines, err := reader.Lines(context.Background(), dir)
	is.Error(err)
	is.Nil(lines)
}

func TestReaderCanceled(t *testing.T) {
	requireGit(t)
	is := assert.New(t)

	dir := t.TempDir()
	newRepo(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := &Reader{}
	_, err := reader.Lines(ctx, dir)
	is.ErrorIs(err, context.Canceled)
}

func TestLoader(t *testing.T) {
	requireGit(t)
	is := assert.New(t)

	root := t.TempDir()
	shas := newRepo(t, filepath.Join(root, "github.com", "gorilla", "mux"))

	cache := shardgraph.NewGraphCache(2, 10).
		WithLoaders(Loader(root, &Reader{})).
		Build()

	match, ok, err := cache.Nearest(context.Background(), "github.com/gorilla/mux", shas["merge"], func(commit string) bool {
		return commit == shas["root"]
	}, 0)
	is.NoError(err)
	is.True(ok)
	is.Equal(commits.Match{Commit: shas["root"], Distance: 2, Ancestor: true}, match)

	_, err = cache.Get(context.Background(), "github.com/gorilla/unknown")
	is.ErrorIs(err, shardgraph.ErrNotFound)

	_, err = cache.Get(context.Background(), "../outside")
	is.ErrorIs(err, shardgraph.ErrNotFound)
}
