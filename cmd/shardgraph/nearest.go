package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lsifkit/shardgraph/pkg/commits"
	"github.com/lsifkit/shardgraph/pkg/gitlog"
)

func newNearestCmd(a *app) *cobra.Command {
	var (
		repo        string
		commit      string
		indexed     []string
		maxDistance int
	)

	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "Find the closest indexed commit in a local repository",
		Long: `Walk the commit graph of --repo from --commit and print the closest commit among
--indexed as "commit<TAB>distance<TAB>ancestor|descendant". Ancestors win ties.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reader := &gitlog.Reader{
				Timeout: a.cfg.GitTimeout,
				Logger:  a.logger,
			}

			lines, err := reader.Lines(cmd.Context(), repo)
			if err != nil {
				return err
			}

			edges, err := commits.FlattenParents(lines)
			if err != nil {
				return err
			}

			graph := commits.NewGraph(edges)
			if !graph.Has(commit) {
				return fmt.Errorf("commit %s not found in %s", commit, repo)
			}

			set := make(map[string]struct{}, len(indexed))
			for _, sha := range indexed {
				set[sha] = struct{}{}
			}

			match, ok := graph.Nearest(commit, func(sha string) bool {
				_, ok := set[sha]
				return ok
			}, maxDistance)
			if !ok {
				return fmt.Errorf("no indexed commit within %d commits of %s", effectiveDistance(maxDistance), commit)
			}

			a.logger.Debug("nearest indexed commit", "commit", commit, "match", match.Commit, "distance", match.Distance)

			direction := "descendant"
			if match.Ancestor {
				direction = "ancestor"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", match.Commit, match.Distance, direction)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&repo, "repo", ".", "Repository directory")
	flags.StringVar(&commit, "commit", "", "Commit to start from")
	flags.StringSliceVar(&indexed, "indexed", nil, "Indexed commits")
	flags.IntVar(&maxDistance, "max-distance", commits.DefaultMaxDistance, "Maximum number of hops")
	_ = cmd.MarkFlagRequired("commit")
	_ = cmd.MarkFlagRequired("indexed")

	return cmd
}

func effectiveDistance(maxDistance int) int {
	if maxDistance <= 0 {
		return commits.DefaultMaxDistance
	}
	return maxDistance
}
