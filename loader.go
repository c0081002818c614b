package shardgraph

import "context"

// Loader returns the raw commit lines ("<child> [parent ...]") of the given
// repositories. Repositories the loader does not know must be left out of
// the result instead of being mapped to an empty log.
type Loader func(ctx context.Context, repos []string) (lines map[string][]string, err error)

// LoaderChain is a list of loaders called in sequence. Each loader receives
// the repositories not found by the previous ones.
type LoaderChain []Loader

// run calls the loaders for missing repositories and returns the logs found
// and the repositories still missing. Any loader error aborts the chain and
// discards the results. When two loaders return the same repository the last
// one wins.
func (loaders LoaderChain) run(ctx context.Context, missing []string) (results map[string][]string, other []string, err error) {
	results = map[string][]string{}

	stillMissing := map[string]struct{}{}
	for _, repo := range missing {
		stillMissing[repo] = struct{}{}
	}

	for i := range loaders {
		if len(stillMissing) == 0 {
			break
		}

		toFetch := make([]string, 0, len(stillMissing))
		for _, repo := range missing {
			if _, ok := stillMissing[repo]; ok {
				toFetch = append(toFetch, repo)
			}
		}

		found, err := loaders[i](ctx, toFetch)
		if err != nil {
			return map[string][]string{}, []string{}, err
		}

		for repo, lines := range found {
			results[repo] = lines
			delete(stillMissing, repo)
		}
	}

	other = make([]string, 0, len(stillMissing))
	for _, repo := range missing {
		if _, ok := stillMissing[repo]; ok {
			other = append(other, repo)
		}
	}

	return results, other, nil
}
