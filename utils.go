package shardgraph

// assertValue panics with msg if the condition is false.
// It guards configuration values.
func assertValue(ok bool, msg string) {
	if !ok {
		panic(msg)
	}
}

// uniq removes duplicated repositories, keeping the first occurrence.
func uniq(repos []string) []string {
	seen := make(map[string]struct{}, len(repos))
	out := make([]string, 0, len(repos))
	for _, repo := range repos {
		if _, ok := seen[repo]; ok {
			continue
		}
		seen[repo] = struct{}{}
		out = append(out, repo)
	}
	return out
}
