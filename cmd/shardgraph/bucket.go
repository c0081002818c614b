package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lsifkit/shardgraph/pkg/hashmod"
)

func newBucketCmd() *cobra.Command {
	var buckets int

	cmd := &cobra.Command{
		Use:   "bucket <key>...",
		Short: "Print the bucket of each key",
		Long: `Print the bucket of each key among --buckets backends, one "key<TAB>bucket"
line per key. Buckets match the ones computed by the gitserver client.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, key := range args {
				bucket, err := hashmod.HashMod(key, buckets)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%d\n", key, bucket)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&buckets, "buckets", "n", 1, "Number of buckets")

	return cmd
}
