package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/lsifkit/shardgraph/pkg/commits"
)

func newFlattenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flatten [file]",
		Short: "Print the (child, parent) edges of a commit log",
		Long: `Read "<sha> [parent ...]" lines from file, or stdin when no file is given, and
print one "child<TAB>parent" line per edge. Root commits get an empty parent.
Files ending in .gz or .zst are decompressed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				rc, err := openLog(args[0])
				if err != nil {
					return err
				}
				defer rc.Close()
				in = rc
			}

			lines, err := commits.ParseLog(in)
			if err != nil {
				return err
			}

			edges, err := commits.FlattenParents(lines)
			if err != nil {
				return err
			}

			out := bufio.NewWriter(cmd.OutOrStdout())
			for _, edge := range edges {
				fmt.Fprintf(out, "%s\t%s\n", edge.Child, edge.Parent)
			}
			return out.Flush()
		},
	}
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error {
	return r.close()
}

// openLog opens a commit log file, decompressing it by extension.
func openLog(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch filepath.Ext(path) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return readCloser{Reader: zr, close: func() error {
			zr.Close()
			return f.Close()
		}}, nil

	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return readCloser{Reader: zr, close: func() error {
			zr.Close()
			return f.Close()
		}}, nil
	}

	return f, nil
}
