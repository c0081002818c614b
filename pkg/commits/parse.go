package commits

import (
	"bufio"
	"io"
	"strings"
)

// maxLineSize bounds a single log line. An octopus merge with a few thousand
// parents still fits.
const maxLineSize = 1 << 20

// ParseLog reads the output of `git log --pretty='%H %P'` and returns one
// line per commit. CRLF endings are accepted. Blank lines at the end of the
// stream are dropped; any other line is returned as is and left for
// FlattenParents to validate.
func ParseLog(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lines := []string{}
	blank := 0
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			blank++
			continue
		}

		// blank lines in the middle of the log are kept so they get rejected
		for ; blank > 0; blank-- {
			lines = append(lines, "")
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
