// Package source loads the ordered URL lists of each group.
package source

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ParseLines extracts one URL per line. Blank lines and lines starting with
// '#' are dropped, and anything after the first '#' on a line is a comment.
// Lines have no length limit. On a read error the lines gathered so far are
// returned with the error.
func ParseLines(r io.Reader) ([]string, error) {
	urls := make([]string, 0)
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if url := parseLine(line); url != "" {
			urls = append(urls, url)
		}
		if errors.Is(err, io.EOF) {
			return urls, nil
		}
		if err != nil {
			return urls, err
		}
	}
}

func parseLine(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
