package scan

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

const (
	frontMatterDelimiter = "---"

	// maxHeaderBytes caps the front matter block. Oversized headers are
	// rejected before parsing to bound memory and CPU spent on hostile
	// input.
	maxHeaderBytes = 8 * 1024
)

// splitFrontMatter separates a leading front matter block from the document
// body. The block opens with a delimiter on the first line and closes with a
// matching delimiter line. Documents without front matter return an empty
// header and the full content as body; an unterminated or oversized block is
// an error.
func splitFrontMatter(content []byte) (header, body []byte, err error) {
	first, rest, found := bytes.Cut(content, []byte("\n"))
	if !found || trimCR(first) != frontMatterDelimiter {
		return nil, content, nil
	}

	offset := 0
	for offset <= len(rest) {
		if offset > maxHeaderBytes {
			return nil, nil, fmt.Errorf("front matter exceeds %d bytes", maxHeaderBytes)
		}

		var line []byte
		next := len(rest) + 1
		if i := bytes.IndexByte(rest[offset:], '\n'); i >= 0 {
			line = rest[offset : offset+i]
			next = offset + i + 1
		} else {
			line = rest[offset:]
		}

		if trimCR(line) == frontMatterDelimiter {
			header = rest[:offset]
			if next > len(rest) {
				return header, nil, nil
			}
			return header, rest[next:], nil
		}
		offset = next
	}

	return nil, nil, errors.New("front matter not terminated")
}

func trimCR(line []byte) string {
	return strings.TrimSuffix(string(line), "\r")
}
