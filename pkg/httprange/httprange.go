// Package httprange parses single-range HTTP Range headers for byte-addressed
// resources.
package httprange

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrMalformed means the header is not a syntactically valid single
	// bytes range. Callers should answer 400.
	ErrMalformed = errors.New("malformed range header")

	// ErrUnsatisfiable means the range is well-formed but lies outside the
	// resource. Callers should answer 416 with "Content-Range: bytes */size".
	ErrUnsatisfiable = errors.New("range not satisfiable")
)

const bytesPrefix = "bytes="

// Parse resolves a Range header value against a resource of the given size.
// Supported forms: "bytes=a-b", "bytes=a-" (to EOF), and the suffix form
// "bytes=-n" (last n bytes). Multi-range requests are treated as malformed.
func Parse(header string, size int64) (start, end int64, err error) {
	if size <= 0 {
		return 0, 0, ErrUnsatisfiable
	}
	if !strings.HasPrefix(header, bytesPrefix) {
		return 0, 0, ErrMalformed
	}

	spec := strings.TrimSpace(strings.TrimPrefix(header, bytesPrefix))
	if spec == "" || strings.Contains(spec, ",") {
		return 0, 0, ErrMalformed
	}

	dash := strings.Index(spec, "-")
	if dash < 0 {
		return 0, 0, ErrMalformed
	}
	startPart := strings.TrimSpace(spec[:dash])
	endPart := strings.TrimSpace(spec[dash+1:])

	if startPart == "" {
		// Suffix form: last n bytes.
		n, perr := strconv.ParseInt(endPart, 10, 64)
		if perr != nil || n <= 0 {
			return 0, 0, ErrMalformed
		}
		if n > size {
			n = size
		}
		return size - n, size - 1, nil
	}

	start, err = strconv.ParseInt(startPart, 10, 64)
	if err != nil || start < 0 {
		return 0, 0, ErrMalformed
	}

	if endPart == "" {
		end = size - 1
	} else {
		end, err = strconv.ParseInt(endPart, 10, 64)
		if err != nil || end < 0 {
			return 0, 0, ErrMalformed
		}
	}

	if start > end || start >= size {
		return 0, 0, ErrUnsatisfiable
	}
	if end >= size {
		// Clients commonly over-ask for the tail; clamp like net/http does.
		end = size - 1
	}
	return start, end, nil
}
