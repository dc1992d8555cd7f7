package pagination

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedCursor is returned when a continuation URL lacks a usable
// offset or limit.
var ErrMalformedCursor = errors.New("malformed continuation url")

// Cursor is the position of the next page. Both fields are nil once the
// listing is exhausted.
type Cursor struct {
	Offset *int
	Limit  *int
}

// Exhausted reports whether there is no next page.
func (c Cursor) Exhausted() bool {
	return c.Offset == nil && c.Limit == nil
}

// ExtractValueFromQueryParam returns the value of key in rawURL's query
// string, or "" when absent. A string without '?' is treated as a bare
// query string.
func ExtractValueFromQueryParam(rawURL, key string) string {
	query := rawURL
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		query = rawURL[i+1:]
	}

	prefix := key + "="
	for _, pair := range strings.Split(query, "&") {
		if strings.HasPrefix(pair, prefix) {
			return pair[len(prefix):]
		}
	}
	return ""
}

// ExtractIDFromURL reads the trailing numeric segment of a resource URL,
// e.g. 25 from "https://pokeapi.co/api/v2/pokemon/25/".
func ExtractIDFromURL(rawURL string) (int, error) {
	trimmed := strings.TrimRight(rawURL, "/")
	segment := trimmed[strings.LastIndexByte(trimmed, '/')+1:]

	id, err := strconv.Atoi(segment)
	if err != nil {
		return 0, fmt.Errorf("extract id from %q: %w", rawURL, err)
	}
	return id, nil
}

// ParseCursor reads offset and limit from a "next" URL. A nil next yields
// an exhausted cursor.
func ParseCursor(next *string) (Cursor, error) {
	if next == nil {
		return Cursor{}, nil
	}

	offset, err := strconv.Atoi(ExtractValueFromQueryParam(*next, "offset"))
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: offset in %q", ErrMalformedCursor, *next)
	}
	limit, err := strconv.Atoi(ExtractValueFromQueryParam(*next, "limit"))
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: limit in %q", ErrMalformedCursor, *next)
	}

	return Cursor{Offset: &offset, Limit: &limit}, nil
}
