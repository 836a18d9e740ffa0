// Package paging carries page specifications from the query string to the
// store and page envelopes back out. Sorting and slicing are executed by the
// store; services forward the specification unchanged.
package paging

import (
	"net/url"
	"strconv"
	"strings"

	"clearusers/pkg/problem"
)

const (
	// DefaultSize is applied when the caller omits the size parameter.
	DefaultSize = 10
	// MaxSize bounds a single page so a caller cannot request the whole table.
	MaxSize = 100
)

// Sort directions as they appear on the wire.
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// SortKey is one ordered sort instruction, echoed back in the page envelope.
type SortKey struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// Descending reports whether the key sorts in descending order.
func (k SortKey) Descending() bool {
	return k.Direction == DirectionDesc
}

// PageRequest is the caller-supplied page specification: zero-based page
// index, page size, and an ordered list of sort keys.
type PageRequest struct {
	Page int
	Size int
	Sort []SortKey
}

// Default returns the page specification used when the caller supplies no
// paging parameters at all.
func Default() PageRequest {
	return PageRequest{Page: 0, Size: DefaultSize}
}

// Offset converts the page index into a row offset for the store.
func (r PageRequest) Offset() int {
	return r.Page * r.Size
}

// FromQuery parses page, size, and repeated sort parameters
// (sort=field,asc|desc, direction optional). Sort fields must be members of
// sortable; anything else is rejected at the boundary as a wrong input
// parameter rather than leaking into a store query.
func FromQuery(q url.Values, sortable []string) (PageRequest, error) {
	req := Default()

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return PageRequest{}, problem.WrongParameter("page", "non-negative integer", raw)
		}
		req.Page = page
	}

	if raw := q.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return PageRequest{}, problem.WrongParameter("size", "positive integer", raw)
		}
		if size > MaxSize {
			size = MaxSize
		}
		req.Size = size
	}

	for _, raw := range q["sort"] {
		key, err := parseSortKey(raw, sortable)
		if err != nil {
			return PageRequest{}, err
		}
		req.Sort = append(req.Sort, key)
	}

	return req, nil
}

func parseSortKey(raw string, sortable []string) (SortKey, error) {
	field := raw
	direction := DirectionAsc
	if idx := strings.IndexByte(raw, ','); idx >= 0 {
		field = raw[:idx]
		direction = strings.ToLower(raw[idx+1:])
	}

	if direction != DirectionAsc && direction != DirectionDesc {
		return SortKey{}, problem.WrongParameter("sort", "property,asc|desc", raw)
	}
	for _, s := range sortable {
		if field == s {
			return SortKey{Field: field, Direction: direction}, nil
		}
	}
	return SortKey{}, problem.WrongParameter("sort", "sortable property", raw)
}

// Page is the envelope returned for every listing: the slice of results for
// the requested page, the total element count across all pages, and the
// echoed page specification.
type Page[T any] struct {
	Content       []T       `json:"content"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Page          int       `json:"page"`
	Size          int       `json:"size"`
	Sort          []SortKey `json:"sort,omitempty"`
}

// NewPage builds a page envelope around a store result.
func NewPage[T any](content []T, total int64, req PageRequest) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    pages,
		Page:          req.Page,
		Size:          req.Size,
		Sort:          req.Sort,
	}
}

// Map converts a page's content to another element type while preserving the
// envelope, for entity-to-response mapping at the transport boundary.
func Map[T, U any](p Page[T], f func(T) U) Page[U] {
	content := make([]U, len(p.Content))
	for i, item := range p.Content {
		content[i] = f(item)
	}
	return Page[U]{
		Content:       content,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		Page:          p.Page,
		Size:          p.Size,
		Sort:          p.Sort,
	}
}
