// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPageSize is the number of rows returned when the caller does not
// ask for a specific page size.
const DefaultPageSize = 50

// MaxPageSize caps caller-supplied page sizes.
const MaxPageSize = 100

// Params holds 1-based offset pagination parameters.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps Page to ≥1 and PageSize to [1, max]. A zero or negative
// PageSize becomes def.
func (p Params) Normalize(def, max int) Params {
	if def < 1 {
		def = DefaultPageSize
	}
	if max < def {
		max = def
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = def
	}
	if p.PageSize > max {
		p.PageSize = max
	}
	return p
}

// Offset returns the 0-based row offset of the first item on the page.
func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns ceil(total/pageSize). An empty result has zero pages.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Window returns the slice of rows that falls on page p. Pages past the end
// yield an empty, non-nil slice.
func Window[T any](rows []T, p Params) []T {
	start := p.Offset()
	if start >= len(rows) {
		return []T{}
	}
	end := start + p.PageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// FromRequest reads "page" and "limit" query parameters. Missing or
// malformed values come back as zero, which Normalize replaces.
func FromRequest(r *http.Request) Params {
	return Params{
		Page:     atoi(query.Get(r, "page")),
		PageSize: atoi(query.Get(r, "limit")),
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
