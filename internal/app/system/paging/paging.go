// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged lists.
// Keep this as an int because most call sites add/subtract and then
// cast to int64 for Mongo Find().SetLimit().
const PageSize = 20

// MaxPageSize caps the "size" query parameter.
const MaxPageSize = 200

// ParsePage extracts the zero-based "page" query parameter.
// Returns 0 if not present or invalid.
func ParsePage(r *http.Request) int {
	n, err := strconv.Atoi(query.Get(r, "page"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseSize extracts the "size" query parameter, clamped to
// [1, MaxPageSize]. Returns PageSize if not present or invalid.
func ParseSize(r *http.Request) int {
	return ClampSize(query.Get(r, "size"))
}

// ClampSize parses s as a page size with the same rules as ParseSize.
func ClampSize(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return PageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// TotalPages returns how many pages of size are needed for total rows.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start    int // 1-based start index (0 if no results)
	End      int // 1-based end index (0 if no results)
	PrevPage int // page value for previous page link
	NextPage int // page value for next page link
	HasPrev  bool
	HasNext  bool
}

// ComputeRange calculates display range values for a zero-based page of
// the given size that shows `shown` of `total` rows.
func ComputeRange(page, size, shown int, total int64) Range {
	if shown == 0 {
		return Range{PrevPage: max(page-1, 0), NextPage: page, HasPrev: page > 0}
	}

	start := page*size + 1
	end := start + shown - 1
	return Range{
		Start:    start,
		End:      end,
		PrevPage: max(page-1, 0),
		NextPage: page + 1,
		HasPrev:  page > 0,
		HasNext:  int64(end) < total,
	}
}
