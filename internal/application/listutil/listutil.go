// Package listutil pages the public card grids (the blog listing).
package listutil

import (
	"net/url"
	"strconv"
)

// DefaultPerPage is the default number of cards per page (three rows of three).
const DefaultPerPage = 9

// perPageChoices are the grid sizes a visitor may ask for with ?per_page=.
var perPageChoices = map[int]bool{6: true, 9: true, 12: true, 24: true}

// windowSize is how many page links the pager shows at once.
const windowSize = 5

// PageParams is the requested page of a card grid.
type PageParams struct {
	Page    int // 1-indexed
	PerPage int
}

// ParsePageParams reads ?page= and ?per_page=.
// PRE: none
// POST: Page >= 1; PerPage is one of the allowed grid sizes
func ParsePageParams(q url.Values) PageParams {
	p := PageParams{Page: 1, PerPage: DefaultPerPage}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 1 {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("per_page")); err == nil && perPageChoices[n] {
		p.PerPage = n
	}
	return p
}

// PageInfo describes one page of a filtered result set.
type PageInfo struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPageInfo clamps page into [1, TotalPages]. An empty set still has one page.
// PRE: total >= 0
// POST: 1 <= Page <= TotalPages; PerPage > 0
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	pages := max(1, (total+perPage-1)/perPage)
	return PageInfo{
		Page:       min(max(page, 1), pages),
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
	}
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }

// ShowPagination reports whether the result needs more than one page.
func (p PageInfo) ShowPagination() bool {
	return p.TotalPages > 1
}

// PageNumbers is the window of page links around the current page.
// POST: at most windowSize ascending numbers within [1, TotalPages], containing Page
func (p PageInfo) PageNumbers() []int {
	first := max(1, p.Page-windowSize/2)
	last := min(p.TotalPages, first+windowSize-1)
	first = max(1, last-windowSize+1)
	pages := make([]int, 0, last-first+1)
	for n := first; n <= last; n++ {
		pages = append(pages, n)
	}
	return pages
}

// Slice cuts the current page out of items.
// PRE: info was built with Total == len(items)
// POST: Returns nil when the page is empty
func Slice[T any](items []T, info PageInfo) []T {
	from := (info.Page - 1) * info.PerPage
	if from >= len(items) {
		return nil
	}
	return items[from:min(from+info.PerPage, len(items))]
}
