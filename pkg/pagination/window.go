package pagination

import "github.com/matst80/slask-filters/pkg/types"

// DefaultPadding is the number of pages shown on each side of the current one.
const DefaultPadding = 1

// NbPages is the page count for nbHits results split in pages of hitsPerPage.
func NbPages(nbHits, hitsPerPage int) int {
	if nbHits <= 0 || hitsPerPage <= 0 {
		return 0
	}
	return (nbHits + hitsPerPage - 1) / hitsPerPage
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Window returns up to 2*padding+1 consecutive page indices around current.
// Near the edges the window shifts so that it keeps its full width.
func Window(current, nbPages, padding int) types.PaginationWindow {
	if nbPages <= 0 {
		return types.PaginationWindow{Pages: []int{}}
	}
	if padding < 0 {
		padding = 0
	}
	last := nbPages - 1
	current = clamp(current, 0, last)
	size := min(2*padding+1, nbPages)

	first := clamp(current-padding, 0, nbPages-size)
	pages := make([]int, size)
	for i := range pages {
		pages[i] = first + i
	}
	return types.PaginationWindow{
		Pages:       pages,
		CurrentPage: current,
		FirstPage:   0,
		LastPage:    last,
	}
}

// State is the pagination state for current of nbPages.
func State(current, nbPages, padding int) types.PaginationState {
	w := Window(current, nbPages, padding)
	return types.PaginationState{
		Pages:             w.Pages,
		CurrentRefinement: w.CurrentPage,
		NbPages:           nbPages,
		IsFirstPage:       w.CurrentPage <= 0,
		IsLastPage:        w.CurrentPage >= nbPages-1,
	}
}
