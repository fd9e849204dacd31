package search

import (
	"fmt"

	"github.com/matst80/slask-filters/pkg/pagination"
)

// Stats is the "N out of M results found" line under the search box. Shown
// is the index of the last hit on the current page.
type Stats struct {
	Shown   int `json:"shown"`
	NbHits  int `json:"nbHits"`
	NbPages int `json:"nbPages"`
}

func NewStats(r *Result) Stats {
	if r == nil || r.NbHits <= 0 {
		return Stats{}
	}
	hpp := r.HitsPerPage
	if hpp <= 0 {
		hpp = DefaultHitsPerPage
	}
	return Stats{
		Shown:   min((r.Page+1)*hpp, r.NbHits),
		NbHits:  r.NbHits,
		NbPages: pagination.NbPages(r.NbHits, hpp),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d out of %d results found", s.Shown, s.NbHits)
}
