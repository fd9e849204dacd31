package session

import (
	"slices"

	"github.com/matst80/slask-filters/pkg/pagination"
	"github.com/matst80/slask-filters/pkg/query"
	"github.com/matst80/slask-filters/pkg/search"
)

type DateState struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	State string `json:"state"`
}

// State is the session as seen by the browser.
type State struct {
	Id          string              `json:"id"`
	Query       string              `json:"query"`
	Tags        []string            `json:"tags"`
	Sort        string              `json:"sort"`
	View        string              `json:"view"`
	Page        int                 `json:"page"`
	Dates       DateState           `json:"dates"`
	Filter      string              `json:"filter"`
	PickerOpen  bool                `json:"pickerOpen"`
	CanClear    bool                `json:"canClear"`
	Refinements []Refinement        `json:"refinements"`
	Stats       search.Stats        `json:"stats"`
	StatsText   string              `json:"statsText"`
	Hits        []search.Hit        `json:"hits"`
	Facets      []search.FacetValue `json:"facets"`
	Pagination  []pagination.Item   `json:"pagination"`
}

func (s *Session) Snapshot() State {
	var st State
	s.doc.Run(func() {
		sel := s.machine.Selection()
		dates := DateState{State: s.machine.State().String()}
		if sel.StartDate != nil {
			dates.Start = sel.StartDate.In(s.opts.Location).Format(query.DateLayout)
		}
		if sel.EndDate != nil {
			dates.End = sel.EndDate.In(s.opts.Location).Format(query.DateLayout)
		}
		stats := search.NewStats(s.result)
		st = State{
			Id:          s.Id,
			Query:       s.keyword,
			Tags:        slices.Clone(s.tags),
			Sort:        s.sort,
			View:        s.view,
			Page:        s.page,
			Dates:       dates,
			Filter:      s.configuration().Filters,
			PickerOpen:  s.visibility.IsOpen(),
			CanClear:    s.coordinator.CanClear(),
			Refinements: s.refinements(),
			Stats:       stats,
			StatsText:   stats.String(),
			Hits:        []search.Hit{},
			Facets:      []search.FacetValue{},
			Pagination:  s.pager.Items(),
		}
		if st.Tags == nil {
			st.Tags = []string{}
		}
		if s.result != nil {
			st.Hits = s.result.Hits
			st.Facets = s.result.Tags
		}
	})
	return st
}
