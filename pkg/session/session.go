// Package session composes the filter widgets of one visitor into a page.
//
// Every exported Session method runs as a single task on the session's
// document, so handlers serving the same visitor concurrently are
// serialized. Listeners and callbacks inside the page only touch state and
// never start tasks of their own.
package session

import (
	"fmt"
	"io"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/matst80/slask-filters/pkg/daterange"
	"github.com/matst80/slask-filters/pkg/dom"
	"github.com/matst80/slask-filters/pkg/pagination"
	"github.com/matst80/slask-filters/pkg/query"
	"github.com/matst80/slask-filters/pkg/rangepicker"
	"github.com/matst80/slask-filters/pkg/reset"
	"github.com/matst80/slask-filters/pkg/search"
	"github.com/matst80/slask-filters/pkg/types"
	"github.com/matst80/slask-filters/pkg/widget"
)

const tagsAttribute = "tags"

type Options struct {
	Location    *time.Location
	Now         func() time.Time
	HitsPerPage int
	Padding     int
	// ResultType names the documents in the no results message.
	ResultType string
	// Track receives user actions, the reason is action specific.
	Track func(action, reason string)
}

func DefaultOptions() Options {
	return Options{
		Location:    time.UTC,
		Now:         time.Now,
		HitsPerPage: search.DefaultHitsPerPage,
		Padding:     pagination.DefaultPadding,
		ResultType:  "Blogs",
	}
}

// Configuration is what the filter layer contributes to every search.
type Configuration struct {
	Filters     string `json:"filters"`
	HitsPerPage int    `json:"hitsPerPage"`
}

type Session struct {
	Id string

	opts        Options
	doc         *dom.Document
	machine     *daterange.Machine
	picker      *rangepicker.Picker
	visibility  *widget.Controller
	registry    *reset.Registry
	coordinator *reset.Coordinator
	compiler    *query.DateCompiler
	pager       *pagination.Controller
	unregister  []func()
	regions     map[string]*region

	keyword string
	tags    []string
	sort    string
	view    string
	page    int
	result  *search.Result
}

func New(id string, opts Options) (*Session, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.HitsPerPage <= 0 {
		opts.HitsPerPage = search.DefaultHitsPerPage
	}
	if opts.ResultType == "" {
		opts.ResultType = "Blogs"
	}
	doc, err := dom.Parse(strings.NewReader(pageMarkup))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	s := &Session{
		Id:       id,
		opts:     opts,
		doc:      doc,
		registry: reset.NewRegistry(),
		compiler: &query.DateCompiler{Field: query.DateField, Location: opts.Location},
		regions:  make(map[string]*region),
		sort:     search.SortDefault,
		view:     ViewGrid,
	}
	s.machine = daterange.NewMachine(s.onDateSelect, daterange.WithMaxDate(s.today))
	s.picker = rangepicker.New(doc, s.machine)
	s.picker.Location = opts.Location
	s.picker.Now = s.now
	s.visibility = widget.NewController(doc)
	s.pager = pagination.NewController(connector{s}, pagination.ScopeScroller{Scope: doc})

	s.coordinator = reset.NewCoordinator(s.machine, s.registry)
	s.coordinator.Refinements = facetRefinements{s}
	s.coordinator.OnClear = s.onClear
	s.unregister = append(s.unregister,
		s.registry.Register("date", reset.Control(doc, types.SelectorDateReset)),
		s.registry.Register("keyword", reset.Control(doc, types.SelectorSearchBoxReset)),
		s.registry.Register("refinements", reset.Control(doc, types.SelectorRefinementChip)),
	)

	var mountErr error
	doc.Run(func() {
		mountErr = s.picker.Mount(s.dateContainer())
		s.visibility.Activate()
		if clear := doc.Query(selectorClear); clear != nil {
			clear.On(types.EventClick, func(*types.Event) {
				s.coordinator.ClearAll()
			})
		}
		if sel := doc.Query(selectorSortSelect); sel != nil {
			sel.On(types.EventChange, func(ev *types.Event) {
				s.setSort(ev.Value)
			})
		}
		for _, el := range doc.QueryAll(selectorViewSwitch) {
			view := el.Attr("data-view")
			el.On(types.EventClick, func(*types.Event) {
				s.setView(view)
			})
		}
		s.render()
	})
	if mountErr != nil {
		return nil, fmt.Errorf("mount date picker: %w", mountErr)
	}
	return s, nil
}

func (s *Session) now() time.Time {
	return s.opts.Now()
}

// today is the current time in the zone the calendar is rendered in.
func (s *Session) today() time.Time {
	return s.now().In(s.opts.Location)
}

func (s *Session) dateContainer() *dom.Element {
	if el := s.doc.Query(types.SelectorDateRangeFilter); el != nil {
		return el.(*dom.Element)
	}
	return nil
}

func (s *Session) track(action, reason string) {
	if s.opts.Track != nil {
		s.opts.Track(action, reason)
	}
}

// update runs fn as one task and renders the page afterwards.
func (s *Session) update(fn func()) {
	s.doc.Run(func() {
		fn()
		s.render()
	})
}

func (s *Session) onDateSelect(start, end *time.Time) {
	s.page = 0
	dateSelects.Inc()
	s.track("date_select", string(s.compiler.Compile(types.SelectionRange{StartDate: start, EndDate: end})))
	if container := s.dateContainer(); container != nil {
		if err := s.picker.Mount(container); err != nil {
			s.track("error", err.Error())
		}
	}
}

func (s *Session) onClear(names []string) {
	clearAlls.Inc()
	s.track("clear_all", strings.Join(names, ","))
}

func (s *Session) SetQuery(text string) {
	s.update(func() {
		text = strings.TrimSpace(text)
		if text != s.keyword {
			s.keyword = text
			s.page = 0
		}
	})
}

func (s *Session) SetTags(tags []string) {
	s.update(func() {
		next := make([]string, 0, len(tags))
		for _, t := range tags {
			if t = strings.TrimSpace(t); t != "" && !slices.Contains(next, t) {
				next = append(next, t)
			}
		}
		if !slices.Equal(next, s.tags) {
			s.tags = next
			s.page = 0
		}
	})
}

func (s *Session) ToggleTag(tag string) {
	s.update(func() {
		s.toggleTag(tag)
	})
}

func (s *Session) toggleTag(tag string) {
	if i := slices.Index(s.tags, tag); i >= 0 {
		s.tags = slices.Delete(slices.Clone(s.tags), i, i+1)
	} else {
		s.tags = append(slices.Clone(s.tags), tag)
	}
	s.page = 0
}

func (s *Session) SetSort(sort string) {
	s.update(func() {
		s.setSort(sort)
	})
}

// setSort falls back to relevance for unknown sort keys.
func (s *Session) setSort(sort string) {
	if _, ok := search.SortOptions[sort]; !ok {
		sort = search.SortDefault
	}
	if sort != s.sort {
		s.sort = sort
		s.page = 0
	}
}

// SetView switches the hit layout between grid and table.
func (s *Session) SetView(view string) {
	s.update(func() {
		s.setView(view)
	})
}

func (s *Session) setView(view string) {
	if view != ViewTable {
		view = ViewGrid
	}
	s.view = view
}

func (s *Session) SetPage(page int) {
	s.update(func() {
		s.page = max(page, 0)
	})
}

// SelectDates replaces the date selection, nil bounds are open.
func (s *Session) SelectDates(start, end *time.Time) {
	s.update(func() {
		s.machine.Select(types.SelectionRange{StartDate: start, EndDate: end})
	})
}

// SetDateInput applies a date typed into the From or To input.
func (s *Session) SetDateInput(input int, value string) error {
	var err error
	s.update(func() {
		err = s.picker.SetInput(input, value)
	})
	return err
}

// Event fires ev at the first element matching selector, like a user
// interaction would. It reports false when nothing matched.
func (s *Session) Event(selector string, ev *types.Event) bool {
	found := false
	s.update(func() {
		if el := s.doc.Query(selector); el != nil {
			found = true
			el.(*dom.Element).Fire(ev)
		}
	})
	return found
}

// ClearAll runs the clear cascade. It is false when there was nothing to
// clear.
func (s *Session) ClearAll() bool {
	cleared := false
	s.update(func() {
		cleared = s.coordinator.ClearAll()
	})
	return cleared
}

func (s *Session) CanClear() bool {
	can := false
	s.doc.Run(func() {
		can = s.coordinator.CanClear()
	})
	return can
}

// PageClick is a click on the pagination link for page. The page link is
// preferred, the previous and next links are used when the page is outside
// the rendered window. Modifier clicks and unreachable pages do not refine.
func (s *Session) PageClick(page int, ev *types.Event) bool {
	refined := false
	s.update(func() {
		items := s.pager.Items()
		idx := slices.IndexFunc(items, func(it pagination.Item) bool {
			return it.Kind == pagination.KindPage && it.Page == page
		})
		if idx < 0 {
			idx = slices.IndexFunc(items, func(it pagination.Item) bool {
				return it.Page == page && !it.Disabled
			})
		}
		if idx >= 0 {
			refined = s.pager.Click(items[idx], ev)
		}
	})
	return refined
}

func (s *Session) configuration() Configuration {
	return Configuration{
		Filters: query.MergeFilters("",
			s.compiler.Compile(s.machine.Selection()),
			query.TermsFilter(tagsAttribute, s.tags),
		),
		HitsPerPage: s.opts.HitsPerPage,
	}
}

func (s *Session) Configuration() Configuration {
	var c Configuration
	s.doc.Run(func() {
		c = s.configuration()
	})
	return c
}

// Query is the search for the current state.
func (s *Session) Query() search.Query {
	var q search.Query
	s.doc.Run(func() {
		c := s.configuration()
		q = search.Query{
			Text:        s.keyword,
			Filter:      c.Filters,
			Sort:        s.sort,
			Page:        s.page,
			HitsPerPage: c.HitsPerPage,
		}
	})
	return q
}

// SetResult renders a search result. The page is clamped to the result.
func (s *Session) SetResult(res *search.Result) {
	s.update(func() {
		s.result = res
		if res != nil {
			if nb := pagination.NbPages(res.NbHits, s.opts.HitsPerPage); nb > 0 && s.page >= nb {
				s.page = nb - 1
			}
		}
	})
}

func (s *Session) Render(w io.Writer) error {
	return s.doc.Render(w)
}

// Close detaches the page widgets.
func (s *Session) Close() {
	s.doc.Run(func() {
		s.visibility.Teardown()
		s.picker.Unmount()
		for _, r := range s.regions {
			r.clear()
		}
	})
	for _, fn := range s.unregister {
		fn()
	}
	s.unregister = nil
}

// connector exposes the session's result to the pagination controller.
type connector struct {
	s *Session
}

func (c connector) nbPages() int {
	if c.s.result == nil {
		return 0
	}
	return pagination.NbPages(c.s.result.NbHits, c.s.opts.HitsPerPage)
}

func (c connector) State() types.PaginationState {
	return pagination.State(c.s.page, c.nbPages(), c.s.opts.Padding)
}

func (c connector) Refine(page int) {
	c.s.page = page
	pageRefines.Inc()
	c.s.track("page", strconv.Itoa(page))
}

func (c connector) CreateURL(page int) string {
	v := url.Values{}
	if c.s.keyword != "" {
		v.Set("query", c.s.keyword)
	}
	for _, t := range c.s.tags {
		v.Add("tags", t)
	}
	if c.s.sort != search.SortDefault {
		v.Set("sort", c.s.sort)
	}
	sel := c.s.machine.Selection()
	if sel.StartDate != nil {
		v.Set("start", sel.StartDate.In(c.s.opts.Location).Format(query.DateLayout))
	}
	if sel.EndDate != nil {
		v.Set("end", sel.EndDate.In(c.s.opts.Location).Format(query.DateLayout))
	}
	v.Set("page", strconv.Itoa(page))
	return "/?" + v.Encode()
}

// facetRefinements is the clear refinements hook of the results. It covers
// the facet values, the keyword is left to the search box.
type facetRefinements struct {
	s *Session
}

func (f facetRefinements) CanRefine() bool {
	return len(f.s.tags) > 0
}

func (f facetRefinements) Refine() {
	f.s.tags = nil
	f.s.page = 0
}
