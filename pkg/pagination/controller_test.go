package pagination

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matst80/slask-filters/pkg/dom"
	"github.com/matst80/slask-filters/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnector struct {
	current int
	nbPages int
	refined []int
}

func (f *fakeConnector) State() types.PaginationState {
	return State(f.current, f.nbPages, 1)
}

func (f *fakeConnector) Refine(page int) {
	f.refined = append(f.refined, page)
	f.current = page
}

func (f *fakeConnector) CreateURL(page int) string {
	return fmt.Sprintf("/?page=%d", page+1)
}

type fakeScroller struct {
	count int
}

func (f *fakeScroller) ScrollToResults() {
	f.count++
}

func TestNoItemsForSinglePage(t *testing.T) {
	c := NewController(&fakeConnector{nbPages: 1}, nil)
	assert.Nil(t, c.Items())
	c = NewController(&fakeConnector{nbPages: 0}, nil)
	assert.Nil(t, c.Items())
}

func TestItemsOnFirstPage(t *testing.T) {
	c := NewController(&fakeConnector{current: 0, nbPages: 5}, nil)
	items := c.Items()
	require.Len(t, items, 5)

	assert.Equal(t, KindPrevious, items[0].Kind)
	assert.True(t, items[0].Disabled)
	assert.Equal(t, "1", items[1].Label)
	assert.True(t, items[1].Selected)
	assert.Equal(t, "/?page=1", items[1].Href)
	assert.Equal(t, KindNext, items[4].Kind)
	assert.False(t, items[4].Disabled)
	assert.Equal(t, 1, items[4].Page)
}

func TestClick(t *testing.T) {
	conn := &fakeConnector{current: 2, nbPages: 5}
	scroll := &fakeScroller{}
	c := NewController(conn, scroll)
	page := Item{Kind: KindPage, Page: 3}

	ev := &types.Event{Kind: types.EventClick}
	assert.True(t, c.Click(page, ev))
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, []int{3}, conn.refined)
	assert.Equal(t, 1, scroll.count)

	for _, mod := range []*types.Event{
		{Kind: types.EventClick, Button: types.ButtonAuxiliary},
		{Kind: types.EventClick, AltKey: true},
		{Kind: types.EventClick, CtrlKey: true},
		{Kind: types.EventClick, MetaKey: true},
		{Kind: types.EventClick, ShiftKey: true},
	} {
		assert.False(t, c.Click(page, mod))
		assert.False(t, mod.DefaultPrevented())
	}
	assert.Equal(t, []int{3}, conn.refined)
	assert.Equal(t, 1, scroll.count)

	assert.False(t, c.Click(Item{Kind: KindPrevious, Page: -1, Disabled: true}, &types.Event{Kind: types.EventClick}))
}

func TestRenderAndClickThroughPage(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(`<html><body><div id="root"><div class="hits"></div><nav class="pager"></nav></div></body></html>`))
	require.NoError(t, err)
	conn := &fakeConnector{current: 0, nbPages: 3}
	c := NewController(conn, ScopeScroller{Scope: doc})
	pager := doc.Query(".pager")

	doc.Run(func() { c.Render(doc, pager) })
	assert.Len(t, doc.QueryAll(".ais-Pagination-item"), 5)
	assert.NotNil(t, doc.Query(".ais-Pagination-item--previousPage.ais-Pagination-item--disabled span"))
	assert.Equal(t, "/?page=2", doc.Query(`a[data-page="1"]`).Attr("href"))

	ev := &types.Event{Kind: types.EventClick}
	doc.Dispatch(doc.Query(`a[data-page="2"]`).(*dom.Element), ev)
	assert.Equal(t, []int{2}, conn.refined)
	assert.True(t, ev.DefaultPrevented())
	require.Len(t, doc.Scrolls(), 1)
	assert.True(t, doc.Scrolls()[0].Smooth)
	assert.Equal(t, "root", doc.Scrolls()[0].Target.Attr("id"))

	doc.Dispatch(doc.Query(`a[data-page="1"]`).(*dom.Element), &types.Event{Kind: types.EventClick, CtrlKey: true})
	assert.Equal(t, []int{2}, conn.refined)

	listeners := doc.ListenerCount()
	doc.Run(func() { c.Render(doc, pager) })
	assert.Len(t, doc.QueryAll("."+types.ClassPaginationList), 1)
	assert.Equal(t, listeners, doc.ListenerCount())

	conn.nbPages = 1
	doc.Run(func() { c.Render(doc, pager) })
	assert.Nil(t, doc.Query("."+types.ClassPaginationList))
	assert.Equal(t, 0, doc.ListenerCount())
}
