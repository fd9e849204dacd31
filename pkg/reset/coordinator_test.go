package reset

import (
	"strings"
	"testing"

	"github.com/matst80/slask-filters/pkg/dom"
	"github.com/matst80/slask-filters/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDates struct {
	resets int
}

func (f *fakeDates) Reset() {
	f.resets++
}

type fakeRefinements struct {
	can     bool
	refines int
}

func (f *fakeRefinements) CanRefine() bool {
	return f.can
}

func (f *fakeRefinements) Refine() {
	f.refines++
	f.can = false
}

func TestClearAllDisabledWithoutRefinements(t *testing.T) {
	dates := &fakeDates{}
	reg := NewRegistry()
	reg.Register("keyword", Func{IsActive: func() bool { return false }})
	c := NewCoordinator(dates, reg)
	c.Refinements = &fakeRefinements{}

	assert.False(t, c.CanClear())
	assert.False(t, c.ClearAll())
	assert.Equal(t, 0, dates.resets)
}

func TestClearAllCascades(t *testing.T) {
	dates := &fakeDates{}
	reg := NewRegistry()
	var order []string
	keyword := "go"
	reg.Register("keyword", Func{
		IsActive: func() bool { return keyword != "" },
		OnReset:  func() { order = append(order, "keyword"); keyword = "" },
	})
	reg.Register("tags", Func{OnReset: func() { order = append(order, "tags") }})

	var cleared []string
	c := NewCoordinator(dates, reg)
	c.OnClear = func(names []string) { cleared = names }

	require.True(t, c.CanClear())
	assert.True(t, c.ClearAll())
	assert.Equal(t, 1, dates.resets)
	assert.Equal(t, []string{"keyword", "tags"}, order)
	assert.Equal(t, []string{"keyword", "tags"}, cleared)
	assert.False(t, c.CanClear())
}

func TestRefinementsAloneEnableClear(t *testing.T) {
	refinements := &fakeRefinements{can: true}
	c := NewCoordinator(&fakeDates{}, NewRegistry())
	c.Refinements = refinements

	assert.True(t, c.ClearAll())
	assert.Equal(t, 1, refinements.refines)
}

func TestUnregister(t *testing.T) {
	reg := NewRegistry()
	off := reg.Register("a", Func{IsActive: func() bool { return true }})
	reg.Register("b", Func{})
	assert.True(t, reg.AnyActive())
	off()
	off()
	assert.False(t, reg.AnyActive())
	assert.Equal(t, []string{"b"}, reg.Names())
}

func TestControlResetterClicksNativeControls(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(`<html><body>` +
		`<ul><li><button class="ais-CurrentRefinements-delete" data-tag="a"></button></li><li><button class="ais-CurrentRefinements-delete" data-tag="b"></button></li></ul>` +
		`</body></html>`))
	require.NoError(t, err)

	var removed []string
	for _, el := range doc.QueryAll(types.SelectorRefinementChip) {
		chip := el
		chip.On(types.EventClick, func(*types.Event) {
			removed = append(removed, chip.Attr("data-tag"))
			chip.Remove()
		})
	}

	reg := NewRegistry()
	reg.Register("chips", Control(doc, types.SelectorRefinementChip))
	reg.Register("keyword", Control(doc, types.SelectorSearchBoxReset))
	c := NewCoordinator(&fakeDates{}, reg)

	assert.True(t, c.CanClear())
	doc.Run(func() {
		assert.True(t, c.ClearAll())
	})
	assert.Equal(t, []string{"a", "b"}, removed)
	assert.False(t, c.CanClear())
	assert.False(t, c.ClearAll())
}
