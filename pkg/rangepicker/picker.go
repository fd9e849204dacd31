// Package rangepicker renders the calendar widget that sits inside the date
// range filter. The markup follows the class names of the react-date-range
// component so the visibility controller and the reset cascade can find it.
package rangepicker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matst80/slask-filters/pkg/daterange"
	"github.com/matst80/slask-filters/pkg/dom"
	"github.com/matst80/slask-filters/pkg/types"
	"golang.org/x/net/html"
)

const (
	DisplayLayout = "01/02/2006"
	dayLayout     = "2006-01-02"
	dataDate      = "data-date"
	dataRange     = "data-range"
)

const (
	InputStart = iota
	InputEnd
)

var ErrAfterMaxDate = errors.New("date is after the last selectable day")

// Picker owns the children of the date range filter container: the reset
// button, the predefined ranges and the calendar.
type Picker struct {
	doc     *dom.Document
	machine *daterange.Machine

	Ranges           []DefinedRange
	Months           int
	Location         *time.Location
	Now              func() time.Time
	StartPlaceholder string
	EndPlaceholder   string
	ResetLabel       string

	nodes []*dom.Element
	offs  []func()
}

func New(doc *dom.Document, machine *daterange.Machine) *Picker {
	return &Picker{
		doc:              doc,
		machine:          machine,
		Ranges:           DefaultRanges(),
		Months:           1,
		Location:         time.UTC,
		Now:              time.Now,
		StartPlaceholder: "From Date",
		EndPlaceholder:   "To Date",
		ResetLabel:       "Reset",
	}
}

func (p *Picker) now() time.Time {
	return p.Now().In(p.location())
}

func (p *Picker) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Mount renders the current selection into container. Nodes from an earlier
// Mount are removed first, so every call is a remount.
func (p *Picker) Mount(container *dom.Element) error {
	p.Unmount()
	sel := p.machine.Selection()
	now := p.now()

	if sel.IsComplete() {
		reset := p.doc.CreateElement("button", types.ClassDateReset)
		reset.SetAttr("type", "button")
		reset.SetText(p.ResetLabel)
		p.listen(reset, func(*types.Event) {
			p.machine.Reset()
		})
		p.nodes = append(p.nodes, reset)
	}

	ranges := p.doc.CreateElement("div", types.ClassDefinedRanges)
	if err := ranges.SetInnerHTML(p.rangesMarkup(sel, now)); err != nil {
		return fmt.Errorf("render defined ranges: %w", err)
	}
	for _, el := range ranges.QueryAll("button[" + dataRange + "]") {
		idx, err := strconv.Atoi(el.Attr(dataRange))
		if err != nil || idx < 0 || idx >= len(p.Ranges) {
			continue
		}
		rng := p.Ranges[idx]
		p.listen(el, func(*types.Event) {
			start, end := rng.Range(p.now())
			p.machine.Select(types.NewSelectionRange(start, end))
		})
	}
	p.nodes = append(p.nodes, ranges)

	calendar := p.doc.CreateElement("div", "rdrCalendarWrapper", types.ClassDateRangeWrapper)
	if err := calendar.SetInnerHTML(p.calendarMarkup(sel, now)); err != nil {
		return fmt.Errorf("render calendar: %w", err)
	}
	for _, el := range calendar.QueryAll("button[" + dataDate + "]") {
		if el.HasClass("rdrDayDisabled") {
			continue
		}
		day, err := time.ParseInLocation(dayLayout, el.Attr(dataDate), p.location())
		if err != nil {
			continue
		}
		p.listen(el, func(*types.Event) {
			p.machine.Click(day)
		})
	}
	p.nodes = append(p.nodes, calendar)

	for _, n := range p.nodes {
		container.Append(n)
	}
	return nil
}

// Unmount removes the rendered nodes and their listeners.
func (p *Picker) Unmount() {
	for _, off := range p.offs {
		off()
	}
	p.offs = nil
	for _, n := range p.nodes {
		n.Remove()
	}
	p.nodes = nil
}

// SetInput applies a date typed into one of the two inputs. An empty value
// clears that end of the range.
func (p *Picker) SetInput(input int, value string) error {
	var day *time.Time
	if value = strings.TrimSpace(value); value != "" {
		t, err := time.ParseInLocation(DisplayLayout, value, p.location())
		if err != nil {
			return fmt.Errorf("parse date %q: %w", value, err)
		}
		if startOfDay(t).After(startOfDay(p.now())) {
			return ErrAfterMaxDate
		}
		day = &t
	}
	sel := p.machine.Selection()
	switch input {
	case InputStart:
		sel.StartDate = day
	case InputEnd:
		sel.EndDate = day
	default:
		return fmt.Errorf("unknown date input %d", input)
	}
	if sel.IsComplete() && sel.EndDate.Before(*sel.StartDate) {
		sel.StartDate, sel.EndDate = sel.EndDate, sel.StartDate
	}
	p.machine.Select(sel)
	return nil
}

func (p *Picker) listen(el types.Element, fn types.Listener) {
	p.offs = append(p.offs, el.On(types.EventClick, fn))
}

func (p *Picker) dayKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(p.location()).Format(dayLayout)
}

func (p *Picker) display(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(p.location()).Format(DisplayLayout)
}

func (p *Picker) rangesMarkup(sel types.SelectionRange, now time.Time) string {
	var b strings.Builder
	b.WriteString(`<div class="rdrStaticRanges">`)
	for i, r := range p.Ranges {
		start, end := r.Range(now)
		class := "rdrStaticRange"
		if sel.IsComplete() && p.dayKey(sel.StartDate) == p.dayKey(&start) && p.dayKey(sel.EndDate) == p.dayKey(&end) {
			class += " rdrStaticRangeSelected"
		}
		fmt.Fprintf(&b, `<button type="button" class="%s" %s="%d"><span class="rdrStaticRangeLabel">%s</span></button>`,
			class, dataRange, i, html.EscapeString(r.Label))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func (p *Picker) focusMonth(sel types.SelectionRange, now time.Time) time.Time {
	switch {
	case sel.EndDate != nil:
		return startOfMonth(sel.EndDate.In(p.location()))
	case sel.StartDate != nil:
		return startOfMonth(sel.StartDate.In(p.location()))
	default:
		return startOfMonth(now)
	}
}

func (p *Picker) calendarMarkup(sel types.SelectionRange, now time.Time) string {
	var b strings.Builder
	b.WriteString(`<div class="rdrDateDisplayWrapper"><div class="rdrDateDisplay">`)
	p.writeInput(&b, p.StartPlaceholder, p.display(sel.StartDate))
	p.writeInput(&b, p.EndPlaceholder, p.display(sel.EndDate))
	b.WriteString(`</div></div>`)

	months := max(p.Months, 1)
	last := p.focusMonth(sel, now)
	first := last.AddDate(0, -(months - 1), 0)

	fmt.Fprintf(&b, `<div class="%s"><span class="rdrMonthAndYearPickers"><span class="rdrMonthPicker">%s</span> <span class="rdrYearPicker">%d</span></span></div>`,
		types.ClassMonthAndYear, first.Month(), first.Year())

	fmt.Fprintf(&b, `<div class="%s %s">`, types.ClassMonths, types.ClassMonthsVertical)
	for m := 0; m < months; m++ {
		p.writeMonth(&b, first.AddDate(0, m, 0), sel, now)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func (p *Picker) writeInput(b *strings.Builder, placeholder, value string) {
	fmt.Fprintf(b, `<span class="%s rdrDateDisplayItem"><input type="text" placeholder="%s" value="%s"/></span>`,
		types.ClassDateInput, html.EscapeString(placeholder), html.EscapeString(value))
}

func (p *Picker) writeMonth(b *strings.Builder, month time.Time, sel types.SelectionRange, now time.Time) {
	fmt.Fprintf(b, `<div class="rdrMonth"><div class="rdrMonthName">%s %d</div><div class="rdrDays">`, month.Month(), month.Year())
	today := now.Format(dayLayout)
	start, end := p.dayKey(sel.StartDate), p.dayKey(sel.EndDate)
	for d := month; d.Month() == month.Month(); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		class := "rdrDay"
		disabled := ""
		if key > today {
			class += " rdrDayDisabled"
			disabled = ` disabled="disabled"`
		}
		if key == today {
			class += " rdrDayToday"
		}
		switch {
		case key == start:
			class += " rdrStartEdge"
		case key == end:
			class += " rdrEndEdge"
		case start != "" && end != "" && key > start && key < end:
			class += " rdrInRange"
		}
		fmt.Fprintf(b, `<button type="button" class="%s" %s="%s"%s><span class="rdrDayNumber"><span>%d</span></span></button>`,
			class, dataDate, key, disabled, d.Day())
	}
	b.WriteString(`</div></div>`)
}
