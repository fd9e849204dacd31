package query

import (
	"fmt"
	"time"

	"github.com/matst80/slask-filters/pkg/types"
)

const (
	DateField  = "field_date"
	DateLayout = "2006-01-02"
	openBound  = "*"
)

// DateCompiler turns a selection into an inclusive interval clause on Field.
// Bounds are calendar dates taken in Location, the time of day is dropped.
type DateCompiler struct {
	Field    string
	Location *time.Location
}

func NewDateCompiler() *DateCompiler {
	return &DateCompiler{Field: DateField, Location: time.UTC}
}

var defaultCompiler = NewDateCompiler()

// Compile uses the field_date field and UTC calendar dates.
func Compile(sel types.SelectionRange) types.FilterFragment {
	return defaultCompiler.Compile(sel)
}

func (c *DateCompiler) Compile(sel types.SelectionRange) types.FilterFragment {
	if sel.IsEmpty() {
		return ""
	}
	lower, upper := openBound, openBound
	if sel.StartDate != nil {
		lower = c.format(*sel.StartDate)
	}
	if sel.EndDate != nil {
		upper = c.format(*sel.EndDate)
	}
	return types.FilterFragment(fmt.Sprintf("%s:[%s TO %s]", c.field(), lower, upper))
}

func (c *DateCompiler) field() string {
	if c.Field == "" {
		return DateField
	}
	return c.Field
}

func (c *DateCompiler) format(t time.Time) string {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}
