package query

import (
	"testing"

	"github.com/matst80/slask-filters/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestMergeFilters(t *testing.T) {
	date := types.FilterFragment("field_date:[2024-01-01 TO 2024-01-31]")

	assert.Equal(t, "", MergeFilters(""))
	assert.Equal(t, "", MergeFilters("", ""))
	assert.Equal(t, "field_date:[2024-01-01 TO 2024-01-31]", MergeFilters("", date))
	assert.Equal(t, "type:blog AND field_date:[2024-01-01 TO 2024-01-31]", MergeFilters("type:blog", date))
	assert.Equal(t, "type:blog", MergeFilters(" type:blog ", ""))
}

func TestTermsFilter(t *testing.T) {
	assert.Equal(t, types.FilterFragment(""), TermsFilter("tags", nil))
	assert.Equal(t, types.FilterFragment(`tags:"go"`), TermsFilter("tags", []string{"go"}))
	assert.Equal(t, types.FilterFragment(`tags:("go" OR "search \"engine\"")`), TermsFilter("tags", []string{"go", "", `search "engine"`}))
}

func TestRefinementLabel(t *testing.T) {
	assert.Equal(t, "Keyword", RefinementLabel("query"))
	assert.Equal(t, "field date", RefinementLabel("field_date"))
	assert.Equal(t, "tags", RefinementLabel("tags"))
}
