package query

import (
	"strings"

	"github.com/matst80/slask-filters/pkg/types"
)

const conjunction = " AND "

// MergeFilters appends every non empty fragment to base, each one joined with
// a leading conjunction. Empty fragments contribute nothing.
func MergeFilters(base string, fragments ...types.FilterFragment) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(base))
	for _, f := range fragments {
		clause := strings.TrimSpace(string(f))
		if clause == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(conjunction)
		}
		sb.WriteString(clause)
	}
	return sb.String()
}

// TermsFilter builds an OR clause over the quoted values of field.
func TermsFilter(field string, values []string) types.FilterFragment {
	if len(values) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		quoted = append(quoted, `"`+strings.ReplaceAll(v, `"`, `\"`)+`"`)
	}
	if len(quoted) == 0 {
		return ""
	}
	if len(quoted) == 1 {
		return types.FilterFragment(field + ":" + quoted[0])
	}
	return types.FilterFragment(field + ":(" + strings.Join(quoted, " OR ") + ")")
}

// RefinementLabel is the human label for a refined attribute.
func RefinementLabel(attribute string) string {
	label := strings.ReplaceAll(attribute, "_", " ")
	if label == "query" {
		return "Keyword"
	}
	return label
}
