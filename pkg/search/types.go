// Package search talks to the document index behind the filter page.
package search

import (
	"context"
)

const (
	SortDefault  = "default"
	SortDateDesc = "_date_desc"
	SortDateAsc  = "_date_asc"

	DefaultHitsPerPage = 12
)

// Query is one search as issued by a session. Filter is the compiled filter
// expression, it carries the date range and the selected facet values.
type Query struct {
	Text        string `json:"text"`
	Filter      string `json:"filter,omitempty"`
	Sort        string `json:"sort,omitempty"`
	Page        int    `json:"page"`
	HitsPerPage int    `json:"hitsPerPage"`
}

func (q *Query) Sanitize() {
	if q.HitsPerPage <= 0 {
		q.HitsPerPage = DefaultHitsPerPage
	}
	if q.Page < 0 {
		q.Page = 0
	}
	if _, ok := SortOptions[q.Sort]; !ok {
		q.Sort = SortDefault
	}
}

type Hit struct {
	Id        string              `json:"id"`
	Title     string              `json:"title"`
	Body      string              `json:"body,omitempty"`
	Url       string              `json:"url,omitempty"`
	Date      string              `json:"field_date,omitempty"`
	ImageAlt  string              `json:"image_alt,omitempty"`
	ImageUrl  string              `json:"image_url,omitempty"`
	Snippet   string              `json:"snippet,omitempty"`
	Highlight map[string][]string `json:"highlight,omitempty"`
}

type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type Result struct {
	Hits        []Hit        `json:"hits"`
	NbHits      int          `json:"nbHits"`
	Page        int          `json:"page"`
	HitsPerPage int          `json:"hitsPerPage"`
	Tags        []FacetValue `json:"tags"`
}

type Client interface {
	Search(ctx context.Context, q Query) (*Result, error)
}
