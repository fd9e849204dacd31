package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/matst80/slask-filters/pkg/common/jsoncompat"
)

// Settings mirrors the attribute configuration of the index.
type Settings struct {
	SearchAttributes    []string
	HighlightAttributes []string
	ResultAttributes    []string
	FacetAttribute      string
	FacetSize           int
	SnippetAttribute    string
	SnippetWords        int
}

func DefaultSettings() Settings {
	return Settings{
		SearchAttributes:    []string{"title", "body"},
		HighlightAttributes: []string{"title", "body"},
		ResultAttributes:    []string{"title", "body", "url", "field_date", "image_alt", "image_url"},
		FacetAttribute:      "tags",
		FacetSize:           1000,
		SnippetAttribute:    "body",
		SnippetWords:        20,
	}
}

type sortField struct {
	Field string
	Order string
}

var SortOptions = map[string]sortField{
	SortDefault:  {"_score", "desc"},
	SortDateDesc: {"field_date", "desc"},
	SortDateAsc:  {"field_date", "asc"},
}

type ElasticClient struct {
	Index    string
	Settings Settings
	es       *elasticsearch.Client
}

func NewElasticClient(host, index string) (*ElasticClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{strings.TrimSuffix(host, "/")},
	})
	if err != nil {
		return nil, fmt.Errorf("elastic client for %s: %w", host, err)
	}
	return &ElasticClient{
		Index:    index,
		Settings: DefaultSettings(),
		es:       es,
	}, nil
}

type esHit struct {
	Id        string              `json:"_id"`
	Source    map[string]any      `json:"_source"`
	Highlight map[string][]string `json:"highlight"`
}

type esBucket struct {
	Key      string `json:"key"`
	DocCount int    `json:"doc_count"`
}

type esResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []esHit `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]struct {
		Buckets []esBucket `json:"buckets"`
	} `json:"aggregations"`
}

func (c *ElasticClient) body(q Query) map[string]any {
	s := c.Settings
	var must any = map[string]any{"match_all": map[string]any{}}
	if text := strings.TrimSpace(q.Text); text != "" {
		must = map[string]any{
			"multi_match": map[string]any{
				"query":  text,
				"fields": s.SearchAttributes,
			},
		}
	}
	filter := make([]any, 0, 1)
	if q.Filter != "" {
		filter = append(filter, map[string]any{
			"query_string": map[string]any{"query": q.Filter},
		})
	}
	highlight := map[string]any{}
	for _, attr := range s.HighlightAttributes {
		highlight[attr] = map[string]any{}
	}
	sort := SortOptions[q.Sort]
	return map[string]any{
		"from":    q.Page * q.HitsPerPage,
		"size":    q.HitsPerPage,
		"_source": s.ResultAttributes,
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": filter,
			},
		},
		"highlight": map[string]any{"fields": highlight},
		"sort":      []any{map[string]any{sort.Field: map[string]any{"order": sort.Order}}},
		"aggs": map[string]any{
			s.FacetAttribute: map[string]any{
				"terms": map[string]any{
					"field": s.FacetAttribute,
					"size":  s.FacetSize,
				},
			},
		},
	}
}

func (c *ElasticClient) Search(ctx context.Context, q Query) (*Result, error) {
	q.Sanitize()
	data, err := jsoncompat.Marshal(c.body(q))
	if err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}
	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.Index),
		c.es.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", c.Index, err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("search %s: status %d: %s", c.Index, res.StatusCode, truncate(string(raw), 200))
	}
	var es esResponse
	if err := jsoncompat.Unmarshal(raw, &es); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return c.toResult(q, &es), nil
}

func (c *ElasticClient) toResult(q Query, es *esResponse) *Result {
	ret := &Result{
		Hits:        make([]Hit, 0, len(es.Hits.Hits)),
		NbHits:      es.Hits.Total.Value,
		Page:        q.Page,
		HitsPerPage: q.HitsPerPage,
		Tags:        make([]FacetValue, 0),
	}
	for _, h := range es.Hits.Hits {
		hit := Hit{
			Id:        h.Id,
			Title:     stringField(h.Source, "title"),
			Body:      stringField(h.Source, "body"),
			Url:       stringField(h.Source, "url"),
			Date:      stringField(h.Source, "field_date"),
			ImageAlt:  stringField(h.Source, "image_alt"),
			ImageUrl:  stringField(h.Source, "image_url"),
			Highlight: h.Highlight,
		}
		if attr := c.Settings.SnippetAttribute; attr != "" {
			hit.Snippet = Snippet(stringField(h.Source, attr), q.Text, c.Settings.SnippetWords)
		}
		ret.Hits = append(ret.Hits, hit)
	}
	if agg, ok := es.Aggregations[c.Settings.FacetAttribute]; ok {
		for _, b := range agg.Buckets {
			ret.Tags = append(ret.Tags, FacetValue{Value: b.Key, Count: b.DocCount})
		}
	}
	// facet values are listed by name
	slices.SortFunc(ret.Tags, func(a, b FacetValue) int {
		return strings.Compare(a.Value, b.Value)
	})
	return ret
}

// stringField reads scalar and list values, lists are joined with a comma.
func stringField(src map[string]any, key string) string {
	switch v := src[key].(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
