package types

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/schema"
)

const requestDateLayout = "2006-01-02"

// SearchRequest is the state carried by a search url. Only the keys present
// in the request are applied to the session, see Has.
type SearchRequest struct {
	Query        string   `json:"query" schema:"query"`
	Page         int      `json:"page" schema:"page"`
	PageSize     int      `json:"pageSize" schema:"size,default:12"`
	Sort         string   `json:"sort" schema:"sort,default:default"`
	View         string   `json:"view" schema:"view"`
	Tags         []string `json:"tags" schema:"tags"`
	Start        string   `json:"start" schema:"start"`
	End          string   `json:"end" schema:"end"`
	SkipTracking bool     `json:"skipTracking" schema:"nt"`

	present map[string]bool
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func (s *SearchRequest) Sanitize() {
	s.Page = clamp(s.Page, 0, 100)
	s.PageSize = clamp(s.PageSize, 1, 100)
	s.Query = strings.TrimSpace(s.Query)
	if s.Sort == "" {
		s.Sort = "default"
	}
}

// Has reports whether key was part of the request.
func (s *SearchRequest) Has(key string) bool {
	if s.present == nil {
		return false
	}
	return s.present[key]
}

func parseRequestDate(key, value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(requestDateLayout, value, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &t, nil
}

// Dates parses start and end as days in loc, empty values are open bounds.
func (s *SearchRequest) Dates(loc *time.Location) (start, end *time.Time, err error) {
	if loc == nil {
		loc = time.UTC
	}
	if start, err = parseRequestDate("start", s.Start, loc); err != nil {
		return nil, nil, err
	}
	if end, err = parseRequestDate("end", s.End, loc); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func GetQueryFromRequest(r *http.Request) (*SearchRequest, error) {
	sr := makeBaseSearchRequest()
	var err error
	if r.Method == http.MethodGet {
		err = queryFromRequestQuery(r.URL.Query(), sr)
	} else {
		var data []byte
		if data, err = io.ReadAll(r.Body); err == nil {
			var raw map[string]json.RawMessage
			if err = json.Unmarshal(data, &raw); err == nil {
				for key := range raw {
					sr.present[key] = true
				}
				err = json.Unmarshal(data, sr)
			}
		}
	}
	sr.Sanitize()
	return sr, err
}

func queryFromRequestQuery(query url.Values, result *SearchRequest) error {
	for key := range query {
		result.present[key] = true
	}
	return decoder.Decode(result, query)
}

func makeBaseSearchRequest() *SearchRequest {
	return &SearchRequest{
		Sort:     "default",
		Page:     0,
		PageSize: 12,
		Tags:     []string{},
		present:  map[string]bool{},
	}
}
