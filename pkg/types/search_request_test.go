package types

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryValues(t *testing.T) {
	query := url.Values{
		"query": []string{" release "},
		"sort":  []string{"_date_asc"},
		"page":  []string{"1"},
		"size":  []string{"10"},
		"tags":  []string{"go", "web"},
		"start": []string{"2024-01-01"},
		"other": []string{"ignored"},
	}
	sr := makeBaseSearchRequest()
	require.NoError(t, queryFromRequestQuery(query, sr))
	sr.Sanitize()

	assert.Equal(t, "release", sr.Query)
	assert.Equal(t, "_date_asc", sr.Sort)
	assert.Equal(t, 1, sr.Page)
	assert.Equal(t, 10, sr.PageSize)
	assert.Equal(t, []string{"go", "web"}, sr.Tags)
	assert.True(t, sr.Has("start"))
	assert.False(t, sr.Has("end"))

	start, end, err := sr.Dates(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", start.Format(requestDateLayout))
	assert.Nil(t, end)
}

func TestGetQueryFromRequestDefaultsAndClamp(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/search?page=500&size=0", nil)
	sr, err := GetQueryFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, 100, sr.Page)
	assert.Equal(t, 1, sr.PageSize)
	assert.Equal(t, "default", sr.Sort)
	assert.False(t, sr.Has("query"))
}

func TestGetQueryFromJsonBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/search", strings.NewReader(`{"query":"go","end":"2024-02-30"}`))
	sr, err := GetQueryFromRequest(r)
	require.NoError(t, err)
	assert.True(t, sr.Has("query"))
	assert.False(t, sr.Has("tags"))
	_, _, err = sr.Dates(time.UTC)
	assert.Error(t, err)
}
