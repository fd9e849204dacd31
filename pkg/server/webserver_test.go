package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matst80/slask-filters/pkg/common"
	"github.com/matst80/slask-filters/pkg/search"
	"github.com/matst80/slask-filters/pkg/session"
	"github.com/matst80/slask-filters/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)

type fakeClient struct {
	mu      sync.Mutex
	queries []search.Query
	nbHits  int
	err     error
}

func (c *fakeClient) Search(ctx context.Context, q search.Query) (*search.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, q)
	if c.err != nil {
		return nil, c.err
	}
	hits := make([]search.Hit, 0)
	for i := q.Page * q.HitsPerPage; i < min(c.nbHits, (q.Page+1)*q.HitsPerPage); i++ {
		hits = append(hits, search.Hit{Id: fmt.Sprint(i), Title: fmt.Sprintf("Post %d", i)})
	}
	return &search.Result{
		Hits:        hits,
		NbHits:      c.nbHits,
		Page:        q.Page,
		HitsPerPage: q.HitsPerPage,
		Tags:        []search.FacetValue{{Value: "go", Count: 3}},
	}, nil
}

func (c *fakeClient) last() search.Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queries[len(c.queries)-1]
}

func (c *fakeClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queries)
}

type fakeTracking struct {
	mu       sync.Mutex
	sessions []string
	searches []string
}

func (t *fakeTracking) TrackSession(sessionId string, r *http.Request) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions = append(t.sessions, sessionId)
}

func (t *fakeTracking) TrackSearch(sessionId string, query string, filter string, resultLen int, page int, r *http.Request) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.searches = append(t.searches, filter)
}

func (t *fakeTracking) TrackAction(sessionId string, value types.TrackingAction) error {
	return nil
}

func (t *fakeTracking) Close() error {
	return nil
}

type testServer struct {
	client   *fakeClient
	tracking *fakeTracking
	handler  http.Handler
	sid      string
}

func newTestServer(t *testing.T, nbHits int) *testServer {
	t.Helper()
	opts := session.DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	store := session.NewStore(time.Hour, func(id string) (*session.Session, error) {
		return session.New(id, opts)
	})
	t.Cleanup(store.Close)
	client := &fakeClient{nbHits: nbHits}
	tracking := &fakeTracking{}
	ws := NewWebServer(store, client, tracking)
	return &testServer{client: client, tracking: tracking, handler: ws.ClientHandler()}
}

func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if ts.sid != "" {
		req.AddCookie(&http.Cookie{Name: common.SessionCookie, Value: ts.sid})
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == common.SessionCookie {
			ts.sid = c.Value
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestSearchAppliesRequest(t *testing.T) {
	ts := newTestServer(t, 30)

	st := decode[session.State](t, ts.do(t, "GET", "/api/search?query=release&tags=go&start=2024-01-01&end=2024-01-31&page=1", ""))
	assert.Equal(t, "release", st.Query)
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, `field_date:[2024-01-01 TO 2024-01-31] AND tags:"go"`, st.Filter)
	assert.True(t, st.CanClear)
	assert.Len(t, st.Hits, 12)
	assert.Equal(t, "24 out of 30 results found", st.StatsText)
	assert.NotEmpty(t, st.Pagination)

	q := ts.client.last()
	assert.Equal(t, "release", q.Text)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, []string{ts.sid}, ts.tracking.sessions)
	assert.Equal(t, []string{st.Filter}, ts.tracking.searches)

	// keys that are not present keep their value
	st = decode[session.State](t, ts.do(t, "GET", "/api/search?sort=_date_asc&nt=1", ""))
	assert.Equal(t, "release", st.Query)
	assert.Equal(t, "_date_asc", st.Sort)
	assert.Equal(t, 0, st.Page)
	assert.Len(t, ts.tracking.searches, 1)
	assert.Len(t, ts.tracking.sessions, 1)
}

func TestSortChangeAndViewSwitch(t *testing.T) {
	ts := newTestServer(t, 30)
	ts.do(t, "GET", "/api/search?page=2", "")

	res := decode[EventResponse](t, ts.do(t, "POST", "/api/event", `{"selector":".sort-by-select","kind":"change","value":"_date_desc"}`))
	assert.True(t, res.Found)
	assert.Equal(t, search.SortDateDesc, res.Sort)
	assert.Equal(t, 0, res.Page)
	assert.Equal(t, search.SortDateDesc, ts.client.last().Sort)

	searches := ts.client.count()
	res = decode[EventResponse](t, ts.do(t, "POST", "/api/event", `{"selector":".result-switcher .table","kind":"click"}`))
	assert.True(t, res.Found)
	assert.Equal(t, session.ViewTable, res.View)
	assert.Equal(t, searches, ts.client.count())

	st := decode[session.State](t, ts.do(t, "GET", "/api/search?view=grid", ""))
	assert.Equal(t, session.ViewGrid, st.View)
}

func TestSearchRejectsBadDate(t *testing.T) {
	ts := newTestServer(t, 0)
	rec := ts.do(t, "GET", "/api/search?start=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, ts.client.count())
}

func TestSearchBackendFailure(t *testing.T) {
	ts := newTestServer(t, 0)
	ts.client.err = errors.New("connection refused")
	rec := ts.do(t, "GET", "/api/search?query=go", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDateSelectionAndInput(t *testing.T) {
	ts := newTestServer(t, 5)

	st := decode[session.State](t, ts.do(t, "POST", "/api/date", `{"start":"2024-03-01","end":"2024-03-10"}`))
	assert.Equal(t, "complete", st.Dates.State)
	assert.Equal(t, "field_date:[2024-03-01 TO 2024-03-10]", ts.client.last().Filter)

	st = decode[session.State](t, ts.do(t, "POST", "/api/date", `{"input":"end","value":"03/12/2024"}`))
	assert.Equal(t, "2024-03-12", st.Dates.End)

	rec := ts.do(t, "POST", "/api/date", `{"input":"end","value":"12/31/2099"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, "POST", "/api/date", `{"input":"middle"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, "GET", "/api/date", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestEventOpensPickerWithoutSearching(t *testing.T) {
	ts := newTestServer(t, 5)
	ts.do(t, "GET", "/api/state", "")
	searches := ts.client.count()

	res := decode[EventResponse](t, ts.do(t, "POST", "/api/event", `{"selector":".rdrDateInput input","kind":"focus"}`))
	assert.True(t, res.Found)
	assert.True(t, res.PickerOpen)
	assert.Equal(t, searches, ts.client.count())

	res = decode[EventResponse](t, ts.do(t, "POST", "/api/event", `{"selector":"[data-date=\"2024-03-10\"]","kind":"click"}`))
	assert.True(t, res.Found)
	assert.Equal(t, "selecting", res.Dates.State)
	assert.Equal(t, searches+1, ts.client.count())

	res = decode[EventResponse](t, ts.do(t, "POST", "/api/event", `{"selector":".missing","kind":"click"}`))
	assert.False(t, res.Found)

	rec := ts.do(t, "POST", "/api/event", `{"kind":"click"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClear(t *testing.T) {
	ts := newTestServer(t, 5)

	res := decode[ClearResponse](t, ts.do(t, "POST", "/api/clear", ""))
	assert.False(t, res.Cleared)

	ts.do(t, "GET", "/api/search?query=go&tags=web&start=2024-01-01&end=2024-01-31", "")
	res = decode[ClearResponse](t, ts.do(t, "POST", "/api/clear", ""))
	assert.True(t, res.Cleared)
	assert.False(t, res.CanClear)
	assert.Empty(t, res.Query)
	assert.Empty(t, res.Tags)
	assert.Equal(t, "empty", res.Dates.State)
	assert.Empty(t, ts.client.last().Filter)
}

func TestPageClick(t *testing.T) {
	ts := newTestServer(t, 60)
	ts.do(t, "GET", "/api/search", "")

	res := decode[PageResponse](t, ts.do(t, "POST", "/api/page/2", `{"ctrlKey":true}`))
	assert.False(t, res.Refined)
	assert.Equal(t, 0, res.Page)

	res = decode[PageResponse](t, ts.do(t, "POST", "/api/page/2", ""))
	assert.True(t, res.Refined)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 2, ts.client.last().Page)

	rec := ts.do(t, "POST", "/api/page/two", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageRendersHtml(t *testing.T) {
	ts := newTestServer(t, 3)
	rec := ts.do(t, "GET", "/?query=go", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Post 0")
	assert.Contains(t, body, `<span class="stats-total-hits">3</span> results found`)
	assert.Contains(t, body, "rdrMonthsVertical")
	assert.NotEmpty(t, ts.sid)
}

func TestDebugHandler(t *testing.T) {
	ws := NewWebServer(nil, nil, nil)
	rec := httptest.NewRecorder()
	ws.DebugHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	ws.DebugHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "slaskfilters_searches_total")
}
