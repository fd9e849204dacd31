package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/matst80/slask-filters/pkg/common"
	"github.com/matst80/slask-filters/pkg/rangepicker"
	"github.com/matst80/slask-filters/pkg/session"
	"github.com/matst80/slask-filters/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfilters_searches_total",
		Help: "The total number of processed searches",
	})
	searchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfilters_search_failures_total",
		Help: "The total number of searches the backend failed",
	})
	uiEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskfilters_ui_events_total",
		Help: "The total number of forwarded ui events",
	}, []string{"kind"})
)

// applyRequest moves the keys present in sr into the session. The page is
// applied last since the other keys reset it.
func (ws *WebServer) applyRequest(s *session.Session, sr *types.SearchRequest) error {
	if sr.Has("query") {
		s.SetQuery(sr.Query)
	}
	if sr.Has("tags") {
		s.SetTags(sr.Tags)
	}
	if sr.Has("sort") {
		s.SetSort(sr.Sort)
	}
	if sr.Has("view") {
		s.SetView(sr.View)
	}
	if sr.Has("start") || sr.Has("end") {
		start, end, err := sr.Dates(ws.Location)
		if err != nil {
			return common.BadRequest(err)
		}
		s.SelectDates(start, end)
	}
	if sr.Has("page") {
		s.SetPage(sr.Page)
	}
	return nil
}

// Page renders the whole filter page for the visitor.
func (ws *WebServer) Page(w http.ResponseWriter, r *http.Request) {
	sessionId := common.HandleSessionCookie(ws.Tracking, w, r)
	s, err := ws.session(sessionId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sr, err := types.GetQueryFromRequest(r)
	if err == nil {
		err = ws.applyRequest(s, sr)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := ws.runSearch(r.Context(), s, r, !sr.SkipTracking); err != nil {
		// the page still renders with the previous result
		log.Printf("Search failed for page %s: %v", sessionId, err)
	}
	defaultHeaders(w, r, false)
	w.WriteHeader(http.StatusOK)
	if err := s.Render(w); err != nil {
		log.Printf("Failed to render page %s: %v", sessionId, err)
	}
}

func (ws *WebServer) SearchHandler(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	s, err := ws.session(sessionId)
	if err != nil {
		return err
	}
	sr, err := types.GetQueryFromRequest(r)
	if err != nil {
		return common.BadRequest(err)
	}
	if err := ws.applyRequest(s, sr); err != nil {
		return err
	}
	if err := ws.runSearch(r.Context(), s, r, !sr.SkipTracking); err != nil {
		return err
	}
	defaultHeaders(w, r, true)
	return enc.Encode(s.Snapshot())
}

// State returns the session without searching.
func (ws *WebServer) State(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	s, err := ws.session(sessionId)
	if err != nil {
		return err
	}
	defaultHeaders(w, r, true)
	return enc.Encode(s.Snapshot())
}

// DateRequest either selects a range of days (yyyy-mm-dd, empty is open) or
// types into one of the picker inputs (MM/dd/yyyy).
type DateRequest struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
	Input string  `json:"input"`
	Value string  `json:"value"`
}

func (ws *WebServer) parseDay(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, *value, ws.Location)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (ws *WebServer) Date(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	if r.Method != http.MethodPost {
		return &common.HttpError{Status: http.StatusMethodNotAllowed, Err: errors.New("date selection needs POST")}
	}
	s, err := ws.session(sessionId)
	if err != nil {
		return err
	}
	var req DateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return common.BadRequest(err)
	}
	switch req.Input {
	case "":
		start, err := ws.parseDay(req.Start)
		if err != nil {
			return common.BadRequest(fmt.Errorf("start: %w", err))
		}
		end, err := ws.parseDay(req.End)
		if err != nil {
			return common.BadRequest(fmt.Errorf("end: %w", err))
		}
		s.SelectDates(start, end)
	case "start", "end":
		input := rangepicker.InputStart
		if req.Input == "end" {
			input = rangepicker.InputEnd
		}
		if err := s.SetDateInput(input, req.Value); err != nil {
			return common.BadRequest(err)
		}
	default:
		return common.BadRequest(fmt.Errorf("unknown date input %q", req.Input))
	}
	if err := ws.runSearch(r.Context(), s, r, true); err != nil {
		return err
	}
	defaultHeaders(w, r, true)
	return enc.Encode(s.Snapshot())
}

// EventRequest is a ui event aimed at the first element matching Selector.
type EventRequest struct {
	Selector string `json:"selector"`
	types.Event
}

type EventResponse struct {
	Found bool `json:"found"`
	session.State
}

func (ws *WebServer) Event(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	if r.Method != http.MethodPost {
		return &common.HttpError{Status: http.StatusMethodNotAllowed, Err: errors.New("events need POST")}
	}
	s, err := ws.session(sessionId)
	if err != nil {
		return err
	}
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return common.BadRequest(err)
	}
	if req.Selector == "" || req.Kind == "" {
		return common.BadRequest(errors.New("selector and kind are required"))
	}
	before := s.Query()
	ev := req.Event
	found := s.Event(req.Selector, &ev)
	uiEvents.WithLabelValues(string(req.Kind)).Inc()
	// only events that changed the query hit the backend
	if found && s.Query() != before {
		if err := ws.runSearch(r.Context(), s, r, true); err != nil {
			return err
		}
	}
	defaultHeaders(w, r, true)
	return enc.Encode(EventResponse{Found: found, State: s.Snapshot()})
}

type ClearResponse struct {
	Cleared bool `json:"cleared"`
	session.State
}

func (ws *WebServer) Clear(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	if r.Method != http.MethodPost {
		return &common.HttpError{Status: http.StatusMethodNotAllowed, Err: errors.New("clear needs POST")}
	}
	s, err := ws.session(sessionId)
	if err != nil {
		return err
	}
	cleared := s.ClearAll()
	if cleared {
		if err := ws.runSearch(r.Context(), s, r, true); err != nil {
			return err
		}
	}
	defaultHeaders(w, r, true)
	return enc.Encode(ClearResponse{Cleared: cleared, State: s.Snapshot()})
}

type PageResponse struct {
	Refined bool `json:"refined"`
	session.State
}

// PageClick is a click on a pagination link. The optional body carries the
// button and modifier keys of the click.
func (ws *WebServer) PageClick(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	if r.Method != http.MethodPost {
		return &common.HttpError{Status: http.StatusMethodNotAllowed, Err: errors.New("page clicks need POST")}
	}
	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil {
		return common.BadRequest(fmt.Errorf("page: %w", err))
	}
	s, err := ws.session(sessionId)
	if err != nil {
		return err
	}
	ev := types.Event{Kind: types.EventClick}
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil && !errors.Is(err, io.EOF) {
		return common.BadRequest(err)
	}
	ev.Kind = types.EventClick
	refined := s.PageClick(page, &ev)
	if refined {
		if err := ws.runSearch(r.Context(), s, r, true); err != nil {
			return err
		}
	}
	defaultHeaders(w, r, true)
	return enc.Encode(PageResponse{Refined: refined, State: s.Snapshot()})
}
