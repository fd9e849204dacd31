package server

import (
	"context"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/matst80/slask-filters/pkg/common"
	"github.com/matst80/slask-filters/pkg/search"
	"github.com/matst80/slask-filters/pkg/session"
	"github.com/matst80/slask-filters/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WebServer serves the filter page and its json api. Every visitor gets a
// session keyed by the session cookie.
type WebServer struct {
	Sessions *session.Store
	Search   search.Client
	Tracking types.Tracking
	Location *time.Location
	// SearchTimeout bounds a single backend search.
	SearchTimeout time.Duration
}

func NewWebServer(sessions *session.Store, client search.Client, tracking types.Tracking) *WebServer {
	return &WebServer{
		Sessions:      sessions,
		Search:        client,
		Tracking:      tracking,
		Location:      time.UTC,
		SearchTimeout: 5 * time.Second,
	}
}

func (ws *WebServer) session(sessionId string) (*session.Session, error) {
	s, _, err := ws.Sessions.Get(sessionId)
	if err != nil {
		return nil, &common.HttpError{Status: http.StatusInternalServerError, Err: err}
	}
	return s, nil
}

// runSearch searches the session's current query and renders the result.
func (ws *WebServer) runSearch(ctx context.Context, s *session.Session, r *http.Request, track bool) error {
	if ws.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ws.SearchTimeout)
		defer cancel()
	}
	q := s.Query()
	noSearches.Inc()
	res, err := ws.Search.Search(ctx, q)
	if err != nil {
		searchFailures.Inc()
		return &common.HttpError{Status: http.StatusBadGateway, Err: err}
	}
	s.SetResult(res)
	if track && ws.Tracking != nil {
		ws.Tracking.TrackSearch(s.Id, q.Text, q.Filter, res.NbHits, q.Page, r)
	}
	return nil
}

func (ws *WebServer) ClientHandler() *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("GET /{$}", ws.Page)
	srv.HandleFunc("/api/search", common.JsonHandler(ws.Tracking, ws.SearchHandler))
	srv.HandleFunc("/api/state", common.JsonHandler(ws.Tracking, ws.State))
	srv.HandleFunc("/api/date", common.JsonHandler(ws.Tracking, ws.Date))
	srv.HandleFunc("/api/event", common.JsonHandler(ws.Tracking, ws.Event))
	srv.HandleFunc("/api/clear", common.JsonHandler(ws.Tracking, ws.Clear))
	srv.HandleFunc("/api/page/{page}", common.JsonHandler(ws.Tracking, ws.PageClick))
	return srv
}

// DebugHandler serves health, metrics and profiling.
func (ws *WebServer) DebugHandler() *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	srv.Handle("/metrics", promhttp.Handler())
	srv.HandleFunc("/debug/pprof/", pprof.Index)
	srv.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	srv.HandleFunc("/debug/pprof/profile", pprof.Profile)
	srv.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	srv.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return srv
}
