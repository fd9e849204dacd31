package types

import (
	"net/http"
)

type TrackingAction struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackSearch(sessionId string, query string, filter string, resultLen int, page int, r *http.Request)
	TrackAction(sessionId string, value TrackingAction) error
	Close() error
}
