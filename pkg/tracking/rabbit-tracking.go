package tracking

import (
	"log"
	"net/http"
	"time"

	"github.com/matst80/slask-filters/pkg/common"
	"github.com/matst80/slask-filters/pkg/messaging"
	"github.com/matst80/slask-filters/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventSession uint16 = 0
	EventSearch  uint16 = 1
	EventAction  uint16 = 6
)

// Publisher sends one tracking event.
type Publisher func(data any) error

// RabbitTracking queues events and publishes them from a background worker
// so handlers never wait for the broker.
type RabbitTracking struct {
	country    string
	connection *amqp.Connection
	publish    Publisher
	queue      *common.QueueHandler[any]
}

const trackingPrefix = "global"

func NewRabbitTracking(url, country string) (*RabbitTracking, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err = messaging.DefineTopic(ch, trackingPrefix, messaging.Tracking); err != nil {
		conn.Close()
		return nil, err
	}
	t := NewTracking(country, func(data any) error {
		return messaging.SendChange(conn, trackingPrefix, messaging.Tracking, data)
	})
	t.connection = conn
	return t, nil
}

// NewTracking builds a tracker on top of any publisher.
func NewTracking(country string, publish Publisher) *RabbitTracking {
	t := &RabbitTracking{
		country: country,
		publish: publish,
	}
	t.queue = common.NewQueueHandler(t.sendAll, 50, time.Second)
	return t
}

func (t *RabbitTracking) sendAll(items []any) {
	for _, item := range items {
		if err := t.publish(item); err != nil {
			log.Printf("Error sending tracking event: %v", err)
		}
	}
}

// Close flushes queued events and closes the broker connection.
func (t *RabbitTracking) Close() error {
	t.queue.Stop()
	if t.connection == nil {
		return nil
	}
	return t.connection.Close()
}

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Country   string `json:"country,omitempty"`
	Context   string `json:"context,omitempty"`
	Event     uint16 `json:"event"`
	Timestamp int64  `json:"ts"`
}

func (t *RabbitTracking) base(event uint16, sessionId string) *BaseEvent {
	return &BaseEvent{
		Event:     event,
		SessionId: sessionId,
		Country:   t.country,
		Context:   "filters",
		Timestamp: time.Now().Unix(),
	}
}

type Session struct {
	*BaseEvent
	UserAgent    string `json:"user_agent,omitempty"`
	Ip           string `json:"ip,omitempty"`
	Language     string `json:"language,omitempty"`
	PragmaHeader string `json:"pragma,omitempty"`
}

func clientIp(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

func (t *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	t.queue.Add(Session{
		BaseEvent:    t.base(EventSession, sessionId),
		Language:     r.Header.Get("Accept-Language"),
		UserAgent:    r.UserAgent(),
		Ip:           clientIp(r),
		PragmaHeader: r.Header.Get("Pragma"),
	})
}

type SearchEventData struct {
	*BaseEvent
	NumberOfResults int    `json:"noi"`
	Query           string `json:"query"`
	Filter          string `json:"filter,omitempty"`
	Page            int    `json:"page"`
	Referer         string `json:"referer"`
}

func (t *RabbitTracking) TrackSearch(sessionId string, query string, filter string, resultLen int, page int, r *http.Request) {
	t.queue.Add(&SearchEventData{
		BaseEvent:       t.base(EventSearch, sessionId),
		Query:           query,
		Filter:          filter,
		NumberOfResults: resultLen,
		Page:            page,
		Referer:         r.Header.Get("Referer"),
	})
}

type ActionEvent struct {
	*BaseEvent
	Action string `json:"action"`
	Reason string `json:"reason"`
}

func (t *RabbitTracking) TrackAction(sessionId string, value types.TrackingAction) error {
	t.queue.Add(&ActionEvent{
		BaseEvent: t.base(EventAction, sessionId),
		Action:    value.Action,
		Reason:    value.Reason,
	})
	return nil
}

var _ types.Tracking = (*RabbitTracking)(nil)
