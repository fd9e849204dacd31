package tracking

import (
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/matst80/slask-filters/pkg/common/jsoncompat"
	"github.com/matst80/slask-filters/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []string
	fail   bool
}

func (r *recorder) publish(data any) error {
	if r.fail {
		return errors.New("broker gone")
	}
	b, err := jsoncompat.Marshal(data)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, string(b))
	return nil
}

func TestTrackingEventsArePublished(t *testing.T) {
	rec := &recorder{}
	trk := NewTracking("se", rec.publish)

	req := httptest.NewRequest("GET", "/api/search", nil)
	req.Header.Set("X-Real-Ip", "10.0.0.1")
	req.Header.Set("Referer", "https://example.com/")
	trk.TrackSession("abc", req)
	trk.TrackSearch("abc", "release", "field_date:[2024-01-01 TO *]", 3, 0, req)
	require.NoError(t, trk.TrackAction("abc", types.TrackingAction{Action: "clear_all", Reason: "keyword"}))
	require.NoError(t, trk.Close())

	require.Len(t, rec.events, 3)
	assert.Contains(t, rec.events[0], `"ip":"10.0.0.1"`)
	assert.Contains(t, rec.events[0], `"session_id":"abc"`)
	assert.Contains(t, rec.events[1], `"filter":"field_date:[2024-01-01 TO *]"`)
	assert.Contains(t, rec.events[1], `"event":1`)
	assert.Contains(t, rec.events[2], `"action":"clear_all"`)
}

func TestPublishErrorsAreNotFatal(t *testing.T) {
	rec := &recorder{fail: true}
	trk := NewTracking("se", rec.publish)
	require.NoError(t, trk.TrackAction("abc", types.TrackingAction{Action: "page"}))
	assert.NoError(t, trk.Close())
	assert.Empty(t, rec.events)
}
