package common

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTimeoutConfig(t *testing.T) {
	t.Setenv("SLASK_TIMEOUT_READ", "7")
	t.Setenv("SLASK_TIMEOUT_WRITE", "1m")
	t.Setenv("SLASK_TIMEOUT_IDLE", "nope")
	t.Setenv("SLASK_TIMEOUT_HOOK", "0")
	cfg := LoadTimeoutConfig(DefaultTimeoutConfig())
	assert.Equal(t, 7*time.Second, cfg.Read)
	assert.Equal(t, time.Minute, cfg.Write)
	assert.Equal(t, 60*time.Second, cfg.Idle)
	assert.Equal(t, 5*time.Second, cfg.Hook)

	srv := NewServerWithTimeouts(":0", http.NotFoundHandler(), cfg)
	assert.Equal(t, 7*time.Second, srv.ReadTimeout)
}

func TestRunHooksContinuesAfterFailure(t *testing.T) {
	ran := []int{}
	RunHooks(context.Background(), time.Second,
		func(context.Context) error { ran = append(ran, 0); return errors.New("fail") },
		nil,
		func(context.Context) error { ran = append(ran, 2); return nil },
	)
	assert.Equal(t, []int{0, 2}, ran)
}

func TestJsonHandlerIssuesSessionCookie(t *testing.T) {
	var got string
	h := JsonHandler(nil, func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		got = sessionId
		return enc.Encode(map[string]string{"id": sessionId})
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/api/search", nil))
	_, err := uuid.Parse(got)
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, got, cookies[0].Value)

	req := httptest.NewRequest("GET", "/api/search", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: got})
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Empty(t, rec.Result().Cookies())
	assert.JSONEq(t, `{"id":"`+got+`"}`, rec.Body.String())
}

func TestJsonHandlerErrorStatus(t *testing.T) {
	h := JsonHandler(nil, func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		return BadRequest(errors.New("bad date"))
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("POST", "/api/date", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad date")
}
