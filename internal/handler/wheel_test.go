package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/rewardwheel/internal/domain"
	"github.com/osse101/rewardwheel/internal/logger"
	"github.com/osse101/rewardwheel/internal/random"
	"github.com/osse101/rewardwheel/internal/registry"
	"github.com/osse101/rewardwheel/internal/scheduler"
	"github.com/osse101/rewardwheel/internal/session"
	"github.com/osse101/rewardwheel/internal/wheel"
)

var testNow = time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)

type wheelFixture struct {
	handler *WheelHandler
	reg     *registry.Registry
	sched   *scheduler.Manual
}

// newWheelFixture draws legend_badge first, then points_50, repeating
func newWheelFixture(t *testing.T, maxSpins int) *wheelFixture {
	t.Helper()
	table, err := wheel.NewTable(wheel.DefaultOutcomes())
	require.NoError(t, err)

	sched := scheduler.NewManual(testNow)
	reg := registry.New(100, time.Hour, registry.NewFactory(registry.FactoryConfig{
		Table:     table,
		Steps:     wheel.DefaultRevealSteps(),
		Scheduler: sched,
		Source:    random.NewSequence(0.97, 0.10),
		MaxSpins:  maxSpins,
		Now:       sched.Now,
	}))
	t.Cleanup(reg.Purge)

	return &wheelFixture{
		handler: NewWheelHandler(table, wheel.DefaultRevealSteps(), reg),
		reg:     reg,
		sched:   sched,
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandleGetTable(t *testing.T) {
	f := newWheelFixture(t, 3)

	w := httptest.NewRecorder()
	f.handler.HandleGetTable(w, httptest.NewRequest(http.MethodGet, "/api/v1/wheel/table", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp TableResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Outcomes, 8)
	assert.Equal(t, "points_50", resp.Outcomes[0].ID)
	assert.InDelta(t, 0.25, resp.Outcomes[0].Probability, 1e-9)
	assert.Equal(t, "legend_badge", resp.Outcomes[7].ID)
	assert.Equal(t, domain.RarityLegendary, resp.Outcomes[7].Rarity)
	assert.InDelta(t, 100.0, resp.TotalWeight, 1e-9)

	require.Len(t, resp.Reveal, 3)
	assert.Equal(t, domain.PhaseRevealing, resp.Reveal[1].Phase)
	assert.Equal(t, int64(1500), resp.Reveal[2].OffsetMs)
}

func TestHandleSpin(t *testing.T) {
	f := newWheelFixture(t, 1)

	w := httptest.NewRecorder()
	f.handler.HandleSpin(w, jsonRequest(http.MethodPost, "/api/v1/wheel/spin", `{"user_id":"kid-1"}`))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp SpinResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "legend_badge", resp.Outcome.ID)
	assert.Equal(t, "kid-1", resp.Session.UserID)
	assert.Equal(t, 0, resp.Session.Budget.Remaining)
	assert.Equal(t, 1, resp.Session.Budget.Max)
	assert.Equal(t, uint64(1), resp.Session.Generation)
	assert.Nil(t, resp.Session.Revealed, "outcome stays hidden until the reveal settles")
	assert.Len(t, resp.Reveal, 3)

	t.Run("exhausted budget is a conflict with reset time", func(t *testing.T) {
		w := httptest.NewRecorder()
		f.handler.HandleSpin(w, jsonRequest(http.MethodPost, "/api/v1/wheel/spin", `{"user_id":"kid-1"}`))

		require.Equal(t, http.StatusConflict, w.Code)
		var body BudgetExhaustedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, ErrMsgBudgetExhaustedError, body.Error)
		assert.True(t, body.ResetAt.Equal(time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)))
	})
}

func TestHandleSpin_BadRequests(t *testing.T) {
	f := newWheelFixture(t, 3)

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"malformed json", `{"user_id":`, ""},
		{"missing user", `{}`, "user_id"},
		{"bad characters", `{"user_id":"a b"}`, "user_id"},
		{"too long", `{"user_id":"` + strings.Repeat("x", 101) + `"}`, "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			f.handler.HandleSpin(w, jsonRequest(http.MethodPost, "/api/v1/wheel/spin", tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			if tt.wantField != "" {
				var body ValidationErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Contains(t, body.Fields, tt.wantField)
			}
		})
	}
	assert.Equal(t, 0, f.reg.Len(), "invalid requests never create sessions")
}

func TestHandleGetSession_RevealsAfterSettle(t *testing.T) {
	f := newWheelFixture(t, 3)

	w := httptest.NewRecorder()
	f.handler.HandleSpin(w, jsonRequest(http.MethodPost, "/api/v1/wheel/spin", `{"user_id":"kid-2"}`))
	require.Equal(t, http.StatusOK, w.Code)

	get := func() session.Snapshot {
		w := httptest.NewRecorder()
		f.handler.HandleGetSession(w, httptest.NewRequest(http.MethodGet, "/api/v1/wheel/session?user_id=kid-2", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var snap session.Snapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		return snap
	}

	f.sched.Advance(600 * time.Millisecond)
	mid := get()
	assert.Equal(t, domain.PhaseRevealing, mid.Phase)
	assert.Nil(t, mid.Revealed)

	f.sched.Advance(time.Second)
	done := get()
	assert.Equal(t, domain.PhaseSettled, done.Phase)
	require.NotNil(t, done.Revealed)
	assert.Equal(t, "legend_badge", done.Revealed.ID)
	assert.Equal(t, 2, done.Budget.Remaining)
}

func TestHandleGetSession_Validation(t *testing.T) {
	f := newWheelFixture(t, 3)

	w := httptest.NewRecorder()
	f.handler.HandleGetSession(w, httptest.NewRequest(http.MethodGet, "/api/v1/wheel/session", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing user_id query parameter")

	w = httptest.NewRecorder()
	f.handler.HandleGetSession(w, httptest.NewRequest(http.MethodGet, "/api/v1/wheel/session?user_id=a%20b", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	f.handler.HandleGetSession(w, httptest.NewRequest(http.MethodGet, "/api/v1/wheel/session?user_id=new-kid", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"remaining":3`)
	assert.Contains(t, w.Body.String(), `"phase":"idle"`)
}

func TestHandleResetBudget(t *testing.T) {
	f := newWheelFixture(t, 1)

	w := httptest.NewRecorder()
	f.handler.HandleSpin(w, jsonRequest(http.MethodPost, "/api/v1/wheel/spin", `{"user_id":"kid-3"}`))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	f.handler.HandleResetBudget(w, jsonRequest(http.MethodPost, "/api/v1/wheel/reset", `{"user_id":"kid-3"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.Budget.Remaining)

	w = httptest.NewRecorder()
	f.handler.HandleSpin(w, jsonRequest(http.MethodPost, "/api/v1/wheel/spin", `{"user_id":"kid-3"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"points_50"`)
}

func TestHandleCloseSession(t *testing.T) {
	f := newWheelFixture(t, 3)

	w := httptest.NewRecorder()
	f.handler.HandleSpin(w, jsonRequest(http.MethodPost, "/api/v1/wheel/spin", `{"user_id":"kid-4"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.sched.Pending())

	w = httptest.NewRecorder()
	f.handler.HandleCloseSession(w, jsonRequest(http.MethodPost, "/api/v1/wheel/close", `{"user_id":"kid-4"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgSessionClosed)
	assert.Equal(t, 0, f.sched.Pending(), "pending reveal transitions are cancelled")
	assert.Equal(t, 0, f.reg.Len())

	w = httptest.NewRecorder()
	f.handler.HandleCloseSession(w, jsonRequest(http.MethodPost, "/api/v1/wheel/close", `{"user_id":"kid-4"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCloseSession_DoesNotRefund(t *testing.T) {
	f := newWheelFixture(t, 1)

	spin := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		f.handler.HandleSpin(w, jsonRequest(http.MethodPost, "/api/v1/wheel/spin", `{"user_id":"kid-5"}`))
		return w
	}

	require.Equal(t, http.StatusOK, spin().Code)

	w := httptest.NewRecorder()
	f.handler.HandleCloseSession(w, jsonRequest(http.MethodPost, "/api/v1/wheel/close", `{"user_id":"kid-5"}`))
	require.Equal(t, http.StatusOK, w.Code)

	again := spin()
	assert.Equal(t, http.StatusConflict, again.Code)
	assert.Contains(t, again.Body.String(), ErrMsgBudgetExhaustedError)
}

func TestWheelHandler_LogsOncePerOperation(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var buf bytes.Buffer
	logger.InitLoggerWithWriter(logger.Config{Level: "info", Format: "json"}, &buf)

	f := newWheelFixture(t, 3)
	w := httptest.NewRecorder()
	f.handler.HandleSpin(w, jsonRequest(http.MethodPost, "/api/v1/wheel/spin", `{"user_id":"kid-6"}`))
	require.Equal(t, http.StatusOK, w.Code)
	w = httptest.NewRecorder()
	f.handler.HandleCloseSession(w, jsonRequest(http.MethodPost, "/api/v1/wheel/close", `{"user_id":"kid-6"}`))
	require.Equal(t, http.StatusOK, w.Code)

	msgs := map[string]int{}
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var entry map[string]any
		require.NoError(t, dec.Decode(&entry))
		msg, _ := entry["msg"].(string)
		msgs[msg]++
	}
	assert.Equal(t, 1, msgs[session.LogMsgSpinResolved], "a spin is logged once")
	assert.Equal(t, 1, msgs[LogMsgSessionClosed])
}

// failingStore returns a fixed error from Get
type failingStore struct{ err error }

func (s failingStore) Get(string) (*session.Session, error) { return nil, s.err }
func (s failingStore) Remove(string) bool                   { return false }

func TestHandleSpin_StoreErrors(t *testing.T) {
	table, err := wheel.NewTable(wheel.DefaultOutcomes())
	require.NoError(t, err)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"misconfigured", domain.ErrInvalidConfiguration, http.StatusInternalServerError, ErrMsgWheelMisconfiguredError},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest, ErrMsgInvalidRequestError},
		{"closed", domain.ErrSessionClosed, http.StatusConflict, ErrMsgSessionClosedError},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, ErrMsgGenericServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWheelHandler(table, nil, failingStore{err: tt.err})
			w := httptest.NewRecorder()
			h.HandleSpin(w, jsonRequest(http.MethodPost, "/api/v1/wheel/spin", `{"user_id":"kid"}`))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantMsg)
			assert.NotContains(t, w.Body.String(), "disk on fire")
		})
	}
}
