package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/rewardwheel/internal/handler"
	"github.com/osse101/rewardwheel/internal/random"
	"github.com/osse101/rewardwheel/internal/registry"
	"github.com/osse101/rewardwheel/internal/scheduler"
	"github.com/osse101/rewardwheel/internal/sse"
	"github.com/osse101/rewardwheel/internal/wheel"
)

const testAPIKey = "router-test-key"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	table, err := wheel.NewTable(wheel.DefaultOutcomes())
	require.NoError(t, err)

	sched := scheduler.NewManual(time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC))
	reg := registry.New(10, time.Hour, registry.NewFactory(registry.FactoryConfig{
		Table:     table,
		Steps:     wheel.DefaultRevealSteps(),
		Scheduler: sched,
		Source:    random.NewSequence(0.3),
		MaxSpins:  3,
		Now:       sched.Now,
	}))
	t.Cleanup(reg.Purge)

	hub := sse.NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)

	return NewRouter(Options{
		APIKey:         testAPIKey,
		AllowedOrigins: []string{"https://wheel.example.com"},
		Wheel:          handler.NewWheelHandler(table, wheel.DefaultRevealSteps(), reg),
		Hub:            hub,
	})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/healthz", "/readyz", "/version", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
		})
	}
}

func TestRouter_WheelRequiresKey(t *testing.T) {
	r := newTestRouter(t)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/wheel/table", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wheel/table", nil)
	req.Header.Set(HeaderAPIKey, testAPIKey)
	rec = serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"legend_badge"`)
}

func TestRouter_SpinFlow(t *testing.T) {
	r := newTestRouter(t)

	spin := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/wheel/spin", strings.NewReader(`{"user_id":"kid-1"}`))
		req.Header.Set(HeaderAPIKey, testAPIKey)
		req.Header.Set("Content-Type", "application/json")
		return serve(r, req)
	}

	for i := 0; i < 3; i++ {
		rec := spin()
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		// 0.3 lands in the 100 Points slice
		assert.Contains(t, rec.Body.String(), `"id":"points_100"`)
	}

	rec := spin()
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reset_at"`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/wheel/spin", nil)
	req.Header.Set("Origin", "https://wheel.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", HeaderAPIKey)
	rec := serve(r, req)

	assert.Equal(t, "https://wheel.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/wheel/spin", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = serve(r, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	req.Header.Set(HeaderAPIKey, testAPIKey)
	assert.Equal(t, http.StatusNotFound, serve(r, req).Code)
}
