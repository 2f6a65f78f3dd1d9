package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/rewardwheel/internal/logger"
)

// HealthResponse is the body of /healthz and /readyz
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthCheckFunc returns nil when its component can serve traffic
type HealthCheckFunc func(ctx context.Context) error

// ReadinessCheck names a probe so a failing /readyz says which part is down
type ReadinessCheck struct {
	Name  string
	Check HealthCheckFunc
}

const (
	readinessTimeout = 2 * time.Second

	statusOK          = "ok"
	statusUnavailable = "unavailable"
	checkFailing      = "failing"
)

// HandleHealthz provides a basic liveness check
// @Summary Liveness check
// @Description Returns OK if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: statusOK})
	}
}

// HandleReadyz runs every check under one deadline. Error text is logged, not returned.
// @Summary Readiness check
// @Description Returns OK when every component can serve spins; lists failing components otherwise
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := HealthResponse{Status: statusOK, Checks: make(map[string]string, len(checks))}
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				logger.FromContext(ctx).Error("Readiness check failed", "check", c.Name, "error", err)
				resp.Checks[c.Name] = checkFailing
				resp.Status = statusUnavailable
				continue
			}
			resp.Checks[c.Name] = statusOK
		}

		code := http.StatusOK
		if resp.Status != statusOK {
			code = http.StatusServiceUnavailable
		}
		respondJSON(w, code, resp)
	}
}
