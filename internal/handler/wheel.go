package handler

import (
	"net/http"

	"github.com/osse101/rewardwheel/internal/domain"
	"github.com/osse101/rewardwheel/internal/logger"
	"github.com/osse101/rewardwheel/internal/session"
	"github.com/osse101/rewardwheel/internal/wheel"
)

// SessionStore is the part of the session registry the wheel endpoints use
type SessionStore interface {
	Get(userID string) (*session.Session, error)
	Remove(userID string) bool
}

// WheelHandler handles reward wheel HTTP requests
type WheelHandler struct {
	table    *wheel.Table
	steps    []RevealStepView
	sessions SessionStore
}

// NewWheelHandler creates a new wheel handler
func NewWheelHandler(table *wheel.Table, steps []domain.RevealStep, sessions SessionStore) *WheelHandler {
	views := make([]RevealStepView, len(steps))
	for i, s := range steps {
		views[i] = RevealStepView{Phase: s.Phase, OffsetMs: s.Offset.Milliseconds()}
	}
	return &WheelHandler{
		table:    table,
		steps:    views,
		sessions: sessions,
	}
}

// UserRequest identifies the user a wheel operation applies to
type UserRequest struct {
	UserID string `json:"user_id" validate:"required,max=100,userid"`
}

// OutcomeView is a table entry with its chance of being drawn
type OutcomeView struct {
	domain.Outcome
	Probability float64 `json:"probability"`
}

// RevealStepView is one scheduled reveal phase
type RevealStepView struct {
	Phase    domain.Phase `json:"phase"`
	OffsetMs int64        `json:"offset_ms"`
}

// TableResponse lists the possible rewards
type TableResponse struct {
	Outcomes    []OutcomeView    `json:"outcomes"`
	TotalWeight float64          `json:"total_weight"`
	Reveal      []RevealStepView `json:"reveal"`
}

// SpinResponse carries the drawn outcome and the ceremony the client should play before showing it
type SpinResponse struct {
	Outcome domain.Outcome   `json:"outcome"`
	Session session.Snapshot `json:"session"`
	Reveal  []RevealStepView `json:"reveal"`
}

// HandleGetTable lists every outcome with its probability
// @Summary Possible rewards
// @Description Lists the wheel outcomes in table order with their draw probability
// @Tags wheel
// @Produce json
// @Success 200 {object} TableResponse
// @Security ApiKeyAuth
// @Router /api/v1/wheel/table [get]
func (h *WheelHandler) HandleGetTable(w http.ResponseWriter, r *http.Request) {
	outcomes := h.table.Outcomes()
	views := make([]OutcomeView, len(outcomes))
	for i, o := range outcomes {
		p, _ := h.table.Probability(o.ID)
		views[i] = OutcomeView{Outcome: o, Probability: p}
	}

	respondJSON(w, http.StatusOK, TableResponse{
		Outcomes:    views,
		TotalWeight: h.table.TotalWeight(),
		Reveal:      h.steps,
	})
}

// HandleSpin consumes one spin and starts the reveal
// @Summary Spin the wheel
// @Description Draws an outcome, consumes one spin and arms the reveal. Returns 409 with reset_at when no spins remain.
// @Tags wheel
// @Accept json
// @Produce json
// @Param request body UserRequest true "User"
// @Success 200 {object} SpinResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} BudgetExhaustedResponse
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/wheel/spin [post]
func (h *WheelHandler) HandleSpin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest[UserRequest](w, r, OpSpin)
	if !ok {
		return
	}

	ctx := logger.WithUser(r.Context(), req.UserID)
	r = r.WithContext(ctx)

	s, err := h.sessions.Get(req.UserID)
	if err != nil {
		respondServiceError(w, r, OpSpin, err)
		return
	}

	outcome, err := s.Spin(ctx)
	if err != nil {
		respondServiceError(w, r, OpSpin, err)
		return
	}

	respondJSON(w, http.StatusOK, SpinResponse{
		Outcome: outcome,
		Session: s.Snapshot(),
		Reveal:  h.steps,
	})
}

// HandleResetBudget refills a user's spins
// @Summary Reset spin budget
// @Tags wheel
// @Accept json
// @Produce json
// @Param request body UserRequest true "User"
// @Success 200 {object} session.Snapshot
// @Failure 400 {object} ValidationErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/wheel/reset [post]
func (h *WheelHandler) HandleResetBudget(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest[UserRequest](w, r, OpResetBudget)
	if !ok {
		return
	}

	s, err := h.sessions.Get(req.UserID)
	if err != nil {
		respondServiceError(w, r, OpResetBudget, err)
		return
	}

	s.Reset()
	respondJSON(w, http.StatusOK, s.Snapshot())
}

// HandleGetSession returns the user's budget, reveal phase and revealed outcome
// @Summary Session state
// @Tags wheel
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} session.Snapshot
// @Failure 400 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/wheel/session [get]
func (h *WheelHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(w, r)
	if !ok {
		return
	}

	s, err := h.sessions.Get(userID)
	if err != nil {
		respondServiceError(w, r, OpGetSession, err)
		return
	}

	respondJSON(w, http.StatusOK, s.Snapshot())
}

// HandleCloseSession tears down a user's session, cancelling any reveal in progress
// @Summary Close session
// @Description Cancels pending reveal transitions. Spins already consumed stay consumed until the daily reset.
// @Tags wheel
// @Accept json
// @Produce json
// @Param request body UserRequest true "User"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/wheel/close [post]
func (h *WheelHandler) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest[UserRequest](w, r, OpCloseSession)
	if !ok {
		return
	}

	if !h.sessions.Remove(req.UserID) {
		respondError(w, http.StatusNotFound, ErrMsgSessionNotFound)
		return
	}

	logger.FromContext(r.Context()).Info(LogMsgSessionClosed, "user_id", req.UserID)
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSessionClosed})
}
