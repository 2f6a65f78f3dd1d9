package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/osse101/rewardwheel/internal/logger"
)

// ValidationErrorResponse lists each rejected field with a readable reason
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// decodeRequest reads a JSON body into T and runs its validate tags. When ok is
// false the 400 response has already been written.
func decodeRequest[T any](w http.ResponseWriter, r *http.Request, op string) (req T, ok bool) {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Undecodable request body", "op", op, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return req, false
	}
	if err := GetValidator().ValidateStruct(req); err != nil {
		log.Debug("Request failed validation", "op", op, "error", err)
		rejectFields(w, FormatValidationError(err))
		return req, false
	}
	return req, true
}

// queryUserID reads and checks the user_id query parameter
func queryUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.URL.Query().Get(FieldUserID)
	if userID == "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingQueryParam, FieldUserID))
		return "", false
	}
	if err := GetValidator().ValidateVar(userID, userIDVarTags); err != nil {
		msgs := FormatValidationError(err)
		// Var errors carry no field name
		rejectFields(w, map[string]string{FieldUserID: msgs[""]})
		return "", false
	}
	return userID, true
}

func rejectFields(w http.ResponseWriter, fields map[string]string) {
	respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Error:  ErrMsgInvalidRequestSummary,
		Fields: fields,
	})
}
