package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"rygonet-server/internal/feedback"
	"rygonet-server/internal/middleware"
	"rygonet-server/internal/shared/errors"
	"rygonet-server/internal/shared/response"
)

type FeedbackHandler struct {
	relay *feedback.Relay
}

func NewFeedbackHandler(relay *feedback.Relay) *FeedbackHandler {
	return &FeedbackHandler{relay: relay}
}

// Submit handles POST /api/feedback
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "submit_feedback")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var submission feedback.Submission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	// Attach the reporter's email when logged in and not supplied.
	if claims := middleware.GetUserFromContext(r); claims != nil && submission.UserEmail == "" {
		submission.UserEmail = claims.Email
	}

	confirmation, err := h.relay.Submit(r.Context(), &submission)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusAccepted, confirmation)
}
