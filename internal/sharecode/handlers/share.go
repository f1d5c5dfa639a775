package handlers

import (
	"log/slog"
	"net/http"

	"rygonet-server/internal/middleware"
	"rygonet-server/internal/roster"
	"rygonet-server/internal/sharecode"
	"rygonet-server/internal/shared/errors"
	"rygonet-server/internal/shared/response"
)

type ShareHandler struct {
	shares  *sharecode.Service
	rosters *roster.Service
}

func NewShareHandler(shares *sharecode.Service, rosters *roster.Service) *ShareHandler {
	return &ShareHandler{
		shares:  shares,
		rosters: rosters,
	}
}

// Publish handles POST /api/rosters/{id}/share
func (h *ShareHandler) Publish(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "publish_share")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	owned, err := h.rosters.Get(r.Context(), claims.UserID, r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	link, err := h.shares.Publish(r.Context(), owned)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, link)
}

// Resolve handles GET /api/shared/{code}. Public: anyone with the link can
// view the shared roster.
func (h *ShareHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "resolve_share")

	code := r.PathValue("code")
	if code == "" {
		response.Error(w, r, logger, errors.Validation("share code is required"))
		return
	}

	shared, err := h.shares.Resolve(r.Context(), code)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, shared)
}

// Clone handles POST /api/shared/{code}/clone. The caller receives an
// owned, locked copy of the shared roster.
func (h *ShareHandler) Clone(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "clone_share")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	code := r.PathValue("code")
	if code == "" {
		response.Error(w, r, logger, errors.Validation("share code is required"))
		return
	}

	shared, err := h.shares.Resolve(r.Context(), code)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	clone, err := h.rosters.Clone(r.Context(), claims.UserID, shared)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, clone)
}
