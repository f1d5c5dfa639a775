package handlers

import (
	"log/slog"
	"net/http"

	"rygonet-server/internal/catalog"
	"rygonet-server/internal/shared/errors"
	"rygonet-server/internal/shared/response"
	"rygonet-server/internal/user"
)

type StatusResponse struct {
	Service         string `json:"service"`
	Factions        int    `json:"factions"`
	RegisteredUsers int    `json:"registered_users"`
}

type StatusHandler struct {
	userService    *user.Service
	catalogService *catalog.Service
}

func NewStatusHandler(userService *user.Service, catalogService *catalog.Service) *StatusHandler {
	return &StatusHandler{
		userService:    userService,
		catalogService: catalogService,
	}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "status")

	userCount, err := h.userService.GetUserCount(ctx)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to get user count", err))
		return
	}

	resp := StatusResponse{
		Service:         "Rygonet",
		Factions:        len(h.catalogService.Factions()),
		RegisteredUsers: userCount,
	}

	response.Success(w, http.StatusOK, resp)
}
