package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"rygonet-server/internal/middleware"
	"rygonet-server/internal/roster"
	"rygonet-server/internal/shared/errors"
	"rygonet-server/internal/shared/response"
)

type RosterHandler struct {
	service *roster.Service
}

func NewRosterHandler(service *roster.Service) *RosterHandler {
	return &RosterHandler{service: service}
}

type createRosterRequest struct {
	Name        string `json:"name"`
	FactionID   string `json:"faction_id"`
	PointsLimit int    `json:"points_limit"`
}

type updateRosterRequest struct {
	Name        *string `json:"name"`
	PointsLimit *int    `json:"points_limit"`
}

type addEntryRequest struct {
	UnitID string `json:"unit_id"`
	Count  int    `json:"count"`
}

type relationshipRequest struct {
	Clear   bool   `json:"clear"`
	Kind    string `json:"kind"`
	Carrier string `json:"carrier"`
}

type updateEntryRequest struct {
	Count        *int                 `json:"count"`
	CustomName   *string              `json:"custom_name"`
	Options      *[]int               `json:"options"`
	GroupID      *string              `json:"group_id"`
	Relationship *relationshipRequest `json:"relationship"`
}

type groupRequest struct {
	Name string `json:"name"`
}

func requireClaims(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int, bool) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return 0, false
	}
	return claims.UserID, true
}

// Create handles POST /api/rosters
func (h *RosterHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_roster")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	var req createRosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	created, err := h.service.Create(r.Context(), userID, req.Name, req.FactionID, req.PointsLimit)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

// List handles GET /api/rosters
func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_rosters")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	rosters, err := h.service.List(r.Context(), userID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if rosters == nil {
		rosters = []roster.Roster{}
	}

	response.Success(w, http.StatusOK, rosters)
}

// Get handles GET /api/rosters/{id}
func (h *RosterHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_roster")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	found, err := h.service.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, found)
}

// UpdateMeta handles PATCH /api/rosters/{id}
func (h *RosterHandler) UpdateMeta(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "update_roster")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	var req updateRosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	updated, err := h.service.UpdateMeta(r.Context(), userID, r.PathValue("id"), req.Name, req.PointsLimit)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/rosters/{id}
func (h *RosterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "delete_roster")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// EnterEdit handles POST /api/rosters/{id}/edit
func (h *RosterHandler) EnterEdit(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "enter_edit")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	updated, err := h.service.EnterEdit(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}

// Save handles POST /api/rosters/{id}/save
func (h *RosterHandler) Save(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "save_roster")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	updated, err := h.service.Save(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}

// AddEntry handles POST /api/rosters/{id}/entries
func (h *RosterHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "add_entry")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	var req addEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	updated, err := h.service.AddEntry(r.Context(), userID, r.PathValue("id"), req.UnitID, req.Count)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}

// UpdateEntry handles PATCH /api/rosters/{id}/entries/{entryID}
func (h *RosterHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "update_entry")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	var req updateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	patch := roster.EntryPatch{
		Count:      req.Count,
		CustomName: req.CustomName,
		Options:    req.Options,
		GroupID:    req.GroupID,
	}
	if req.Relationship != nil {
		patch.Relationship = &roster.RelationshipPatch{
			Clear:   req.Relationship.Clear,
			Kind:    roster.RelationKind(req.Relationship.Kind),
			Carrier: req.Relationship.Carrier,
		}
	}

	updated, err := h.service.UpdateEntry(r.Context(), userID, r.PathValue("id"), r.PathValue("entryID"), patch)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}

// RemoveEntry handles DELETE /api/rosters/{id}/entries/{entryID}
func (h *RosterHandler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "remove_entry")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	updated, err := h.service.RemoveEntry(r.Context(), userID, r.PathValue("id"), r.PathValue("entryID"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}

// GetCarrierCandidates handles GET /api/rosters/{id}/entries/{entryID}/carriers
func (h *RosterHandler) GetCarrierCandidates(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_carrier_candidates")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	candidates, err := h.service.Candidates(r.Context(), userID, r.PathValue("id"), r.PathValue("entryID"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if candidates == nil {
		candidates = []roster.CarrierOption{}
	}

	response.Success(w, http.StatusOK, candidates)
}

// AddGroup handles POST /api/rosters/{id}/groups
func (h *RosterHandler) AddGroup(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "add_group")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	updated, err := h.service.AddGroup(r.Context(), userID, r.PathValue("id"), req.Name)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}

// RenameGroup handles PATCH /api/rosters/{id}/groups/{groupID}
func (h *RosterHandler) RenameGroup(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "rename_group")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	updated, err := h.service.RenameGroup(r.Context(), userID, r.PathValue("id"), r.PathValue("groupID"), req.Name)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}

// RemoveGroup handles DELETE /api/rosters/{id}/groups/{groupID}
func (h *RosterHandler) RemoveGroup(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "remove_group")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	updated, err := h.service.RemoveGroup(r.Context(), userID, r.PathValue("id"), r.PathValue("groupID"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}

// ToggleGroupCollapsed handles POST /api/rosters/{id}/groups/{groupID}/toggle
func (h *RosterHandler) ToggleGroupCollapsed(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "toggle_group_collapsed")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	updated, err := h.service.ToggleGroupCollapsed(r.Context(), userID, r.PathValue("id"), r.PathValue("groupID"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}

// GetValidation handles GET /api/rosters/{id}/validation
func (h *RosterHandler) GetValidation(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_validation")

	userID, ok := requireClaims(w, r, logger)
	if !ok {
		return
	}

	validation, err := h.service.Validate(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, validation)
}
