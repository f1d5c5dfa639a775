package handlers

import (
	"log/slog"
	"net/http"

	"rygonet-server/internal/catalog"
	"rygonet-server/internal/shared/errors"
	"rygonet-server/internal/shared/response"
)

type CatalogHandler struct {
	service *catalog.Service
}

func NewCatalogHandler(service *catalog.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// GetFactions handles GET /api/factions
func (h *CatalogHandler) GetFactions(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_factions")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	factions := h.service.Factions()
	if factions == nil {
		factions = []catalog.Faction{}
	}

	response.Success(w, http.StatusOK, factions)
}

// GetFaction handles GET /api/factions/{id}
func (h *CatalogHandler) GetFaction(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_faction")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	factionID := r.PathValue("id")
	if factionID == "" {
		response.Error(w, r, logger, errors.Validation("faction ID is required"))
		return
	}

	faction, ok := h.service.Faction(factionID)
	if !ok {
		response.Error(w, r, logger, errors.NotFoundf("faction not found with id: %s", factionID))
		return
	}

	response.Success(w, http.StatusOK, faction)
}

// GetUnits handles GET /api/factions/{id}/units
func (h *CatalogHandler) GetUnits(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_faction_units")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	factionID := r.PathValue("id")
	if factionID == "" {
		response.Error(w, r, logger, errors.Validation("faction ID is required"))
		return
	}

	units, ok := h.service.Units(factionID)
	if !ok {
		response.Error(w, r, logger, errors.NotFoundf("faction not found with id: %s", factionID))
		return
	}

	response.Success(w, http.StatusOK, units)
}

// Reload handles POST /api/admin/catalog/reload - Admin only
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "reload_catalog")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	logger.Info("Reloading faction catalog")

	if err := h.service.Reload(); err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to reload catalog", err))
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"reloaded": true,
		"factions": len(h.service.Factions()),
	})
}
