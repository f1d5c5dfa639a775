package middleware

import (
	"log/slog"
	"net/http"

	"rygonet-server/internal/shared/database"
	"rygonet-server/internal/shared/errors"
	"rygonet-server/internal/shared/response"

	"github.com/google/uuid"
)

// RosterAccessMiddleware gates mutations on roster ownership. Read access
// to shared rosters goes through the share endpoints instead, so every
// route behind this check requires the owner.
type RosterAccessMiddleware struct {
	db *database.DB
}

func NewRosterAccessMiddleware(db *database.DB) *RosterAccessMiddleware {
	return &RosterAccessMiddleware{db: db}
}

func (m *RosterAccessMiddleware) Require(next http.Handler) http.Handler {
	return JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "roster_access",
			"method", r.Method,
			"path", r.URL.Path,
		)

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		rosterID := r.PathValue("id")
		if rosterID == "" {
			response.Error(w, r, logger, errors.Validation("roster ID is required"))
			return
		}

		if _, err := uuid.Parse(rosterID); err != nil {
			response.Error(w, r, logger, errors.WrapValidation("invalid roster ID format", err))
			return
		}

		var ownerID int
		err := m.db.QueryRowContext(r.Context(),
			`SELECT user_id FROM rosters WHERE id = $1`, rosterID,
		).Scan(&ownerID)
		if err != nil {
			response.Error(w, r, logger, errors.NotFoundf("roster not found with id: %s", rosterID))
			return
		}

		if ownerID != claims.UserID && claims.Role != "admin" {
			logger.Warn("User attempted to access another user's roster",
				"user_id", claims.UserID,
				"owner_id", ownerID,
				"roster_id", rosterID)
			response.Error(w, r, logger, errors.NotFoundf("roster not found with id: %s", rosterID))
			return
		}

		next.ServeHTTP(w, r)
	}))
}
