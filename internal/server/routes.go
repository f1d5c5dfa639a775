package server

import (
	"log/slog"
	"net/http"

	"rygonet-server/internal/auth"
	authHandlers "rygonet-server/internal/auth/handlers"
	"rygonet-server/internal/catalog"
	catalogHandlers "rygonet-server/internal/catalog/handlers"
	"rygonet-server/internal/feedback"
	feedbackHandlers "rygonet-server/internal/feedback/handlers"
	"rygonet-server/internal/middleware"
	"rygonet-server/internal/roster"
	rosterHandlers "rygonet-server/internal/roster/handlers"
	"rygonet-server/internal/sharecode"
	shareHandlers "rygonet-server/internal/sharecode/handlers"
	serverHandlers "rygonet-server/internal/server/handlers"
	"rygonet-server/internal/shared/database"
	"rygonet-server/internal/user"
	userHandlers "rygonet-server/internal/user/handlers"
)

type Routes struct {
	db             *database.DB
	userService    *user.Service
	authService    *auth.Service
	catalogService *catalog.Service
	rosterService  *roster.Service
	shareService   *sharecode.Service
	feedbackRelay  *feedback.Relay
	oauthConfig    *auth.OAuthConfig
	logger         *slog.Logger
}

func NewRoutes(
	db *database.DB,
	userService *user.Service,
	authService *auth.Service,
	catalogService *catalog.Service,
	rosterService *roster.Service,
	shareService *sharecode.Service,
	feedbackRelay *feedback.Relay,
	oauthConfig *auth.OAuthConfig,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		db:             db,
		userService:    userService,
		authService:    authService,
		catalogService: catalogService,
		rosterService:  rosterService,
		shareService:   shareService,
		feedbackRelay:  feedbackRelay,
		oauthConfig:    oauthConfig,
		logger:         logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db)
	statusHandler := serverHandlers.NewStatusHandler(r.userService, r.catalogService)
	meHandler := userHandlers.NewMeHandler()
	logoutHandler := authHandlers.NewLogoutHandler()

	catalogHandler := catalogHandlers.NewCatalogHandler(r.catalogService)
	rosterHandler := rosterHandlers.NewRosterHandler(r.rosterService)
	shareHandler := shareHandlers.NewShareHandler(r.shareService, r.rosterService)
	feedbackHandler := feedbackHandlers.NewFeedbackHandler(r.feedbackRelay)

	googleAuthHandler := authHandlers.NewOAuthHandler(
		r.oauthConfig.GoogleProvider,
		r.userService,
		r.authService,
		r.oauthConfig.GoogleConfigured,
	)
	discordAuthHandler := authHandlers.NewOAuthHandler(
		r.oauthConfig.DiscordProvider,
		r.userService,
		r.authService,
		r.oauthConfig.DiscordConfigured,
	)

	rosterAccess := middleware.NewRosterAccessMiddleware(r.db)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.Handle("/api/server/status", statusHandler)
	mux.HandleFunc("/api/factions", catalogHandler.GetFactions)
	mux.HandleFunc("/api/factions/{id}", catalogHandler.GetFaction)
	mux.HandleFunc("/api/factions/{id}/units", catalogHandler.GetUnits)
	mux.HandleFunc("GET /api/shared/{code}", shareHandler.Resolve)
	mux.HandleFunc("/api/feedback", feedbackHandler.Submit)

	// Protected endpoints (authenticated users)
	mux.Handle("/api/users/me", middleware.JWTMiddleware(meHandler))
	mux.Handle("POST /api/rosters", middleware.JWTMiddleware(http.HandlerFunc(rosterHandler.Create)))
	mux.Handle("GET /api/rosters", middleware.JWTMiddleware(http.HandlerFunc(rosterHandler.List)))
	mux.Handle("POST /api/shared/{code}/clone", middleware.JWTMiddleware(http.HandlerFunc(shareHandler.Clone)))

	// Roster endpoints (authenticated + ownership check)
	mux.Handle("GET /api/rosters/{id}", rosterAccess.Require(http.HandlerFunc(rosterHandler.Get)))
	mux.Handle("PATCH /api/rosters/{id}", rosterAccess.Require(http.HandlerFunc(rosterHandler.UpdateMeta)))
	mux.Handle("DELETE /api/rosters/{id}", rosterAccess.Require(http.HandlerFunc(rosterHandler.Delete)))
	mux.Handle("POST /api/rosters/{id}/edit", rosterAccess.Require(http.HandlerFunc(rosterHandler.EnterEdit)))
	mux.Handle("POST /api/rosters/{id}/save", rosterAccess.Require(http.HandlerFunc(rosterHandler.Save)))
	mux.Handle("POST /api/rosters/{id}/entries", rosterAccess.Require(http.HandlerFunc(rosterHandler.AddEntry)))
	mux.Handle("PATCH /api/rosters/{id}/entries/{entryID}", rosterAccess.Require(http.HandlerFunc(rosterHandler.UpdateEntry)))
	mux.Handle("DELETE /api/rosters/{id}/entries/{entryID}", rosterAccess.Require(http.HandlerFunc(rosterHandler.RemoveEntry)))
	mux.Handle("GET /api/rosters/{id}/entries/{entryID}/carriers", rosterAccess.Require(http.HandlerFunc(rosterHandler.GetCarrierCandidates)))
	mux.Handle("POST /api/rosters/{id}/groups", rosterAccess.Require(http.HandlerFunc(rosterHandler.AddGroup)))
	mux.Handle("PATCH /api/rosters/{id}/groups/{groupID}", rosterAccess.Require(http.HandlerFunc(rosterHandler.RenameGroup)))
	mux.Handle("DELETE /api/rosters/{id}/groups/{groupID}", rosterAccess.Require(http.HandlerFunc(rosterHandler.RemoveGroup)))
	mux.Handle("POST /api/rosters/{id}/groups/{groupID}/toggle", rosterAccess.Require(http.HandlerFunc(rosterHandler.ToggleGroupCollapsed)))
	mux.Handle("GET /api/rosters/{id}/validation", rosterAccess.Require(http.HandlerFunc(rosterHandler.GetValidation)))
	mux.Handle("POST /api/rosters/{id}/share", rosterAccess.Require(http.HandlerFunc(shareHandler.Publish)))

	// Admin-only endpoints (authenticated + admin role)
	mux.Handle("/api/admin/catalog/reload", middleware.RequireAdmin(http.HandlerFunc(catalogHandler.Reload)))

	// OAuth endpoints
	mux.HandleFunc("/auth/google", googleAuthHandler.HandleAuth)
	mux.HandleFunc("/auth/google/callback", googleAuthHandler.HandleCallback)
	mux.HandleFunc("/auth/discord", discordAuthHandler.HandleAuth)
	mux.HandleFunc("/auth/discord/callback", discordAuthHandler.HandleCallback)
	mux.Handle("/auth/logout", logoutHandler)

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/server/status", "/api/factions", "/api/shared", "/api/feedback"},
		"protected_endpoints", []string{"/api/users/me", "/api/rosters"},
		"admin_endpoints", []string{"/api/admin/catalog/reload"},
		"auth_endpoints", []string{"/auth/google", "/auth/discord", "/auth/logout"},
	)

	return mux
}
