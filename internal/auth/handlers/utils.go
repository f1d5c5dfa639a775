package handlers

import (
	"fmt"
	"net/http"

	"rygonet-server/internal/shared/config"
)

// resolveRedirectURI only honors redirect targets on the configured
// frontend origin; anything else falls back to the frontend URL.
func resolveRedirectURI(requested string) string {
	cfg := config.GlobalConfig
	if requested == "" {
		return cfg.Frontend.URL
	}
	if len(requested) >= len(cfg.Frontend.URL) && requested[:len(cfg.Frontend.URL)] == cfg.Frontend.URL {
		return requested
	}
	return cfg.Frontend.URL
}

// redirectWithError redirects to the frontend with an error code
func redirectWithError(w http.ResponseWriter, r *http.Request, redirectURI, errorType string) {
	if redirectURI == "" {
		redirectURI = config.GlobalConfig.Frontend.URL
	}
	errorURL := fmt.Sprintf("%s/auth/error?error=%s", redirectURI, errorType)

	http.Redirect(w, r, errorURL, http.StatusTemporaryRedirect)
}
