package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"rygonet-server/internal/shared/config"
	"rygonet-server/internal/shared/errors"
)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing user service")

	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetUserCount(ctx context.Context) (int, error) {
	return s.repo.GetUserCount(ctx)
}

func (s *Service) GetUserByID(ctx context.Context, id int) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NotFoundf("user %d not found", id)
	}
	return user, nil
}

// FindOrCreateUserByOAuth looks up a user by the email an OAuth provider
// reported, creating the account on first login. The configured admin
// email is promoted to the admin role on every login.
func (s *Service) FindOrCreateUserByOAuth(ctx context.Context, provider, providerUserID, email, displayName string, avatarURL *string) (*User, error) {
	logger := s.logger.With(
		"component", "user_service",
		"operation", "find_or_create_oauth",
		"provider", provider,
		"email", email,
	)
	logger.Debug("Finding or creating user by OAuth")

	cfg := config.GlobalConfig
	isAdminEmail := cfg != nil && cfg.Admin.Email != "" && email == cfg.Admin.Email

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		logger.Error("Database error checking for user by email", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user != nil {
		logger.Info("Found existing user by email", "user_id", user.ID, "role", user.Role)
		if isAdminEmail && user.Role != RoleAdmin {
			logger.Info("Upgrading existing user to admin role", "user_id", user.ID)
			if err := s.repo.UpdateUserRole(ctx, user.ID, RoleAdmin); err != nil {
				logger.Error("Failed to upgrade user to admin", "error", err)
				return nil, fmt.Errorf("failed to upgrade to admin: %w", err)
			}
			user.Role = RoleAdmin
		}
		return user, nil
	}

	logger.Info("No existing user found, creating new user with OAuth provider")
	username := generateUsernameFromEmail(email)
	role := RoleUser
	if isAdminEmail {
		role = RoleAdmin
		logger.Info("Creating new admin user via OAuth")
	}
	if displayName == "" {
		displayName = username
	}

	user, err = s.repo.CreateUser(ctx, username, email, displayName, avatarURL, role)
	if err != nil {
		logger.Error("Failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("Successfully created new user with OAuth",
		"user_id", user.ID,
		"username", user.Username,
		"role", user.Role,
		"provider", provider)

	return user, nil
}

func generateUsernameFromEmail(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return "commander"
}
