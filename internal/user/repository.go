package user

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"rygonet-server/internal/shared/database"
	"rygonet-server/internal/shared/errors"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	logger := slog.With("component", "user_repository", "operation", "init")
	logger.Debug("Initializing user repository")
	return &Repository{db: db}
}

func (r *Repository) GetUserCount(ctx context.Context) (int, error) {
	logger := slog.With("component", "user_repository", "operation", "get_count")

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		logger.Error("Failed to get user count", "error", err)
		return 0, fmt.Errorf("failed to get user count: %w", err)
	}

	return count, nil
}

func (r *Repository) CreateUser(ctx context.Context, username, email, displayName string, avatarURL *string, role Role) (*User, error) {
	logger := slog.With(
		"component", "user_repository",
		"operation", "create",
		"username", username,
		"email", email,
	)
	logger.Info("Creating new user")

	query := `
		INSERT INTO users (username, email, display_name, avatar_url, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, username, email, display_name, avatar_url, role, created_at, updated_at
	`

	var user User
	err := r.db.QueryRowContext(ctx, query, username, email, displayName, avatarURL, role).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if database.IsUniqueViolation(err) {
			logger.Warn("User already exists", "error", err)
			return nil, errors.Conflictf("user already exists with email: %s", email)
		}
		logger.Error("Failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User created successfully", "user_id", user.ID, "username", user.Username)
	return &user, nil
}

func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	logger := slog.With(
		"component", "user_repository",
		"operation", "find_by_email",
		"email", email,
	)
	logger.Debug("Finding user by email")

	query := `
		SELECT id, username, email, display_name, avatar_url, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var user User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			logger.Debug("No user found with email")
			return nil, nil
		}
		logger.Error("Database error finding user by email", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &user, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int) (*User, error) {
	logger := slog.With(
		"component", "user_repository",
		"operation", "get_by_id",
		"user_id", id,
	)
	logger.Debug("Getting user by ID")

	query := `
		SELECT id, username, email, display_name, avatar_url, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			logger.Debug("No user found with ID")
			return nil, nil
		}
		logger.Error("Database error getting user by ID", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &user, nil
}

func (r *Repository) UpdateUserRole(ctx context.Context, id int, role Role) error {
	logger := slog.With(
		"component", "user_repository",
		"operation", "update_role",
		"user_id", id,
		"role", role,
	)
	logger.Info("Updating user role")

	query := `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, role, id)
	if err != nil {
		logger.Error("Failed to update user role", "error", err)
		return fmt.Errorf("failed to update user role: %w", err)
	}

	return nil
}
