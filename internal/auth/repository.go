package auth

import (
	"context"
	"database/sql"

	"rygonet-server/internal/shared/database"
	"rygonet-server/internal/shared/errors"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateAuthProvider(ctx context.Context, userID int, provider, providerUserID, providerEmail string) error {
	query := `
		INSERT INTO auth_providers (user_id, provider, provider_user_id, provider_email)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, userID, provider, providerUserID, providerEmail)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errors.Conflictf("identity already linked for provider: %s", provider)
		}
		return errors.WrapInternal("failed to create auth provider", err)
	}

	return nil
}

func (r *Repository) FindUserByAuthProvider(ctx context.Context, provider, providerUserID string) (int, error) {
	query := `
		SELECT user_id
		FROM auth_providers
		WHERE provider = $1 AND provider_user_id = $2
	`

	var userID int
	err := r.db.QueryRowContext(ctx, query, provider, providerUserID).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, errors.NotFoundf("user not found for auth provider: %s", provider)
		}
		return 0, errors.WrapInternal("failed to find user by auth provider", err)
	}

	return userID, nil
}
