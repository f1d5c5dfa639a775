package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"rygonet-server/internal/shared/database"
	"rygonet-server/internal/shared/errors"
)

// Repository stores each roster as a whole JSONB document next to the
// columns list queries need. Every write replaces the document; the read
// path normalizes it so rosters stored before groups and relationships
// existed upgrade transparently.
type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	logger := slog.With("component", "roster_repository", "operation", "init")
	logger.Debug("Initializing roster repository")
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, roster *Roster) error {
	logger := slog.With(
		"component", "roster_repository",
		"operation", "create",
		"roster_id", roster.ID,
		"user_id", roster.UserID,
	)
	logger.Debug("Creating roster")

	document, err := json.Marshal(roster)
	if err != nil {
		logger.Error("Failed to serialize roster document", "error", err)
		return fmt.Errorf("failed to serialize roster: %w", err)
	}

	query := `
		INSERT INTO rosters (id, user_id, name, faction_id, points_limit, edit_mode, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		roster.ID,
		roster.UserID,
		roster.Name,
		roster.FactionID,
		roster.PointsLimit,
		roster.EditMode,
		document,
		roster.CreatedAt,
		roster.UpdatedAt,
	)
	if err != nil {
		logger.Error("Failed to create roster", "error", err)
		return fmt.Errorf("failed to create roster: %w", err)
	}

	logger.Info("Roster created")
	return nil
}

func (r *Repository) Get(ctx context.Context, rosterID string) (*Roster, error) {
	logger := slog.With("component", "roster_repository", "operation", "get", "roster_id", rosterID)
	logger.Debug("Getting roster")

	query := `SELECT document FROM rosters WHERE id = $1`

	var document []byte
	err := r.db.QueryRowContext(ctx, query, rosterID).Scan(&document)
	if err != nil {
		if err == sql.ErrNoRows {
			logger.Debug("Roster not found")
			return nil, errors.NotFoundf("roster not found with id: %s", rosterID)
		}
		logger.Error("Database error getting roster", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	roster, err := decodeDocument(document)
	if err != nil {
		logger.Error("Failed to decode roster document", "error", err)
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}

	return roster, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int) ([]Roster, error) {
	logger := slog.With("component", "roster_repository", "operation", "list_by_user", "user_id", userID)
	logger.Debug("Listing rosters")

	query := `SELECT document FROM rosters WHERE user_id = $1 ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.Error("Database error listing rosters", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	rosters := []Roster{}
	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document); err != nil {
			logger.Error("Failed to scan roster row", "error", err)
			return nil, fmt.Errorf("failed to scan roster: %w", err)
		}

		roster, err := decodeDocument(document)
		if err != nil {
			logger.Error("Failed to decode roster document", "error", err)
			return nil, fmt.Errorf("failed to decode roster: %w", err)
		}
		rosters = append(rosters, *roster)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	logger.Debug("Rosters listed", "count", len(rosters))
	return rosters, nil
}

// Update rewrites the whole document, inserting if the id is new. Saving
// is an upsert keyed by roster id.
func (r *Repository) Update(ctx context.Context, roster *Roster) error {
	logger := slog.With("component", "roster_repository", "operation", "update", "roster_id", roster.ID)
	logger.Debug("Updating roster")

	document, err := json.Marshal(roster)
	if err != nil {
		logger.Error("Failed to serialize roster document", "error", err)
		return fmt.Errorf("failed to serialize roster: %w", err)
	}

	query := `
		INSERT INTO rosters (id, user_id, name, faction_id, points_limit, edit_mode, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			faction_id = EXCLUDED.faction_id,
			points_limit = EXCLUDED.points_limit,
			edit_mode = EXCLUDED.edit_mode,
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		roster.ID,
		roster.UserID,
		roster.Name,
		roster.FactionID,
		roster.PointsLimit,
		roster.EditMode,
		document,
		roster.CreatedAt,
		roster.UpdatedAt,
	)
	if err != nil {
		logger.Error("Failed to update roster", "error", err)
		return fmt.Errorf("failed to update roster: %w", err)
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, rosterID string) error {
	logger := slog.With("component", "roster_repository", "operation", "delete", "roster_id", rosterID)
	logger.Info("Deleting roster")

	result, err := r.db.ExecContext(ctx, `DELETE FROM rosters WHERE id = $1`, rosterID)
	if err != nil {
		logger.Error("Failed to delete roster", "error", err)
		return fmt.Errorf("failed to delete roster: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return errors.NotFoundf("roster not found with id: %s", rosterID)
	}

	return nil
}

func decodeDocument(document []byte) (*Roster, error) {
	var roster Roster
	if err := json.Unmarshal(document, &roster); err != nil {
		return nil, err
	}
	roster.Normalize()
	return &roster, nil
}
