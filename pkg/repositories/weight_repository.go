package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mealmind-inc/mealmind-engine/pkg/apperrors"
	"github.com/mealmind-inc/mealmind-engine/pkg/database"
	"github.com/mealmind-inc/mealmind-engine/pkg/models"
)

// WeightRepository provides data access for body weight records.
type WeightRepository interface {
	Save(ctx context.Context, entry *models.WeightEntry) error
	// Latest returns the most recent record for the owner, or
	// apperrors.ErrNotFound when none exists.
	Latest(ctx context.Context, ownerID uuid.UUID) (*models.WeightEntry, error)
}

type weightRepository struct {
	db *database.DB
}

// NewWeightRepository creates a new WeightRepository backed by Postgres.
func NewWeightRepository(db *database.DB) WeightRepository {
	return &weightRepository{db: db}
}

var _ WeightRepository = (*weightRepository)(nil)

func (r *weightRepository) Save(ctx context.Context, entry *models.WeightEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO weight_entries (id, owner_id, kilograms, logged_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, entry.ID, entry.OwnerID, entry.Kilogram, entry.LoggedAt)
	if err != nil {
		return fmt.Errorf("failed to save weight entry: %w", err)
	}
	return nil
}

func (r *weightRepository) Latest(ctx context.Context, ownerID uuid.UUID) (*models.WeightEntry, error) {
	query := `
		SELECT id, owner_id, kilograms, logged_at
		FROM weight_entries
		WHERE owner_id = $1
		ORDER BY logged_at DESC
		LIMIT 1`

	var entry models.WeightEntry
	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&entry.ID, &entry.OwnerID, &entry.Kilogram, &entry.LoggedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load latest weight entry: %w", err)
	}
	return &entry, nil
}
