package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mealmind-inc/mealmind-engine/pkg/database"
	"github.com/mealmind-inc/mealmind-engine/pkg/models"
)

// EntryRepository provides data access for nutrition ledger entries.
// Exercise rows are ordinary entries with negative calories.
type EntryRepository interface {
	Save(ctx context.Context, entry *models.FoodEntry) error
	ListByDay(ctx context.Context, ownerID uuid.UUID, day time.Time) ([]*models.FoodEntry, error)
}

type entryRepository struct {
	db *database.DB
}

// NewEntryRepository creates a new EntryRepository backed by Postgres.
func NewEntryRepository(db *database.DB) EntryRepository {
	return &entryRepository{db: db}
}

var _ EntryRepository = (*entryRepository)(nil)

func (r *entryRepository) Save(ctx context.Context, entry *models.FoodEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now().UTC()
	}

	var mealType *string
	if entry.MealType != nil {
		mt := string(*entry.MealType)
		mealType = &mt
	}

	query := `
		INSERT INTO food_entries (
			id, owner_id, name, calories, protein, carbs, fat,
			confidence, source, meal_type, logged_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.OwnerID, entry.Name, entry.Calories,
		entry.Protein, entry.Carbs, entry.Fat,
		entry.Confidence, string(entry.Source), mealType, entry.LoggedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save food entry: %w", err)
	}
	return nil
}

func (r *entryRepository) ListByDay(ctx context.Context, ownerID uuid.UUID, day time.Time) ([]*models.FoodEntry, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	query := `
		SELECT id, owner_id, name, calories, protein, carbs, fat,
		       confidence, source, meal_type, logged_at
		FROM food_entries
		WHERE owner_id = $1 AND logged_at >= $2 AND logged_at < $3
		ORDER BY logged_at ASC`

	rows, err := r.db.Query(ctx, query, ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list food entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.FoodEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate food entries: %w", err)
	}
	return entries, nil
}

func scanEntry(row pgx.Row) (*models.FoodEntry, error) {
	var entry models.FoodEntry
	var source string
	var mealType *string

	err := row.Scan(
		&entry.ID, &entry.OwnerID, &entry.Name, &entry.Calories,
		&entry.Protein, &entry.Carbs, &entry.Fat,
		&entry.Confidence, &source, &mealType, &entry.LoggedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan food entry: %w", err)
	}

	entry.Source = models.ConfidenceSource(source)
	if mealType != nil {
		mt := models.MealType(*mealType)
		entry.MealType = &mt
	}
	return &entry, nil
}
