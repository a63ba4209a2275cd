package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mealmind-inc/mealmind-engine/pkg/models"
)

const localSchema = `
CREATE TABLE IF NOT EXISTS food_entries (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	calories INTEGER NOT NULL,
	protein REAL,
	carbs REAL,
	fat REAL,
	confidence REAL NOT NULL,
	source TEXT NOT NULL,
	meal_type TEXT,
	logged_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_food_entries_owner_day ON food_entries(owner_id, logged_at);`

// localEntryRepository is the on-disk fallback ledger used when the primary
// database is unreachable. Rows written here are synced out of band.
type localEntryRepository struct {
	db *sql.DB
}

// NewLocalEntryRepository opens (and if needed creates) a SQLite fallback
// ledger at path. Use ":memory:" for an ephemeral store.
func NewLocalEntryRepository(path string) (EntryRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local ledger: %w", err)
	}
	if _, err := db.Exec(localSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize local ledger schema: %w", err)
	}
	return &localEntryRepository{db: db}, nil
}

var _ EntryRepository = (*localEntryRepository)(nil)

func (r *localEntryRepository) Save(ctx context.Context, entry *models.FoodEntry) error {
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
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID.String(), entry.OwnerID.String(), entry.Name, entry.Calories,
		entry.Protein, entry.Carbs, entry.Fat,
		entry.Confidence, string(entry.Source), mealType,
		entry.LoggedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save food entry locally: %w", err)
	}
	return nil
}

func (r *localEntryRepository) ListByDay(ctx context.Context, ownerID uuid.UUID, day time.Time) ([]*models.FoodEntry, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	query := `
		SELECT id, owner_id, name, calories, protein, carbs, fat,
		       confidence, source, meal_type, logged_at
		FROM food_entries
		WHERE owner_id = ? AND logged_at >= ? AND logged_at < ?
		ORDER BY logged_at ASC`

	rows, err := r.db.QueryContext(ctx, query,
		ownerID.String(),
		start.Format(time.RFC3339Nano),
		end.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list local food entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.FoodEntry
	for rows.Next() {
		var entry models.FoodEntry
		var id, owner, source, loggedAt string
		var mealType *string

		err := rows.Scan(
			&id, &owner, &entry.Name, &entry.Calories,
			&entry.Protein, &entry.Carbs, &entry.Fat,
			&entry.Confidence, &source, &mealType, &loggedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan local food entry: %w", err)
		}

		if entry.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse local entry id: %w", err)
		}
		if entry.OwnerID, err = uuid.Parse(owner); err != nil {
			return nil, fmt.Errorf("failed to parse local entry owner: %w", err)
		}
		if entry.LoggedAt, err = time.Parse(time.RFC3339Nano, loggedAt); err != nil {
			return nil, fmt.Errorf("failed to parse local entry timestamp: %w", err)
		}
		entry.Source = models.ConfidenceSource(source)
		if mealType != nil {
			mt := models.MealType(*mealType)
			entry.MealType = &mt
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate local food entries: %w", err)
	}
	return entries, nil
}

// Close releases the underlying database handle.
func (r *localEntryRepository) Close() error {
	return r.db.Close()
}
