package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mealmind-inc/mealmind-engine/pkg/models"
)

func TestLocalEntryRepository_SaveAndListByDay(t *testing.T) {
	repo, err := NewLocalEntryRepository(":memory:")
	require.NoError(t, err)

	ctx := context.Background()
	owner := uuid.New()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	protein := 20.0
	lunch := models.MealLunch
	entry := &models.FoodEntry{
		OwnerID:    owner,
		Name:       "chicken sandwich",
		Calories:   450,
		Protein:    &protein,
		Confidence: 0.85,
		Source:     models.SourceCommonFood,
		MealType:   &lunch,
		LoggedAt:   day.Add(12 * time.Hour),
	}
	require.NoError(t, repo.Save(ctx, entry))
	require.NotEqual(t, uuid.Nil, entry.ID)

	burned := &models.FoodEntry{
		OwnerID:    owner,
		Name:       "30 min walk",
		Calories:   -120,
		Confidence: 0.5,
		Source:     models.SourceUserDescribed,
		LoggedAt:   day.Add(18 * time.Hour),
	}
	require.NoError(t, repo.Save(ctx, burned))

	got, err := repo.ListByDay(ctx, owner, day)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, "chicken sandwich", got[0].Name)
	require.Equal(t, 450, got[0].Calories)
	require.NotNil(t, got[0].Protein)
	require.Equal(t, 20.0, *got[0].Protein)
	require.NotNil(t, got[0].MealType)
	require.Equal(t, models.MealLunch, *got[0].MealType)

	require.Equal(t, -120, got[1].Calories)
	require.Nil(t, got[1].MealType)
}

func TestLocalEntryRepository_ListByDayExcludesOtherDaysAndOwners(t *testing.T) {
	repo, err := NewLocalEntryRepository(":memory:")
	require.NoError(t, err)

	ctx := context.Background()
	owner := uuid.New()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	save := func(ownerID uuid.UUID, at time.Time) {
		t.Helper()
		require.NoError(t, repo.Save(ctx, &models.FoodEntry{
			OwnerID:    ownerID,
			Name:       "apple",
			Calories:   95,
			Confidence: 0.75,
			Source:     models.SourceCommonFood,
			LoggedAt:   at,
		}))
	}

	save(owner, day.Add(8*time.Hour))
	save(owner, day.Add(-time.Minute))    // previous day
	save(owner, day.Add(24*time.Hour))    // next day
	save(uuid.New(), day.Add(8*time.Hour)) // different owner

	got, err := repo.ListByDay(ctx, owner, day)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
