package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shawnrushefsky/dmcp/internal/game/world"
	"github.com/shawnrushefsky/dmcp/internal/storage/postgres"
	"github.com/shawnrushefsky/dmcp/internal/testutil"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func setupGameRepo(t *testing.T) *postgres.GameRepository {
	t.Helper()
	return postgres.NewGameRepository(testutil.NewPool(t))
}

func TestGameRepository_Create(t *testing.T) {
	repo := setupGameRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &world.Game{
		Name:    uniqueName("game"),
		Setting: "A rain-soaked frontier of drowned kingdoms.",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "A rain-soaked frontier of drowned kingdoms.", created.Setting)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
}

func TestGameRepository_GetByID(t *testing.T) {
	repo := setupGameRepo(t)
	ctx := context.Background()

	name := uniqueName("game")
	created, err := repo.Create(ctx, &world.Game{Name: name})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, name, got.Name)
}

func TestGameRepository_GetByID_NotFound(t *testing.T) {
	repo := setupGameRepo(t)
	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, postgres.ErrGameNotFound)
}

func TestGameRepository_List(t *testing.T) {
	repo := setupGameRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, &world.Game{Name: uniqueName("first")})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &world.Game{Name: uniqueName("second")})
	require.NoError(t, err)

	games, err := repo.List(ctx)
	require.NoError(t, err)

	// The pool is shared across tests, so check relative order rather
	// than absolute positions.
	firstIdx, secondIdx := -1, -1
	for i, g := range games {
		switch g.ID {
		case first.ID:
			firstIdx = i
		case second.ID:
			secondIdx = i
		}
	}
	require.NotEqual(t, -1, firstIdx)
	require.NotEqual(t, -1, secondIdx)
	assert.Less(t, firstIdx, secondIdx)
}

func TestGameRepository_Delete(t *testing.T) {
	repo := setupGameRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &world.Game{Name: uniqueName("doomed")})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, postgres.ErrGameNotFound)
}

func TestGameRepository_Delete_NotFound(t *testing.T) {
	repo := setupGameRepo(t)
	err := repo.Delete(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, postgres.ErrGameNotFound)
}

func TestGameRepository_Delete_CascadesLocations(t *testing.T) {
	pool := testutil.NewPool(t)
	games := postgres.NewGameRepository(pool)
	locs := postgres.NewLocationRepository(pool)
	ctx := context.Background()

	g, err := games.Create(ctx, &world.Game{Name: uniqueName("cascade")})
	require.NoError(t, err)
	l, err := locs.Create(ctx, &world.Location{GameID: g.ID, Name: "Sunken Plaza"})
	require.NoError(t, err)

	require.NoError(t, games.Delete(ctx, g.ID))

	_, err = locs.GetByID(ctx, l.ID)
	assert.ErrorIs(t, err, postgres.ErrLocationNotFound)
}
