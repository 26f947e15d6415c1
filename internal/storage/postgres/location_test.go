package postgres_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/shawnrushefsky/dmcp/internal/game/world"
	"github.com/shawnrushefsky/dmcp/internal/storage/postgres"
	"github.com/shawnrushefsky/dmcp/internal/testutil"
)

func setupLocationRepos(t *testing.T) (*postgres.LocationRepository, string) {
	t.Helper()
	pool := testutil.NewPool(t)
	games := postgres.NewGameRepository(pool)
	g, err := games.Create(context.Background(), &world.Game{Name: uniqueName("game")})
	require.NoError(t, err)
	return postgres.NewLocationRepository(pool), g.ID
}

func TestLocationRepository_Create(t *testing.T) {
	repo, gameID := setupLocationRepos(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &world.Location{
		GameID:      gameID,
		Name:        "Ember Gate",
		Description: "A scorched archway at the city's edge.",
		Exits: []world.Exit{
			{Direction: world.North, Destination: "keep", Description: "toward the keep"},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, gameID, created.GameID)
	assert.Equal(t, "Ember Gate", created.Name)
	require.Len(t, created.Exits, 1)
	assert.Equal(t, world.North, created.Exits[0].Direction)
	assert.Equal(t, "keep", created.Exits[0].Destination)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestLocationRepository_Create_NoExits(t *testing.T) {
	repo, gameID := setupLocationRepos(t)

	created, err := repo.Create(context.Background(), &world.Location{GameID: gameID, Name: "Bare Cell"})
	require.NoError(t, err)
	assert.NotNil(t, created.Exits)
	assert.Empty(t, created.Exits)
}

func TestLocationRepository_Create_DuplicateName(t *testing.T) {
	repo, gameID := setupLocationRepos(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &world.Location{GameID: gameID, Name: "Ember Gate"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &world.Location{GameID: gameID, Name: "Ember Gate"})
	assert.ErrorIs(t, err, postgres.ErrLocationNameTaken)
}

func TestLocationRepository_Create_SameNameDifferentGames(t *testing.T) {
	pool := testutil.NewPool(t)
	games := postgres.NewGameRepository(pool)
	repo := postgres.NewLocationRepository(pool)
	ctx := context.Background()

	g1, err := games.Create(ctx, &world.Game{Name: uniqueName("g1")})
	require.NoError(t, err)
	g2, err := games.Create(ctx, &world.Game{Name: uniqueName("g2")})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &world.Location{GameID: g1.ID, Name: "Crossroads"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &world.Location{GameID: g2.ID, Name: "Crossroads"})
	assert.NoError(t, err)
}

func TestLocationRepository_Create_UnknownGame(t *testing.T) {
	repo, _ := setupLocationRepos(t)
	_, err := repo.Create(context.Background(), &world.Location{
		GameID: "00000000-0000-0000-0000-000000000000",
		Name:   "Nowhere",
	})
	assert.ErrorIs(t, err, postgres.ErrGameNotFound)
}

func TestLocationRepository_GetByID_NotFound(t *testing.T) {
	repo, _ := setupLocationRepos(t)
	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, postgres.ErrLocationNotFound)
}

func TestLocationRepository_ListByGame_OrderedByCreation(t *testing.T) {
	repo, gameID := setupLocationRepos(t)
	ctx := context.Background()

	names := []string{"First Hall", "Second Hall", "Third Hall"}
	for _, name := range names {
		_, err := repo.Create(ctx, &world.Location{GameID: gameID, Name: name})
		require.NoError(t, err)
	}

	locs, err := repo.ListByGame(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, locs, 3)
	for i, name := range names {
		assert.Equal(t, name, locs[i].Name)
	}
}

func TestLocationRepository_ListByGame_Empty(t *testing.T) {
	repo, gameID := setupLocationRepos(t)
	locs, err := repo.ListByGame(context.Background(), gameID)
	require.NoError(t, err)
	assert.NotNil(t, locs)
	assert.Empty(t, locs)
}

func TestLocationRepository_Update(t *testing.T) {
	repo, gameID := setupLocationRepos(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &world.Location{GameID: gameID, Name: "Old Name"})
	require.NoError(t, err)

	created.Name = "New Name"
	created.Description = "Renamed after the fire."
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)

	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "Renamed after the fire.", updated.Description)
}

func TestLocationRepository_Update_NotFound(t *testing.T) {
	repo, _ := setupLocationRepos(t)
	_, err := repo.Update(context.Background(), &world.Location{
		ID:   "00000000-0000-0000-0000-000000000000",
		Name: "Ghost",
	})
	assert.ErrorIs(t, err, postgres.ErrLocationNotFound)
}

func TestLocationRepository_SetExits(t *testing.T) {
	repo, gameID := setupLocationRepos(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, &world.Location{GameID: gameID, Name: "Atrium"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, &world.Location{GameID: gameID, Name: "Balcony"})
	require.NoError(t, err)

	err = repo.SetExits(ctx, a.ID, []world.Exit{
		{Direction: world.Up, Destination: b.ID},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Exits, 1)
	assert.Equal(t, world.Up, got.Exits[0].Direction)
	assert.Equal(t, b.ID, got.Exits[0].Destination)
}

func TestLocationRepository_SetExits_NotFound(t *testing.T) {
	repo, _ := setupLocationRepos(t)
	err := repo.SetExits(context.Background(), "00000000-0000-0000-0000-000000000000", nil)
	assert.ErrorIs(t, err, postgres.ErrLocationNotFound)
}

func TestLocationRepository_Delete(t *testing.T) {
	repo, gameID := setupLocationRepos(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &world.Location{GameID: gameID, Name: "Condemned Tower"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, postgres.ErrLocationNotFound)
}

// Property: exits written through Create round-trip through the JSONB column.
func TestLocationRepository_Property_ExitsRoundTrip(t *testing.T) {
	repo, gameID := setupLocationRepos(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(rt, "exitCount")
		exits := make([]world.Exit, 0, n)
		for i := 0; i < n; i++ {
			dir := rapid.SampledFrom(world.StandardDirections).Draw(rt, fmt.Sprintf("dir%d", i))
			exits = append(exits, world.Exit{
				Direction:   dir,
				Destination: fmt.Sprintf("dest-%d", i),
			})
		}

		created, err := repo.Create(ctx, &world.Location{
			GameID: gameID,
			Name:   uniqueName("roundtrip"),
			Exits:  exits,
		})
		if err != nil {
			rt.Fatalf("creating location: %v", err)
		}

		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			rt.Fatalf("reloading location: %v", err)
		}
		if len(got.Exits) != len(exits) {
			rt.Fatalf("got %d exits, want %d", len(got.Exits), len(exits))
		}
		for i := range exits {
			if got.Exits[i] != exits[i] {
				rt.Fatalf("exit %d = %+v, want %+v", i, got.Exits[i], exits[i])
			}
		}
	})
}
