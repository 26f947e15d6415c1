package mcpserver_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shawnrushefsky/dmcp/internal/game/character"
	"github.com/shawnrushefsky/dmcp/internal/game/world"
	"github.com/shawnrushefsky/dmcp/internal/storage/postgres"
)

// fakeGameStore is an in-memory GameStore returning the repository sentinels.
type fakeGameStore struct {
	games []*world.Game
	next  int
}

func (f *fakeGameStore) Create(_ context.Context, g *world.Game) (*world.Game, error) {
	f.next++
	out := *g
	out.ID = fmt.Sprintf("game-%d", f.next)
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	f.games = append(f.games, &out)
	return &out, nil
}

func (f *fakeGameStore) GetByID(_ context.Context, id string) (*world.Game, error) {
	for _, g := range f.games {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, postgres.ErrGameNotFound
}

func (f *fakeGameStore) List(_ context.Context) ([]*world.Game, error) {
	return f.games, nil
}

// fakeLocationStore is an in-memory LocationStore returning the repository
// sentinels. Locations are kept in creation order, matching ListByGame's
// ORDER BY created_at contract.
type fakeLocationStore struct {
	locations []*world.Location
	next      int
}

func (f *fakeLocationStore) Create(_ context.Context, l *world.Location) (*world.Location, error) {
	for _, existing := range f.locations {
		if existing.GameID == l.GameID && existing.Name == l.Name {
			return nil, postgres.ErrLocationNameTaken
		}
	}
	f.next++
	out := *l
	out.ID = fmt.Sprintf("loc-%d", f.next)
	if out.Exits == nil {
		out.Exits = []world.Exit{}
	}
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	f.locations = append(f.locations, &out)
	return &out, nil
}

func (f *fakeLocationStore) GetByID(_ context.Context, id string) (*world.Location, error) {
	for _, l := range f.locations {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, postgres.ErrLocationNotFound
}

func (f *fakeLocationStore) ListByGame(_ context.Context, gameID string) ([]*world.Location, error) {
	out := make([]*world.Location, 0)
	for _, l := range f.locations {
		if l.GameID == gameID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLocationStore) SetExits(_ context.Context, id string, exits []world.Exit) error {
	for _, l := range f.locations {
		if l.ID == id {
			l.Exits = exits
			return nil
		}
	}
	return postgres.ErrLocationNotFound
}

// fakeCharacterStore is an in-memory CharacterStore returning the repository
// sentinels.
type fakeCharacterStore struct {
	characters []*character.Character
	locations  *fakeLocationStore
	next       int
}

func (f *fakeCharacterStore) Create(_ context.Context, c *character.Character) (*character.Character, error) {
	for _, existing := range f.characters {
		if existing.GameID == c.GameID && existing.Name == c.Name {
			return nil, postgres.ErrCharacterNameTaken
		}
	}
	f.next++
	out := *c
	out.ID = fmt.Sprintf("char-%d", f.next)
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	f.characters = append(f.characters, &out)
	return &out, nil
}

func (f *fakeCharacterStore) GetByID(_ context.Context, id string) (*character.Character, error) {
	for _, c := range f.characters {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, postgres.ErrCharacterNotFound
}

func (f *fakeCharacterStore) ListByGame(_ context.Context, gameID string) ([]*character.Character, error) {
	out := make([]*character.Character, 0)
	for _, c := range f.characters {
		if c.GameID == gameID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCharacterStore) UpdateState(_ context.Context, id string, currentHP, level int, locationID string) (*character.Character, error) {
	for _, c := range f.characters {
		if c.ID != id {
			continue
		}
		if locationID != "" && f.locations != nil {
			if _, err := f.locations.GetByID(context.Background(), locationID); err != nil {
				return nil, postgres.ErrLocationNotFound
			}
		}
		c.CurrentHP = currentHP
		c.Level = level
		c.LocationID = locationID
		return c, nil
	}
	return nil, postgres.ErrCharacterNotFound
}
