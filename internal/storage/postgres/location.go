package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shawnrushefsky/dmcp/internal/game/world"
)

// ErrLocationNotFound is returned when a location lookup yields no results.
var ErrLocationNotFound = errors.New("location not found")

// ErrLocationNameTaken is returned when creating a location with a name already used in the game.
var ErrLocationNameTaken = errors.New("location name already taken")

// LocationRepository provides location persistence operations.
//
// Exits are stored as a JSONB column so a location's outgoing connections
// travel with the row and need no join to load.
type LocationRepository struct {
	db *pgxpool.Pool
}

// NewLocationRepository creates a LocationRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewLocationRepository(db *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{db: db}
}

// Create inserts a new location and returns it with ID and timestamps set.
//
// Precondition: l.GameID must reference an existing game; l.Name must be non-empty.
// Postcondition: Returns the created location, ErrLocationNameTaken on a duplicate
// name within the game, or ErrGameNotFound if the game does not exist.
func (r *LocationRepository) Create(ctx context.Context, l *world.Location) (*world.Location, error) {
	exits, err := marshalExits(l.Exits)
	if err != nil {
		return nil, err
	}

	var out world.Location
	var rawExits []byte
	err = r.db.QueryRow(ctx, `
		INSERT INTO locations (id, game_id, name, description, exits)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, game_id, name, description, exits, created_at, updated_at`,
		uuid.NewString(), l.GameID, l.Name, l.Description, exits,
	).Scan(&out.ID, &out.GameID, &out.Name, &out.Description, &rawExits, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrLocationNameTaken
		}
		if isForeignKeyError(err) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("inserting location: %w", err)
	}
	if out.Exits, err = unmarshalExits(rawExits); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a location by its primary key.
//
// Postcondition: Returns the Location or ErrLocationNotFound.
func (r *LocationRepository) GetByID(ctx context.Context, id string) (*world.Location, error) {
	var l world.Location
	var rawExits []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, game_id, name, description, exits, created_at, updated_at
		FROM locations WHERE id = $1`,
		id,
	).Scan(&l.ID, &l.GameID, &l.Name, &l.Description, &rawExits, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("querying location: %w", err)
	}
	if l.Exits, err = unmarshalExits(rawExits); err != nil {
		return nil, err
	}
	return &l, nil
}

// ListByGame returns all locations for the given game, oldest first.
// The ordering is load-bearing: callers treat the first row as the game's
// default map center when no other anchor is available.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *LocationRepository) ListByGame(ctx context.Context, gameID string) ([]*world.Location, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, game_id, name, description, exits, created_at, updated_at
		FROM locations WHERE game_id = $1 ORDER BY created_at ASC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	locs := make([]*world.Location, 0)
	for rows.Next() {
		var l world.Location
		var rawExits []byte
		if err := rows.Scan(&l.ID, &l.GameID, &l.Name, &l.Description, &rawExits, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning location row: %w", err)
		}
		if l.Exits, err = unmarshalExits(rawExits); err != nil {
			return nil, err
		}
		locs = append(locs, &l)
	}
	return locs, rows.Err()
}

// Update overwrites a location's name and description.
//
// Postcondition: Returns the updated location or ErrLocationNotFound.
func (r *LocationRepository) Update(ctx context.Context, l *world.Location) (*world.Location, error) {
	var out world.Location
	var rawExits []byte
	err := r.db.QueryRow(ctx, `
		UPDATE locations SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, game_id, name, description, exits, created_at, updated_at`,
		l.ID, l.Name, l.Description,
	).Scan(&out.ID, &out.GameID, &out.Name, &out.Description, &rawExits, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		if isDuplicateKeyError(err) {
			return nil, ErrLocationNameTaken
		}
		return nil, fmt.Errorf("updating location: %w", err)
	}
	if out.Exits, err = unmarshalExits(rawExits); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetExits replaces a location's exit list.
//
// Precondition: Exit directions should already be normalized.
// Postcondition: Returns ErrLocationNotFound if the location does not exist.
func (r *LocationRepository) SetExits(ctx context.Context, id string, exits []world.Exit) error {
	raw, err := marshalExits(exits)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE locations SET exits = $2, updated_at = now() WHERE id = $1`,
		id, raw,
	)
	if err != nil {
		return fmt.Errorf("setting location exits: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// Delete removes a location.
//
// Postcondition: Returns ErrLocationNotFound if no row was deleted. Exits on
// other locations that point at the deleted ID are left in place; the layout
// engine treats them as dangling and skips them.
func (r *LocationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// marshalExits encodes exits as JSONB bytes, mapping nil to an empty array so
// the column never stores SQL NULL.
func marshalExits(exits []world.Exit) ([]byte, error) {
	if exits == nil {
		exits = []world.Exit{}
	}
	raw, err := json.Marshal(exits)
	if err != nil {
		return nil, fmt.Errorf("encoding exits: %w", err)
	}
	return raw, nil
}

func unmarshalExits(raw []byte) ([]world.Exit, error) {
	exits := make([]world.Exit, 0)
	if len(raw) == 0 {
		return exits, nil
	}
	if err := json.Unmarshal(raw, &exits); err != nil {
		return nil, fmt.Errorf("decoding exits: %w", err)
	}
	return exits, nil
}
