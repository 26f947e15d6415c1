package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shawnrushefsky/dmcp/internal/game/world"
)

// ErrGameNotFound is returned when a game lookup yields no results.
var ErrGameNotFound = errors.New("game not found")

// GameRepository provides game persistence operations.
type GameRepository struct {
	db *pgxpool.Pool
}

// NewGameRepository creates a GameRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

// Create inserts a new game and returns it with ID and timestamps set.
//
// Precondition: g.Name must be non-empty.
// Postcondition: Returns the created game with a generated ID, or a non-nil error.
func (r *GameRepository) Create(ctx context.Context, g *world.Game) (*world.Game, error) {
	var out world.Game
	err := r.db.QueryRow(ctx, `
		INSERT INTO games (id, name, setting)
		VALUES ($1, $2, $3)
		RETURNING id, name, setting, created_at, updated_at`,
		uuid.NewString(), g.Name, g.Setting,
	).Scan(&out.ID, &out.Name, &out.Setting, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting game: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a game by its primary key.
//
// Postcondition: Returns the Game or ErrGameNotFound.
func (r *GameRepository) GetByID(ctx context.Context, id string) (*world.Game, error) {
	var g world.Game
	err := r.db.QueryRow(ctx, `
		SELECT id, name, setting, created_at, updated_at
		FROM games WHERE id = $1`,
		id,
	).Scan(&g.ID, &g.Name, &g.Setting, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("querying game: %w", err)
	}
	return &g, nil
}

// List returns all games ordered by creation time.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *GameRepository) List(ctx context.Context) ([]*world.Game, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, setting, created_at, updated_at
		FROM games ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	games := make([]*world.Game, 0)
	for rows.Next() {
		var g world.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.Setting, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning game row: %w", err)
		}
		games = append(games, &g)
	}
	return games, rows.Err()
}

// Delete removes a game and, via cascading constraints, its locations and characters.
//
// Postcondition: Returns ErrGameNotFound if no row was deleted.
func (r *GameRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGameNotFound
	}
	return nil
}
