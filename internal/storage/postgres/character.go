package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shawnrushefsky/dmcp/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when creating a character with a name already used in the game.
var ErrCharacterNameTaken = errors.New("character name already taken")

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = `id, game_id, name, class, level, is_npc,
	       COALESCE(location_id::text, ''),
	       strength, dexterity, constitution, intelligence, wisdom, charisma,
	       max_hp, current_hp, created_at, updated_at`

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: c must pass Validate; c.GameID must reference an existing game.
// Postcondition: Returns the created character with a generated ID,
// ErrCharacterNameTaken on a duplicate name within the game, or
// ErrGameNotFound if the game does not exist.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	var out character.Character
	err := r.db.QueryRow(ctx, `
		INSERT INTO characters
			(id, game_id, name, class, level, is_npc, location_id,
			 strength, dexterity, constitution, intelligence, wisdom, charisma,
			 max_hp, current_hp)
		VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,'')::uuid,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING `+characterColumns,
		uuid.NewString(), c.GameID, c.Name, c.Class, c.Level, c.IsNPC, c.LocationID,
		c.Abilities.Strength, c.Abilities.Dexterity, c.Abilities.Constitution,
		c.Abilities.Intelligence, c.Abilities.Wisdom, c.Abilities.Charisma,
		c.MaxHP, c.CurrentHP,
	).Scan(scanTargets(&out)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		if isForeignKeyError(err) {
			if strings.Contains(violatedConstraint(err), "location") {
				return nil, ErrLocationNotFound
			}
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a character by its primary key.
//
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id string) (*character.Character, error) {
	var c character.Character
	err := r.db.QueryRow(ctx, `
		SELECT `+characterColumns+` FROM characters WHERE id = $1`,
		id,
	).Scan(scanTargets(&c)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return &c, nil
}

// ListByGame returns all characters for the given game, oldest first.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) ListByGame(ctx context.Context, gameID string) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+characterColumns+` FROM characters
		WHERE game_id = $1 ORDER BY created_at ASC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		var c character.Character
		if err := rows.Scan(scanTargets(&c)...); err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, &c)
	}
	return chars, rows.Err()
}

// UpdateState overwrites a character's mutable play state: hit points,
// level, and current location.
//
// Precondition: locationID must be empty or reference an existing location.
// Postcondition: Returns the updated character, ErrCharacterNotFound if the
// character does not exist, or ErrLocationNotFound if the location does not.
func (r *CharacterRepository) UpdateState(ctx context.Context, id string, currentHP, level int, locationID string) (*character.Character, error) {
	var out character.Character
	err := r.db.QueryRow(ctx, `
		UPDATE characters
		SET current_hp = $2, level = $3, location_id = NULLIF($4,'')::uuid, updated_at = now()
		WHERE id = $1
		RETURNING `+characterColumns,
		id, currentHP, level, locationID,
	).Scan(scanTargets(&out)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		if isForeignKeyError(err) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("updating character state: %w", err)
	}
	return &out, nil
}

// scanTargets returns scan destinations matching characterColumns order.
func scanTargets(c *character.Character) []any {
	return []any{
		&c.ID, &c.GameID, &c.Name, &c.Class, &c.Level, &c.IsNPC,
		&c.LocationID,
		&c.Abilities.Strength, &c.Abilities.Dexterity, &c.Abilities.Constitution,
		&c.Abilities.Intelligence, &c.Abilities.Wisdom, &c.Abilities.Charisma,
		&c.MaxHP, &c.CurrentHP, &c.CreatedAt, &c.UpdatedAt,
	}
}
