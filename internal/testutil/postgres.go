// Package testutil provides test helpers including container management.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shawnrushefsky/dmcp/internal/config"
	"github.com/shawnrushefsky/dmcp/internal/storage/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	container testcontainers.Container
	Pool      *postgres.Pool
	RawPool   *pgxpool.Pool
	Config    config.DatabaseConfig
}

// NewPostgresContainer starts a PostgreSQL test container and returns
// a connected Pool. The container is terminated when the test finishes.
//
// Precondition: Docker must be available.
// Postcondition: Returns a running container with a connected pool,
// or fails the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	pc, err := startPostgres(context.Background())
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}

	t.Cleanup(func() {
		pc.Pool.Close()
		_ = pc.container.Terminate(context.Background())
	})

	return pc
}

var (
	sharedOnce sync.Once
	sharedPC   *PostgresContainer
	sharedErr  error
)

// NewPool returns a connection pool backed by a single PostgreSQL container
// shared across all tests in the binary, with migrations applied. The
// container lives for the remainder of the test run; the testcontainers
// reaper removes it afterward.
//
// Precondition: Docker must be available.
// Postcondition: Returns a migrated, connected pool or fails the test.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	sharedOnce.Do(func() {
		ctx := context.Background()
		sharedPC, sharedErr = startPostgres(ctx)
		if sharedErr != nil {
			return
		}
		sharedErr = applySchema(ctx, sharedPC.RawPool)
	})
	if sharedErr != nil {
		t.Fatalf("shared postgres container: %v", sharedErr)
	}
	return sharedPC.RawPool
}

func startPostgres(ctx context.Context) (*PostgresContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("starting container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting container host: %w", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("getting mapped port: %w", err)
	}

	dbCfg := config.DatabaseConfig{
		Host:            host,
		Port:            mappedPort.Int(),
		User:            "test",
		Password:        "test",
		Name:            "test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}

	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to test postgres: %w", err)
	}

	return &PostgresContainer{
		container: container,
		Pool:      pool,
		RawPool:   pool.DB(),
		Config:    dbCfg,
	}, nil
}

// ApplyMigrations runs the schema creation SQL directly for tests.
// This avoids requiring the migrate tool in the test environment.
//
// Precondition: Pool must be connected.
// Postcondition: The games, locations, and characters tables exist.
func (pc *PostgresContainer) ApplyMigrations(t *testing.T) {
	t.Helper()
	if err := applySchema(context.Background(), pc.RawPool); err != nil {
		t.Fatalf("applying migrations: %v", err)
	}
}

func applySchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id         UUID         PRIMARY KEY,
			name       VARCHAR(128) NOT NULL,
			setting    TEXT         NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS locations (
			id          UUID         PRIMARY KEY,
			game_id     UUID         NOT NULL REFERENCES games (id) ON DELETE CASCADE,
			name        VARCHAR(128) NOT NULL,
			description TEXT         NOT NULL DEFAULT '',
			exits       JSONB        NOT NULL DEFAULT '[]',
			created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			UNIQUE (game_id, name)
		);
		CREATE INDEX IF NOT EXISTS idx_locations_game_created
			ON locations (game_id, created_at);

		CREATE TABLE IF NOT EXISTS characters (
			id           UUID         PRIMARY KEY,
			game_id      UUID         NOT NULL REFERENCES games (id) ON DELETE CASCADE,
			name         VARCHAR(128) NOT NULL,
			class        VARCHAR(64)  NOT NULL DEFAULT '',
			level        INTEGER      NOT NULL DEFAULT 1,
			is_npc       BOOLEAN      NOT NULL DEFAULT FALSE,
			location_id  UUID         REFERENCES locations (id) ON DELETE SET NULL,
			strength     INTEGER      NOT NULL DEFAULT 10,
			dexterity    INTEGER      NOT NULL DEFAULT 10,
			constitution INTEGER      NOT NULL DEFAULT 10,
			intelligence INTEGER      NOT NULL DEFAULT 10,
			wisdom       INTEGER      NOT NULL DEFAULT 10,
			charisma     INTEGER      NOT NULL DEFAULT 10,
			max_hp       INTEGER      NOT NULL DEFAULT 1,
			current_hp   INTEGER      NOT NULL DEFAULT 1,
			created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			UNIQUE (game_id, name)
		);
		CREATE INDEX IF NOT EXISTS idx_characters_game
			ON characters (game_id);
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// DSN returns the connection string for the test database.
func (pc *PostgresContainer) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.Config.User, pc.Config.Password,
		pc.Config.Host, pc.Config.Port,
		pc.Config.Name, pc.Config.SSLMode,
	)
}
