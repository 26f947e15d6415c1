// Package main provides the import-world binary, which loads a YAML world
// file into a game's locations.
//
// The YAML file identifies locations by author-chosen IDs; the repository
// assigns UUIDs on insert, so exits are rewritten to the stored IDs in a
// second pass once every location exists.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/shawnrushefsky/dmcp/internal/config"
	"github.com/shawnrushefsky/dmcp/internal/game/world"
	"github.com/shawnrushefsky/dmcp/internal/observability"
	"github.com/shawnrushefsky/dmcp/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	worldFile := flag.String("world", "", "path to the world YAML file")
	gameID := flag.String("game", "", "ID of the game to import into; empty creates a new game")
	gameName := flag.String("game-name", "", "name for the new game when -game is empty")
	flag.Parse()

	if *worldFile == "" {
		log.Fatal("missing required -world flag")
	}
	if *gameID == "" && *gameName == "" {
		log.Fatal("one of -game or -game-name is required")
	}

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	locations, err := world.LoadWorldFromFile(*worldFile)
	if err != nil {
		logger.Fatal("loading world file", zap.Error(err))
	}
	logger.Info("world file loaded",
		zap.String("path", *worldFile),
		zap.Int("locations", len(locations)),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	games := postgres.NewGameRepository(pool.DB())
	locRepo := postgres.NewLocationRepository(pool.DB())

	targetGame := *gameID
	if targetGame == "" {
		g, err := games.Create(ctx, &world.Game{Name: *gameName})
		if err != nil {
			logger.Fatal("creating game", zap.Error(err))
		}
		targetGame = g.ID
		logger.Info("created game", zap.String("id", g.ID), zap.String("name", g.Name))
	} else if _, err := games.GetByID(ctx, targetGame); err != nil {
		logger.Fatal("looking up game", zap.String("id", targetGame), zap.Error(err))
	}

	// First pass: insert every location without exits, recording the
	// mapping from the file's IDs to the stored UUIDs.
	storedID := make(map[string]string, len(locations))
	for _, l := range locations {
		created, err := locRepo.Create(ctx, &world.Location{
			GameID:      targetGame,
			Name:        l.Name,
			Description: l.Description,
		})
		if err != nil {
			logger.Fatal("creating location", zap.String("name", l.Name), zap.Error(err))
		}
		storedID[l.ID] = created.ID
	}

	// Second pass: rewrite exit destinations to stored IDs.
	for _, l := range locations {
		if len(l.Exits) == 0 {
			continue
		}
		exits := make([]world.Exit, 0, len(l.Exits))
		for _, e := range l.Exits {
			exits = append(exits, world.Exit{
				Direction:   e.Direction,
				Destination: storedID[e.Destination],
				Description: e.Description,
			})
		}
		if err := locRepo.SetExits(ctx, storedID[l.ID], exits); err != nil {
			logger.Fatal("setting exits", zap.String("name", l.Name), zap.Error(err))
		}
	}

	logger.Info("world imported",
		zap.String("game", targetGame),
		zap.Int("locations", len(locations)),
		zap.Duration("elapsed", time.Since(start)),
	)
}
