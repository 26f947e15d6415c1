// Package main provides the dmcp binary: an MCP server over stdio backed by
// PostgreSQL. All logging goes to stderr; stdout belongs to the protocol.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/shawnrushefsky/dmcp/internal/config"
	"github.com/shawnrushefsky/dmcp/internal/mcpserver"
	"github.com/shawnrushefsky/dmcp/internal/observability"
	"github.com/shawnrushefsky/dmcp/internal/server"
	"github.com/shawnrushefsky/dmcp/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

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

	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)

	mcpSrv := mcpserver.New(cfg.MCP, logger, mcpserver.Stores{
		Games:      postgres.NewGameRepository(pool.DB()),
		Locations:  postgres.NewLocationRepository(pool.DB()),
		Characters: postgres.NewCharacterRepository(pool.DB()),
	})

	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("mcp", &server.FuncService{
		StartFn: func() error {
			return mcpSrv.Run(ctx)
		},
		StopFn: func() {},
	})

	lifecycle.Add("postgres", &server.FuncService{
		StartFn: func() error {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := pool.Health(ctx, 5*time.Second); err != nil {
						logger.Warn("database health check failed", zap.Error(err))
					}
				}
			}
		},
		StopFn: func() {
			pool.Close()
		},
	})

	logger.Info("dmcp initialized",
		zap.String("name", cfg.MCP.Name),
		zap.String("version", cfg.MCP.Version),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
