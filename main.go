package main

import (
	"context"
	"log"

	"pilemap/adapters/excel"
	"pilemap/adapters/grading"
	"pilemap/adapters/memory"
	"pilemap/adapters/postgres"
	"pilemap/adapters/rediscache"
	"pilemap/app"
	"pilemap/internal"
	"pilemap/internal/config"
	"pilemap/internal/errors"
	"pilemap/ports"
	"pilemap/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// initDatabase initializes the PostgreSQL connection for the import history
// audit trail. A missing DATABASE_URL disables history rather than failing.
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, nil
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return db, nil
}

// initMappingCache picks the mapping cache backend: Redis when configured,
// otherwise the in-process map.
func initMappingCache(appConfig *config.Config, logger *internal.Logger) ports.MappingCache {
	if appConfig.Redis.Addr == "" {
		logger.Info("REDIS_ADDR not set, using in-memory mapping cache")
		return memory.NewCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     appConfig.Redis.Addr,
		Password: appConfig.Redis.Password,
		DB:       appConfig.Redis.DB,
	})
	logger.Info("using Redis mapping cache at %s", appConfig.Redis.Addr)
	return rediscache.NewCache(client, appConfig.Redis.KeyPrefix)
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var history ports.ImportHistory
	if db != nil {
		defer db.Close()
		repo := postgres.NewImportHistoryRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("Failed to ensure import history schema: %v", err)
		}
		history = repo
		logger.Info("import history enabled")
	} else {
		logger.Info("DATABASE_URL not set, import history disabled")
	}

	cache := initMappingCache(appConfig, logger)

	loader := excel.NewLoader()
	mapping := app.NewMappingService(loader, cache, app.ExtractOptions{
		TargetSheet:      appConfig.Extract.TargetSheet,
		BlankStreakLimit: appConfig.Extract.BlankStreakLimit,
		PreviewRowCap:    appConfig.Extract.PreviewRowCap,
	}, logger)

	grader := grading.NewClient(appConfig.Grading.BaseURL, appConfig.Grading.Timeout)

	server := ui.NewServer(mapping, grader, history, logger)
	log.Fatal(server.Start(appConfig.Server.Port))
}
