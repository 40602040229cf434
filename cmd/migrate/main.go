package main

import (
	"context"
	"flag"
	"log"
	"syllabus-buddy/internal/config"
	"syllabus-buddy/internal/database"
	"syllabus-buddy/internal/logger"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	dir := flag.String("dir", "", "migrations directory (defaults to store.sql.migrations_dir)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	migrationsDir := cfg.Store.SQL.MigrationsDir
	if *dir != "" {
		migrationsDir = *dir
	}

	ctx := context.Background()
	db, err := database.NewSQLXDB(ctx, cfg.Store.SQL)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, afero.NewOsFs(), migrationsDir); err != nil {
		l.Fatal("Failed to run migrations", zap.String("dir", migrationsDir), zap.Error(err))
	}
}
