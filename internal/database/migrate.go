package database

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"syllabus-buddy/internal/logger"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const migrationUpSuffix = ".up.sql"

// RunMigrations executes every *.up.sql file in migrationsDir in lexical order.
// Each file holds a single statement; go-ora does not accept statement batches.
func RunMigrations(ctx context.Context, db *sqlx.DB, fs afero.Fs, migrationsDir string) error {
	files, err := afero.ReadDir(fs, migrationsDir)
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), migrationUpSuffix) {
			continue
		}
		names = append(names, file.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := afero.ReadFile(fs, filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}

		stmt := strings.TrimRight(strings.TrimSpace(string(content)), ";")
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not execute migration %s: %w", name, err)
		}

		logger.Get().Info("Executed migration", zap.String("file", name))
	}

	logger.Get().Info("Migrations completed successfully", zap.Int("count", len(names)))
	return nil
}
