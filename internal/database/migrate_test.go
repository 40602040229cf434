package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMigrationFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/migrations/000002_add_index.up.sql", []byte("CREATE INDEX kv_updated ON kv_store (updated_at);\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/migrations/000001_create_kv_store.up.sql", []byte("CREATE TABLE kv_store (key_name VARCHAR2(255))"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/migrations/000001_create_kv_store.down.sql", []byte("DROP TABLE kv_store"), 0o644))
	return fs
}

func TestRunMigrations_AppliesUpFilesInOrder(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "sqlmock")

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE kv_store (key_name VARCHAR2(255))")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX kv_updated ON kv_store (updated_at)") + "$").WillReturnResult(sqlmock.NewResult(0, 0))

	err = RunMigrations(context.Background(), db, setupMigrationFs(t), "/migrations")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_StopsOnFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "sqlmock")

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("ORA-00955: name is already used"))

	err = RunMigrations(context.Background(), db, setupMigrationFs(t), "/migrations")

	assert.ErrorContains(t, err, "000001_create_kv_store.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_MissingDir(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	err = RunMigrations(context.Background(), sqlx.NewDb(mockDB, "sqlmock"), afero.NewMemMapFs(), "/nope")

	assert.Error(t, err)
}
