package adapter

import (
	"context"
	"database/sql"
	"errors"
	"syllabus-buddy/internal/domain"

	"github.com/jmoiron/sqlx"
)

const (
	sqlStoreGetQuery = `SELECT value_data FROM kv_store WHERE key_name = :1`

	sqlStoreUpsertQuery = `MERGE INTO kv_store t
	USING (SELECT :1 AS key_name, :2 AS value_data FROM dual) s
	ON (t.key_name = s.key_name)
	WHEN MATCHED THEN UPDATE SET t.value_data = s.value_data, t.updated_at = SYSTIMESTAMP
	WHEN NOT MATCHED THEN INSERT (key_name, value_data, updated_at) VALUES (s.key_name, s.value_data, SYSTIMESTAMP)`

	sqlStoreDeleteQuery = `DELETE FROM kv_store WHERE key_name = :1`
)

// SQLStoreAdapter implements domain.KeyValueStore on the kv_store table.
type SQLStoreAdapter struct {
	db *sqlx.DB
}

// NewSQLStoreAdapter creates a new instance of SQLStoreAdapter
func NewSQLStoreAdapter(db *sqlx.DB) domain.KeyValueStore {
	return &SQLStoreAdapter{db: db}
}

func (s *SQLStoreAdapter) Get(ctx context.Context, key string) (string, error) {
	var value string
	if err := s.db.GetContext(ctx, &value, sqlStoreGetQuery, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrKeyNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *SQLStoreAdapter) Set(ctx context.Context, key string, value string) error {
	_, err := s.db.ExecContext(ctx, sqlStoreUpsertQuery, key, value)
	return err
}

func (s *SQLStoreAdapter) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, sqlStoreDeleteQuery, key)
	return err
}

func (s *SQLStoreAdapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
