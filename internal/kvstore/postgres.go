package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/elitefitness/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*PostgresStore)(nil)

const createKVTableQuery = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// pgxQuerier is satisfied by *pgxpool.Pool and *pgx.Conn.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	db pgxQuerier
}

// NewPostgresStore makes sure the kv_store table exists.
func NewPostgresStore(ctx context.Context, db pgxQuerier) (*PostgresStore, error) {
	if _, err := db.Exec(ctx, createKVTableQuery); err != nil {
		return nil, fmt.Errorf("create kv_store table: %w", err)
	}
	return &PostgresStore{
		db: db,
	}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.postgres.get")
	span.SetAttributes(attribute.String("key", key))
	defer tracing.EndSpanWithErrCheck(span, &err)

	var value []byte
	err = s.db.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select %s: %w", key, err)
	}

	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.postgres.set")
	span.SetAttributes(attribute.String("key", key), attribute.Int("size", len(value)))
	defer tracing.EndSpanWithErrCheck(span, &err)

	if _, err := s.db.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value,
	); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "kvstore.postgres.delete")
	span.SetAttributes(attribute.String("key", key))
	defer tracing.EndSpanWithErrCheck(span, &err)

	if _, err := s.db.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
