package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FallyxInc/carehome-ingest/internal/common"
)

// PostgresConfig mirrors the pool knobs we expose through the environment.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// Postgres stores documents in a single table keyed by path, using a
// pgx pool. Intended for shared deployments where SQLite won't do.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// OpenPostgres creates the pool and ensures the documents table exists.
func OpenPostgres(ctx context.Context, cfg PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "carehome-ingest"

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS documents (
		path  TEXT PRIMARY KEY,
		value JSONB NOT NULL
	)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	logger.Info("postgres store ready")
	return &Postgres{pool: pool, logger: logger}, nil
}

// Ping checks connectivity, bounded by timeout when positive.
func (p *Postgres) Ping(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := p.pool.Ping(ctx); err != nil {
		return common.NewAppError("store_unavailable", "postgres ping failed", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, path string) (json.RawMessage, error) {
	var value []byte
	err := p.pool.QueryRow(ctx,
		`SELECT value FROM documents WHERE path = $1`, normalizePath(path)).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select document: %w", err)
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, path string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO documents (path, value) VALUES ($1, $2)
		 ON CONFLICT (path) DO UPDATE SET value = EXCLUDED.value`,
		normalizePath(path), b)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (p *Postgres) Update(ctx context.Context, path string, fields map[string]any) error {
	raw, err := p.Get(ctx, path)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	merged, err := mergeInto(raw, fields)
	if err != nil {
		return fmt.Errorf("merge document: %w", err)
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO documents (path, value) VALUES ($1, $2)
		 ON CONFLICT (path) DO UPDATE SET value = EXCLUDED.value`,
		normalizePath(path), merged)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, path string) error {
	if _, err := p.pool.Exec(ctx,
		`DELETE FROM documents WHERE path = $1`, normalizePath(path)); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (p *Postgres) List(ctx context.Context, prefix string) (map[string]json.RawMessage, error) {
	pfx := normalizePath(prefix) + "/"
	rows, err := p.pool.Query(ctx,
		`SELECT path, value FROM documents WHERE path LIKE $1`, pfx+"%")
	if err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var path string
		var value []byte
		if err := rows.Scan(&path, &value); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		rest := strings.TrimPrefix(path, pfx)
		if strings.Contains(rest, "/") {
			continue
		}
		out[rest] = value
	}
	return out, rows.Err()
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
