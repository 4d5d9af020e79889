package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS designs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	width      DOUBLE PRECISION NOT NULL,
	height     DOUBLE PRECISION NOT NULL,
	snapshot   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS designs_updated_at_idx ON designs (updated_at DESC);
`

// Postgres stores designs in a single designs table with a jsonb snapshot.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL, pings it and applies the schema.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	slog.Info("connected to database")
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) Create(ctx context.Context, d *Design) error {
	err := p.pool.QueryRow(ctx, `
		INSERT INTO designs (id, name, width, height, snapshot)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		d.ID, d.Name, d.Width, d.Height, []byte(d.Snapshot),
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert design: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*Design, error) {
	var d Design
	var snapshot []byte
	err := p.pool.QueryRow(ctx, `
		SELECT id, name, width, height, snapshot, created_at, updated_at
		FROM designs WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Width, &d.Height, &snapshot, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get design: %w", err)
	}
	d.Snapshot = snapshot
	return &d, nil
}

func (p *Postgres) List(ctx context.Context) ([]Design, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, width, height, created_at, updated_at
		FROM designs ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	designs := []Design{}
	for rows.Next() {
		var d Design
		if err := rows.Scan(&d.ID, &d.Name, &d.Width, &d.Height, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}
		designs = append(designs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	return designs, nil
}

func (p *Postgres) Save(ctx context.Context, d *Design) error {
	err := p.pool.QueryRow(ctx, `
		UPDATE designs
		SET name = $2, width = $3, height = $4, snapshot = $5, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		d.ID, d.Name, d.Width, d.Height, []byte(d.Snapshot),
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("save design: %w", err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM designs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete design: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
