package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Postgres is the pgx-backed DocumentStore.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database and applies pending migrations.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := migrate(dsn); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

func migrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (p *Postgres) Save(ctx context.Context, doc Document) error {
	if doc.StoredAt.IsZero() {
		doc.StoredAt = time.Now()
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO documents (kind, body, filename, stored_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (kind)
		DO UPDATE SET body = EXCLUDED.body, filename = EXCLUDED.filename, stored_at = EXCLUDED.stored_at
	`, doc.Kind, doc.Text, doc.Filename, doc.StoredAt)
	if err != nil {
		return fmt.Errorf("save %s document: %w", doc.Kind, err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, kind string) (Document, bool, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT body, filename, stored_at FROM documents WHERE kind = $1
	`, kind)

	doc := Document{Kind: kind}
	err := row.Scan(&doc.Text, &doc.Filename, &doc.StoredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, fmt.Errorf("load %s document: %w", kind, err)
	}
	return doc, true, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
