package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" driver
	"github.com/okian/contactd/internal/domain/model"
	"github.com/okian/contactd/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id             BIGSERIAL PRIMARY KEY,
	title          VARCHAR(100) NOT NULL,
	description    TEXT NOT NULL,
	technologies   VARCHAR(200) NOT NULL,
	image_url      VARCHAR(200) NOT NULL DEFAULT '',
	project_url    VARCHAR(200) NOT NULL DEFAULT '',
	repository_url VARCHAR(200) NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const projectColumns = `id, title, description, technologies, image_url, project_url, repository_url, created_at`

// PostgresStore persists projects in PostgreSQL.
type PostgresStore struct {
	db   *sql.DB
	opts options
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres opens and pings a PostgreSQL database.
func OpenPostgres(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresStore wraps db.
func NewPostgresStore(db *sql.DB, opts ...Option) *PostgresStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &PostgresStore{db: db, opts: o}
}

// Migrate creates the projects table when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate projects: %w", err)
	}
	return nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

// Create implements Store.
func (s *PostgresStore) Create(ctx context.Context, p model.Project) (model.Project, error) {
	p, err := Validate(p)
	if err != nil {
		return model.Project{}, err
	}
	p.CreatedAt = s.opts.clock().UTC()

	err = s.db.QueryRowContext(ctx,
		`INSERT INTO projects (title, description, technologies, image_url, project_url, repository_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		p.Title, p.Description, p.Technologies, p.ImageURL, p.ProjectURL, p.RepositoryURL, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return model.Project{}, fmt.Errorf("insert project: %w", err)
	}
	metrics.RecordProjectCreated()
	return p, nil
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, id int64) (model.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, ErrNotFound
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("get project %d: %w", id, err)
	}
	return p, nil
}

// Count implements Store.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Technologies,
		&p.ImageURL, &p.ProjectURL, &p.RepositoryURL, &p.CreatedAt)
	return p, err
}
