package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pv-configurator/internal/configurator/models"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

var ErrNotFound = errors.New("project not found")

// timeLayout фиксированной ширины: строковый порядок совпадает с временным.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

//go:embed migrations/*.sql
var migrations embed.FS

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init применяет миграции.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Ping нужен для readiness-пробы.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Create(ctx context.Context, p *models.Project) error {
	cfg, err := json.Marshal(p.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO projects (id, name, config, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)
    `, p.ID, p.Name, string(cfg), formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, config, created_at, updated_at
        FROM projects
        WHERE id = ?
    `, id)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List возвращает проекты, последние изменённые - первыми.
func (r *Repository) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, config, created_at, updated_at
        FROM projects
        ORDER BY updated_at DESC, id
    `)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *Repository) Update(ctx context.Context, p *models.Project) error {
	cfg, err := json.Marshal(p.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
        UPDATE projects
        SET name = ?, config = ?, updated_at = ?
        WHERE id = ?
    `, p.Name, string(cfg), formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return expectOneRow(res)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return expectOneRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*models.Project, error) {
	var (
		p                    models.Project
		cfg                  string
		createdAt, updatedAt string
	)
	if err := s.Scan(&p.ID, &p.Name, &cfg, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(cfg), &p.Config); err != nil {
		return nil, fmt.Errorf("decode config of %s: %w", p.ID, err)
	}

	var err error
	if p.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &p, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context) error {
	names, err := migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	for _, entry := range names {
		data, err := migrations.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
