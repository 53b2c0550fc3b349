package application

import (
	"context"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// MigrationManager collects per-module schema filesystems and applies them
// with goose over a database/sql handle derived from the pgx pool.
type MigrationManager interface {
	RegisterSchema(fsys fs.FS, root string)
	Apply(ctx context.Context) error
}

type schemaSource struct {
	fsys fs.FS
	root string
}

type migrationManager struct {
	pool    *pgxpool.Pool
	sources []schemaSource
}

func NewMigrationManager(pool *pgxpool.Pool) MigrationManager {
	return &migrationManager{pool: pool}
}

func (m *migrationManager) RegisterSchema(fsys fs.FS, root string) {
	m.sources = append(m.sources, schemaSource{fsys: fsys, root: root})
}

func (m *migrationManager) Apply(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(m.pool)
	defer func() {
		_ = db.Close()
	}()

	for _, src := range m.sources {
		sub, err := fs.Sub(src.fsys, src.root)
		if err != nil {
			return err
		}
		provider, err := goose.NewProvider(goose.DialectPostgres, db, sub)
		if err != nil {
			return err
		}
		if _, err := provider.Up(ctx); err != nil {
			return err
		}
	}
	return nil
}
