package database

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/iliyamo/facility-desk/internal/database/migrations"
)

func (g *Gateway) migrationProvider() (*goose.Provider, error) {
	p, err := goose.NewProvider(g.dialect.gooseDialect(), g.db, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return p, nil
}

// Migrate applies every pending migration and returns the ones it ran.
func Migrate(ctx context.Context, g *Gateway) ([]*goose.MigrationResult, error) {
	p, err := g.migrationProvider()
	if err != nil {
		return nil, err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return results, fmt.Errorf("migrate up: %w", err)
	}
	return results, nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, g *Gateway) (*goose.MigrationResult, error) {
	p, err := g.migrationProvider()
	if err != nil {
		return nil, err
	}
	res, err := p.Down(ctx)
	if err != nil {
		return res, fmt.Errorf("migrate down: %w", err)
	}
	return res, nil
}

// MigrationStatus lists every known migration with its applied state.
func MigrationStatus(ctx context.Context, g *Gateway) ([]*goose.MigrationStatus, error) {
	p, err := g.migrationProvider()
	if err != nil {
		return nil, err
	}
	return p.Status(ctx)
}

// MigrationVersion returns the highest applied migration version.
func MigrationVersion(ctx context.Context, g *Gateway) (int64, error) {
	p, err := g.migrationProvider()
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}
