package seeder

import (
	"context"

	"skill-match/internal/database"
)

// Seeder writes reference data. Running it twice leaves the same rows.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
