package seeder

import (
	"context"
	"fmt"
	"time"

	"skill-match/internal/database"
	"skill-match/internal/logger"

	"go.uber.org/zap"
)

type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

// Run applies the seeders in order and stops at the first failure.
func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	log := logger.OrNop(r.Logger)
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeder applied", zap.String("seeder", s.Name()), zap.Duration("took", time.Since(start)))
	}
	return nil
}
