package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"skill-match/internal/database"
	dbpostgres "skill-match/internal/database/postgres"
	"skill-match/internal/domain/analysis"
	"skill-match/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrAnalysisExists   = errors.New("analysis already exists")
)

type AnalysisRepository interface {
	Create(ctx context.Context, a analysis.Analysis) error
	FindByID(ctx context.Context, id uuid.UUID) (analysis.Analysis, error)
	ListRecent(ctx context.Context, limit int) ([]analysis.Analysis, error)
}

type PostgresAnalysisRepository struct {
	db database.DB
}

func NewPostgresAnalysisRepository(db database.DB) *PostgresAnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

func (r *PostgresAnalysisRepository) Create(ctx context.Context, a analysis.Analysis) error {
	if a.ID == uuid.Nil {
		return fmt.Errorf("analysis id is required")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	matched, err := json.Marshal(a.Result.Matched)
	if err != nil {
		return err
	}
	missing, err := json.Marshal(a.Result.Missing)
	if err != nil {
		return err
	}
	top := a.TopRoles
	if top == nil {
		top = matching.Ranked{}
	}
	topRoles, err := json.Marshal(top)
	if err != nil {
		return err
	}
	extracted, err := json.Marshal(a.Extracted)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO analyses (
			id, filename, content_type, content_digest, catalog_version,
			role, role_known, score, matched, missing, top_roles, extracted,
			extraction_failed, resume_key, report_key, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		a.ID,
		a.Filename,
		a.ContentType,
		a.ContentDigest,
		a.CatalogVersion,
		a.Role,
		a.RoleKnown,
		a.Result.Score,
		string(matched),
		string(missing),
		string(topRoles),
		string(extracted),
		a.ExtractionFailed,
		a.ResumeKey,
		a.ReportKey,
		a.CreatedAt,
	)
	if dbpostgres.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrAnalysisExists, a.ID)
	}
	return err
}

const analysisColumns = `id, filename, content_type, content_digest, catalog_version,
	role, role_known, score, matched, missing, top_roles, extracted,
	extraction_failed, resume_key, report_key, created_at`

func (r *PostgresAnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (analysis.Analysis, error) {
	row := r.db.QueryRow(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE id = $1`, id)
	a, err := scanAnalysis(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return analysis.Analysis{}, ErrAnalysisNotFound
		}
		return analysis.Analysis{}, err
	}
	return a, nil
}

func (r *PostgresAnalysisRepository) ListRecent(ctx context.Context, limit int) ([]analysis.Analysis, error) {
	limit = clampLimit(limit)
	rows, err := r.db.Query(ctx,
		`SELECT `+analysisColumns+` FROM analyses ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]analysis.Analysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanAnalysis(row database.Row) (analysis.Analysis, error) {
	var a analysis.Analysis
	var matched, missing, topRoles, extracted []byte
	err := row.Scan(
		&a.ID,
		&a.Filename,
		&a.ContentType,
		&a.ContentDigest,
		&a.CatalogVersion,
		&a.Role,
		&a.RoleKnown,
		&a.Result.Score,
		&matched,
		&missing,
		&topRoles,
		&extracted,
		&a.ExtractionFailed,
		&a.ResumeKey,
		&a.ReportKey,
		&a.CreatedAt,
	)
	if err != nil {
		return analysis.Analysis{}, err
	}
	if err := json.Unmarshal(matched, &a.Result.Matched); err != nil {
		return analysis.Analysis{}, fmt.Errorf("decode matched: %w", err)
	}
	if err := json.Unmarshal(missing, &a.Result.Missing); err != nil {
		return analysis.Analysis{}, fmt.Errorf("decode missing: %w", err)
	}
	if err := json.Unmarshal(topRoles, &a.TopRoles); err != nil {
		return analysis.Analysis{}, fmt.Errorf("decode top_roles: %w", err)
	}
	if err := json.Unmarshal(extracted, &a.Extracted); err != nil {
		return analysis.Analysis{}, fmt.Errorf("decode extracted: %w", err)
	}
	return a, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 50 {
		return 50
	}
	return limit
}

// MemoryAnalysisRepository keeps analyses in process. Used when no database
// is configured and in tests.
type MemoryAnalysisRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]analysis.Analysis
}

func NewMemoryAnalysisRepository() *MemoryAnalysisRepository {
	return &MemoryAnalysisRepository{items: map[uuid.UUID]analysis.Analysis{}}
}

func (r *MemoryAnalysisRepository) Create(_ context.Context, a analysis.Analysis) error {
	if a.ID == uuid.Nil {
		return fmt.Errorf("analysis id is required")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[a.ID]; exists {
		return fmt.Errorf("%w: %s", ErrAnalysisExists, a.ID)
	}
	r.items[a.ID] = a
	return nil
}

func (r *MemoryAnalysisRepository) FindByID(_ context.Context, id uuid.UUID) (analysis.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[id]
	if !ok {
		return analysis.Analysis{}, ErrAnalysisNotFound
	}
	return a, nil
}

func (r *MemoryAnalysisRepository) ListRecent(_ context.Context, limit int) ([]analysis.Analysis, error) {
	limit = clampLimit(limit)
	r.mu.RLock()
	out := make([]analysis.Analysis, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
