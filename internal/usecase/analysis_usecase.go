package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"skill-match/internal/domain/analysis"
	"skill-match/internal/domain/catalog"
	"skill-match/internal/domain/matching"
	"skill-match/internal/events"
	"skill-match/internal/extract"
	"skill-match/internal/infrastructure/storage"
	"skill-match/internal/logger"
	"skill-match/internal/report"
	"skill-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTopRoles       = 5
	DefaultUploadMaxBytes = 10 << 20
)

type AnalyzeInput struct {
	Filename    string
	ContentType string
	Data        []byte
	Role        string
	TopN        int
}

type MatchInput struct {
	Role   string
	Tokens []string
	Text   string
	TopN   int
}

type MatchOutput struct {
	Role      string
	RoleKnown bool
	Result    matching.Result
	TopRoles  matching.Ranked
	Extracted matching.SkillSet
}

type AnalysisOptions struct {
	TopRoles       int
	UploadMaxBytes int64
	CacheTTL       time.Duration
}

type AnalysisUsecase interface {
	Analyze(ctx context.Context, in AnalyzeInput) (analysis.Analysis, error)
	Get(ctx context.Context, id uuid.UUID) (analysis.Analysis, error)
	Report(ctx context.Context, id uuid.UUID) (report.Artifact, error)
	Match(ctx context.Context, in MatchInput) (MatchOutput, error)
}

type Analysis struct {
	catalog   *catalog.Catalog
	analyses  repository.AnalysisRepository
	store     storage.Store
	renderer  report.Renderer
	publisher events.Publisher
	cache     Cache
	opts      AnalysisOptions
	logger    *zap.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

func NewAnalysisUsecase(
	c *catalog.Catalog,
	analyses repository.AnalysisRepository,
	store storage.Store,
	renderer report.Renderer,
	publisher events.Publisher,
	cache Cache,
	opts AnalysisOptions,
	log *zap.Logger,
) *Analysis {
	if opts.TopRoles <= 0 {
		opts.TopRoles = DefaultTopRoles
	}
	if opts.UploadMaxBytes <= 0 {
		opts.UploadMaxBytes = DefaultUploadMaxBytes
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Analysis{
		catalog:   c,
		analyses:  analyses,
		store:     store,
		renderer:  renderer,
		publisher: publisher,
		cache:     cache,
		opts:      opts,
		logger:    logger.OrNop(log),
		now:       time.Now,
		newID:     uuid.New,
	}
}

// Analyze extracts skills from an uploaded resume, matches them against the
// selected role and the whole catalog, and stores the resume, the rendered
// report and the analysis record. Identical uploads are served from cache.
func (u *Analysis) Analyze(ctx context.Context, in AnalyzeInput) (analysis.Analysis, error) {
	role := strings.TrimSpace(in.Role)
	if role == "" || len(in.Data) == 0 {
		return analysis.Analysis{}, ErrInvalidInput
	}
	if int64(len(in.Data)) > u.opts.UploadMaxBytes {
		return analysis.Analysis{}, ErrFileTooLarge
	}

	contentType := in.ContentType
	if !extract.Supported(contentType) {
		contentType = extract.DetectContentType(in.Filename, in.Data)
	}
	if !extract.Supported(contentType) {
		return analysis.Analysis{}, ErrUnsupportedFile
	}

	topN, err := u.topN(in.TopN)
	if err != nil {
		return analysis.Analysis{}, err
	}

	sum := sha256.Sum256(in.Data)
	digest := hex.EncodeToString(sum[:])
	cacheKey := AnalysisCacheKey(u.catalog.Version(), digest, role, topN)

	if u.cache != nil {
		var cached analysis.Analysis
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit {
			u.logger.Debug("analysis cache hit", zap.String("key", cacheKey))
			return cached, nil
		}
	}

	start := u.now()
	extractionFailed := false
	text, err := extract.Text(ctx, contentType, in.Data)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return analysis.Analysis{}, ctxErr
		}
		u.logger.Warn("text extraction failed",
			zap.String("filename", in.Filename),
			zap.String("content_type", contentType),
			zap.Error(err),
		)
		extractionFailed = true
		text = ""
	}
	extracted := extract.Skills(text, u.catalog.Vocabulary())

	res, known := matching.MatchRole(u.catalog, role, extracted)
	top := matching.RankRoles(u.catalog, extracted).Top(topN)

	id := u.newID()
	ext := strings.ToLower(filepath.Ext(in.Filename))
	a := analysis.Analysis{
		ID:               id,
		Filename:         in.Filename,
		ContentType:      contentType,
		ContentDigest:    digest,
		CatalogVersion:   u.catalog.Version(),
		Role:             role,
		RoleKnown:        known,
		Result:           res,
		TopRoles:         top,
		Extracted:        extracted,
		ExtractionFailed: extractionFailed,
		ResumeKey:        analysis.ResumeKey(id, ext),
		CreatedAt:        start.UTC(),
	}

	if err := u.store.Put(ctx, a.ResumeKey, contentType, in.Data); err != nil {
		u.logger.Error("store resume failed", zap.String("key", a.ResumeKey), zap.Error(err))
		return analysis.Analysis{}, ErrInternal
	}

	art, err := u.render(ctx, a)
	if err != nil {
		u.logger.Error("render report failed", zap.String("analysis_id", id.String()), zap.Error(err))
		return analysis.Analysis{}, ErrInternal
	}
	a.ReportKey = analysis.ReportKey(id, filepath.Ext(art.Filename))
	if err := u.store.Put(ctx, a.ReportKey, art.ContentType, art.Data); err != nil {
		u.logger.Error("store report failed", zap.String("key", a.ReportKey), zap.Error(err))
		return analysis.Analysis{}, ErrInternal
	}

	if err := u.analyses.Create(ctx, a); err != nil {
		u.logger.Error("persist analysis failed", zap.String("analysis_id", id.String()), zap.Error(err))
		return analysis.Analysis{}, ErrInternal
	}

	u.publish(ctx, a)

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cacheKey, a, u.opts.CacheTTL); err != nil {
			u.logger.Warn("cache analysis failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	u.logger.Info("analysis completed",
		zap.String("analysis_id", id.String()),
		zap.String("role", role),
		zap.Bool("role_known", known),
		zap.Int("score", res.Score),
		zap.Int("extracted", extracted.Len()),
		zap.Duration("took", u.now().Sub(start)),
	)
	return a, nil
}

func (u *Analysis) Get(ctx context.Context, id uuid.UUID) (analysis.Analysis, error) {
	if id == uuid.Nil {
		return analysis.Analysis{}, ErrInvalidInput
	}
	a, err := u.analyses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAnalysisNotFound) {
			return analysis.Analysis{}, ErrAnalysisNotFound
		}
		return analysis.Analysis{}, ErrInternal
	}
	return a, nil
}

// Report returns the stored report artifact, re-rendering it when the stored
// copy is gone.
func (u *Analysis) Report(ctx context.Context, id uuid.UUID) (report.Artifact, error) {
	a, err := u.Get(ctx, id)
	if err != nil {
		return report.Artifact{}, err
	}

	if a.ReportKey != "" {
		data, err := u.store.Get(ctx, a.ReportKey)
		if err == nil {
			return report.Artifact{
				Filename:    report.CandidateName(a.Filename) + "_report" + filepath.Ext(a.ReportKey),
				ContentType: report.ContentTypeFor(a.ReportKey),
				Data:        data,
			}, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			u.logger.Error("load report failed", zap.String("key", a.ReportKey), zap.Error(err))
			return report.Artifact{}, ErrInternal
		}
		u.logger.Warn("stored report missing, re-rendering", zap.String("key", a.ReportKey))
	}

	art, err := u.render(ctx, a)
	if err != nil {
		u.logger.Error("render report failed", zap.String("analysis_id", id.String()), zap.Error(err))
		return report.Artifact{}, ErrInternal
	}
	return art, nil
}

// Match is the stateless variant of Analyze: explicit tokens and/or free text
// in, scores out. Nothing is stored.
func (u *Analysis) Match(ctx context.Context, in MatchInput) (MatchOutput, error) {
	if err := ctx.Err(); err != nil {
		return MatchOutput{}, err
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		return MatchOutput{}, ErrInvalidInput
	}
	topN, err := u.topN(in.TopN)
	if err != nil {
		return MatchOutput{}, err
	}

	extracted := matching.NormalizeTokens(in.Tokens)
	if strings.TrimSpace(in.Text) != "" {
		extracted = extracted.Union(extract.Skills(in.Text, u.catalog.Vocabulary()))
	}

	res, known := matching.MatchRole(u.catalog, role, extracted)
	return MatchOutput{
		Role:      role,
		RoleKnown: known,
		Result:    res,
		TopRoles:  matching.RankRoles(u.catalog, extracted).Top(topN),
		Extracted: extracted,
	}, nil
}

// topN applies the default and clamps to the catalog size. Negative values
// are rejected.
func (u *Analysis) topN(n int) (int, error) {
	if n < 0 {
		return 0, ErrInvalidInput
	}
	if n == 0 {
		n = u.opts.TopRoles
	}
	if size := u.catalog.Len(); n > size {
		n = size
	}
	if n < 1 {
		n = 1
	}
	return n, nil
}

func (u *Analysis) render(ctx context.Context, a analysis.Analysis) (report.Artifact, error) {
	return u.renderer.Render(ctx, report.Report{
		CandidateName: report.CandidateName(a.Filename),
		SelectedRole:  a.Role,
		Selected:      a.Result,
		TopRoles:      a.TopRoles,
		GeneratedAt:   a.CreatedAt,
	})
}

func (u *Analysis) publish(ctx context.Context, a analysis.Analysis) {
	evt := events.Event{
		Type:       events.TypeAnalysisCompleted,
		AnalysisID: a.ID,
		Role:       a.Role,
		RoleKnown:  a.RoleKnown,
		Score:      a.Result.Score,
		Timestamp:  u.now().UTC(),
	}
	if len(a.TopRoles) > 0 {
		evt.TopRole = a.TopRoles[0].Role
	}
	if err := u.publisher.Publish(ctx, evt); err != nil {
		u.logger.Warn("publish analysis event failed", zap.String("analysis_id", a.ID.String()), zap.Error(err))
	}
}
