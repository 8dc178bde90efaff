package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wrd-mh/pah-award-api/internal/models"
	appErrors "github.com/wrd-mh/pah-award-api/pkg/errors"
)

type dashboardStatsRepository interface {
	CountByYear(ctx context.Context, year int) (int, error)
	CountsByStage(ctx context.Context, year int) ([]models.PipelineStageCount, error)
	CountsByTier(ctx context.Context, year int) ([]models.TierCount, error)
	RecentDecisions(ctx context.Context, year, limit int) ([]models.RecentDecision, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL            time.Duration
	RecentDecisionLimit int
}

// DashboardService composes the pipeline overview for administrators.
type DashboardService struct {
	repo   dashboardStatsRepository
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	cfg    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(repo dashboardStatsRepository, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RecentDecisionLimit <= 0 {
		cfg.RecentDecisionLimit = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, logger: logger, now: time.Now, cfg: cfg}
}

// Stats returns the pipeline summary for a year and indicates cache
// utilisation.
func (s *DashboardService) Stats(ctx context.Context, year int) (*models.DashboardStats, bool, error) {
	if year <= 0 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "year is required")
	}
	cacheKey := fmt.Sprintf("nominations:dashboard:%d", year)
	if s.cache != nil {
		var cached models.DashboardStats
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			return nil, false, err
		}
		if hit {
			return &cached, true, nil
		}
	}

	stats, err := s.compose(ctx, year)
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, stats, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return stats, false, nil
}

func (s *DashboardService) compose(ctx context.Context, year int) (*models.DashboardStats, error) {
	total, err := s.repo.CountByYear(ctx, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count nominations")
	}
	byStage, err := s.repo.CountsByStage(ctx, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate pipeline counts")
	}
	byTier, err := s.repo.CountsByTier(ctx, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate tier counts")
	}
	recent, err := s.repo.RecentDecisions(ctx, year, s.cfg.RecentDecisionLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent decisions")
	}

	winners := 0
	for _, tier := range byTier {
		if tier.Tier != models.AwardTierNone {
			winners += tier.Count
		}
	}
	rejected := 0
	for _, stage := range byStage {
		if stage.Status == models.StatusRejected {
			rejected += stage.Count
		}
	}

	return &models.DashboardStats{
		Year:             year,
		TotalNominations: total,
		ByStage:          byStage,
		ByTier:           byTier,
		Winners:          winners,
		Rejected:         rejected,
		RecentDecisions:  recent,
		GeneratedAt:      s.now().UTC(),
	}, nil
}
