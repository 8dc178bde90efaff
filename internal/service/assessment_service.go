package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wrd-mh/pah-award-api/internal/models"
	appErrors "github.com/wrd-mh/pah-award-api/pkg/errors"
)

const rubricCacheKey = "nominations:rubric"

// AssessmentService serves the self-assessment rubric. The rubric is
// reference data that changes only between award cycles, so it is cached
// aggressively when a cache is attached.
type AssessmentService struct {
	repo     rubricProvider
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewAssessmentService constructs the service.
func NewAssessmentService(repo rubricProvider, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *AssessmentService {
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Rubric returns the assessment modules with their questions.
func (s *AssessmentService) Rubric(ctx context.Context) (*models.Rubric, error) {
	if s.cache != nil {
		var cached models.Rubric
		hit, err := s.cache.Get(ctx, rubricCacheKey, &cached)
		if err == nil && hit {
			return &cached, nil
		}
	}

	rubric, err := s.repo.Rubric(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessment rubric")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rubricCacheKey, rubric, s.cacheTTL); err != nil {
			s.logger.Warn("rubric cache write failed", zap.Error(err))
		}
	}
	return rubric, nil
}
