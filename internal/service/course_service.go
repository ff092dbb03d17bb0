package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/models"
	"github.com/coursedeck/coursedeck-api/internal/repository"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
)

const catalogCacheKey = "catalog:preview"

type courseRegistryRepository interface {
	Create(ctx context.Context, course *models.Course) error
	UpdateOwned(ctx context.Context, course *models.Course) error
	ListByOwner(ctx context.Context, adminID string) ([]models.Course, error)
	ListAll(ctx context.Context) ([]models.Course, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CourseConfig tunes catalog caching.
type CourseConfig struct {
	CatalogCacheTTL time.Duration
}

// CourseService implements the admin course registry and the public catalog.
type CourseService struct {
	repo      courseRegistryRepository
	cache     catalogCache
	validator *validator.Validate
	logger    *zap.Logger
	config    CourseConfig
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(repo courseRegistryRepository, cache catalogCache, validate *validator.Validate, logger *zap.Logger, config CourseConfig) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{repo: repo, cache: cache, validator: validate, logger: logger, config: config}
}

// Create stores a new course owned by the authenticated admin. The owner is
// stamped from the caller's identity; the request shape carries no owner
// field to trust or distrust.
func (s *CourseService) Create(ctx context.Context, adminID string, req models.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		OwnerAdminID: adminID,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.invalidateCatalog(ctx)
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("owner_admin_id", adminID))

	return course, nil
}

// Update replaces the mutable fields of one of the caller's own courses.
// A course owned by another admin is reported as not found.
func (s *CourseService) Update(ctx context.Context, adminID string, req models.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course := &models.Course{
		ID:           req.CourseID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		OwnerAdminID: adminID,
	}

	if err := s.repo.UpdateOwned(ctx, course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.invalidateCatalog(ctx)

	return course, nil
}

// ListByOwner returns the caller's own courses only.
func (s *CourseService) ListByOwner(ctx context.Context, adminID string) ([]models.Course, error) {
	courses, err := s.repo.ListByOwner(ctx, adminID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Preview returns the full public catalog, served from cache when warm.
// Cache failures fall through to the database.
func (s *CourseService) Preview(ctx context.Context) ([]models.Course, error) {
	if s.cache != nil {
		var cached []models.Course
		err := s.cache.Get(ctx, catalogCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	courses, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, catalogCacheKey, courses, s.config.CatalogCacheTTL); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}

	return courses, nil
}

func (s *CourseService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
