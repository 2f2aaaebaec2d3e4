package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cms-api/internal/dto"
	"github.com/noah-isme/cms-api/internal/models"
	"github.com/noah-isme/cms-api/internal/repository"
	appErrors "github.com/noah-isme/cms-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Course, error)
	ListBySemester(ctx context.Context, semester string) ([]models.Course, error)
	ListByDepartmentAndSemester(ctx context.Context, department, semester string) ([]models.Course, error)
	SearchByTitle(ctx context.Context, keyword string) ([]models.Course, error)
	ListByCreditsRange(ctx context.Context, min, max int) ([]models.Course, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// CourseService handles the course catalog.
type CourseService struct {
	repo      courseRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService. cache may be nil.
func NewCourseService(repo courseRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns all courses, served from cache when enabled.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	var cached []models.Course
	if hit, _ := s.cache.Get(ctx, cacheKeyCourses, &cached); hit {
		return cached, nil
	}
	generation := s.cache.Generation(cachePatternCourses)
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list courses")
	}
	_ = s.cache.SetIfCurrent(ctx, cacheKeyCourses, cachePatternCourses, generation, courses, 0)
	return courses, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, fmt.Sprintf("course not found with id: %d", id), "failed to load course")
	}
	return course, nil
}

// GetByCode returns a course by its code.
func (s *CourseService) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	course, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, lookupError(err, "course not found with code: "+code, "failed to load course")
	}
	return course, nil
}

func (s *CourseService) ListByDepartment(ctx context.Context, department string) ([]models.Course, error) {
	courses, err := s.repo.ListByDepartment(ctx, department)
	if err != nil {
		return nil, internalError(err, "failed to list courses")
	}
	return courses, nil
}

func (s *CourseService) ListBySemester(ctx context.Context, semester string) ([]models.Course, error) {
	courses, err := s.repo.ListBySemester(ctx, semester)
	if err != nil {
		return nil, internalError(err, "failed to list courses")
	}
	return courses, nil
}

func (s *CourseService) ListByDepartmentAndSemester(ctx context.Context, department, semester string) ([]models.Course, error) {
	courses, err := s.repo.ListByDepartmentAndSemester(ctx, department, semester)
	if err != nil {
		return nil, internalError(err, "failed to list courses")
	}
	return courses, nil
}

// SearchByTitle returns courses whose title contains keyword, ignoring case.
func (s *CourseService) SearchByTitle(ctx context.Context, keyword string) ([]models.Course, error) {
	courses, err := s.repo.SearchByTitle(ctx, keyword)
	if err != nil {
		return nil, internalError(err, "failed to search courses")
	}
	return courses, nil
}

// ListByCreditsRange returns courses with min <= credits <= max.
func (s *CourseService) ListByCreditsRange(ctx context.Context, min, max int) ([]models.Course, error) {
	courses, err := s.repo.ListByCreditsRange(ctx, min, max)
	if err != nil {
		return nil, internalError(err, "failed to list courses")
	}
	return courses, nil
}

// ExistsByCode reports whether a code is taken.
func (s *CourseService) ExistsByCode(ctx context.Context, code string) (bool, error) {
	exists, err := s.repo.ExistsByCode(ctx, code)
	if err != nil {
		return false, internalError(err, "failed to check course code")
	}
	return exists, nil
}

// Create adds a course to the catalog.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	if err := s.ensureCodeFree(ctx, req.Code); err != nil {
		return nil, err
	}
	course := &models.Course{
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Credits:     req.Credits,
		Semester:    req.Semester,
		Department:  req.Department,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictCode(req.Code)
		}
		return nil, internalError(err, "failed to create course")
	}
	s.invalidate(ctx)
	return course, nil
}

// Update merges non-nil patch fields. A code change is re-checked for uniqueness first.
func (s *CourseService) Update(ctx context.Context, id int64, patch dto.UpdateCoursePatch) (*models.Course, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, validationError(err, "invalid course payload")
	}
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Code != nil && *patch.Code != course.Code {
		if err := s.ensureCodeFree(ctx, *patch.Code); err != nil {
			return nil, err
		}
		course.Code = *patch.Code
	}
	if patch.Title != nil {
		course.Title = *patch.Title
	}
	if patch.Description != nil {
		course.Description = patch.Description
	}
	if patch.Credits != nil {
		course.Credits = *patch.Credits
	}
	if patch.Semester != nil {
		course.Semester = patch.Semester
	}
	if patch.Department != nil {
		course.Department = patch.Department
	}

	if err := s.repo.Update(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictCode(course.Code)
		}
		return nil, internalError(err, "failed to update course")
	}
	s.invalidate(ctx)
	return course, nil
}

// Delete removes a course together with its enrollments.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "failed to delete course")
	}
	s.invalidate(ctx)
	return nil
}

func (s *CourseService) ensureCodeFree(ctx context.Context, code string) error {
	exists, err := s.repo.ExistsByCode(ctx, code)
	if err != nil {
		return internalError(err, "failed to check course code")
	}
	if exists {
		s.logger.Info("course code already registered", zap.String("code", code))
		return conflictCode(code)
	}
	return nil
}

func (s *CourseService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, cachePatternCourses)
}

func conflictCode(code string) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrConflict, "course with code "+code+" already exists")
}
