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

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Student, error)
	ListByYearOfStudy(ctx context.Context, year int) ([]models.Student, error)
	ListByDepartmentAndYear(ctx context.Context, department string, year int) ([]models.Student, error)
	SearchByName(ctx context.Context, keyword string) ([]models.Student, error)
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service. cache may be nil.
func NewStudentService(repo studentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every student, served from cache when enabled.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	var cached []models.Student
	if hit, _ := s.cache.Get(ctx, cacheKeyStudents, &cached); hit {
		return cached, nil
	}
	generation := s.cache.Generation(cachePatternStudents)
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	_ = s.cache.SetIfCurrent(ctx, cacheKeyStudents, cachePatternStudents, generation, students, 0)
	return students, nil
}

// Get returns a student by surrogate id.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, fmt.Sprintf("student not found with id: %d", id), "failed to load student")
	}
	return student, nil
}

// GetByStudentID returns a student by natural key.
func (s *StudentService) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	student, err := s.repo.FindByStudentID(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "student not found with ID: "+studentID, "failed to load student")
	}
	return student, nil
}

// GetByEmail returns a student by email.
func (s *StudentService) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	student, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, lookupError(err, "student not found with email: "+email, "failed to load student")
	}
	return student, nil
}

// ListByDepartment returns students of a department.
func (s *StudentService) ListByDepartment(ctx context.Context, department string) ([]models.Student, error) {
	students, err := s.repo.ListByDepartment(ctx, department)
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	return students, nil
}

// ListByYearOfStudy returns students in the given year.
func (s *StudentService) ListByYearOfStudy(ctx context.Context, year int) ([]models.Student, error) {
	students, err := s.repo.ListByYearOfStudy(ctx, year)
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	return students, nil
}

// ListByDepartmentAndYear combines department and year filters.
func (s *StudentService) ListByDepartmentAndYear(ctx context.Context, department string, year int) ([]models.Student, error) {
	students, err := s.repo.ListByDepartmentAndYear(ctx, department, year)
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	return students, nil
}

// SearchByName matches first or last name, ignoring case.
func (s *StudentService) SearchByName(ctx context.Context, keyword string) ([]models.Student, error) {
	students, err := s.repo.SearchByName(ctx, keyword)
	if err != nil {
		return nil, internalError(err, "failed to search students")
	}
	return students, nil
}

// ExistsByStudentID reports whether the natural key is taken.
func (s *StudentService) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	exists, err := s.repo.ExistsByStudentID(ctx, studentID)
	if err != nil {
		return false, internalError(err, "failed to check student id")
	}
	return exists, nil
}

// ExistsByEmail reports whether the email is taken.
func (s *StudentService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, internalError(err, "failed to check student email")
	}
	return exists, nil
}

// Create registers a new student. The student id is checked before the email.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	if err := s.ensureStudentIDFree(ctx, req.StudentID); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	student := &models.Student{
		StudentID:   req.StudentID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Department:  req.Department,
		YearOfStudy: req.YearOfStudy,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student with ID "+req.StudentID+" or email "+req.Email+" already exists")
		}
		return nil, internalError(err, "failed to create student")
	}
	s.invalidate(ctx)
	return student, nil
}

// Update merges the non-nil patch fields into the stored student.
func (s *StudentService) Update(ctx context.Context, id int64, patch dto.UpdateStudentPatch) (*models.Student, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.StudentID != nil && *patch.StudentID != student.StudentID {
		if err := s.ensureStudentIDFree(ctx, *patch.StudentID); err != nil {
			return nil, err
		}
		student.StudentID = *patch.StudentID
	}
	if patch.Email != nil && *patch.Email != student.Email {
		if err := s.ensureEmailFree(ctx, *patch.Email); err != nil {
			return nil, err
		}
		student.Email = *patch.Email
	}
	if patch.FirstName != nil {
		student.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		student.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		student.Phone = patch.Phone
	}
	if patch.Department != nil {
		student.Department = patch.Department
	}
	if patch.YearOfStudy != nil {
		student.YearOfStudy = patch.YearOfStudy
	}

	if err := s.repo.Update(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student with ID "+student.StudentID+" or email "+student.Email+" already exists")
		}
		return nil, internalError(err, "failed to update student")
	}
	s.invalidate(ctx)
	return student, nil
}

// Delete removes a student together with its enrollments.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "failed to delete student")
	}
	s.invalidate(ctx)
	return nil
}

func (s *StudentService) ensureStudentIDFree(ctx context.Context, studentID string) error {
	exists, err := s.repo.ExistsByStudentID(ctx, studentID)
	if err != nil {
		return internalError(err, "failed to check student id")
	}
	if exists {
		s.logger.Info("student id already registered", zap.String("student_id", studentID))
		return appErrors.Clone(appErrors.ErrConflict, "student with ID "+studentID+" already exists")
	}
	return nil
}

func (s *StudentService) ensureEmailFree(ctx context.Context, email string) error {
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return internalError(err, "failed to check student email")
	}
	if exists {
		s.logger.Info("student email already registered", zap.String("email", email))
		return appErrors.Clone(appErrors.ErrConflict, "student with email "+email+" already exists")
	}
	return nil
}

func (s *StudentService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, cachePatternStudents)
}
