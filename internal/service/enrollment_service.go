package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cms-api/internal/dto"
	"github.com/noah-isme/cms-api/internal/models"
	"github.com/noah-isme/cms-api/internal/repository"
	appErrors "github.com/noah-isme/cms-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context) ([]models.EnrollmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	ListByStudentID(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
	ListByCourseCode(ctx context.Context, courseCode string) ([]models.EnrollmentDetail, error)
	ListByStatus(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error)
	ListBySemester(ctx context.Context, semester string) ([]models.EnrollmentDetail, error)
	ListByAcademicYear(ctx context.Context, academicYear string) ([]models.EnrollmentDetail, error)
	ListBySemesterAndAcademicYear(ctx context.Context, semester, academicYear string) ([]models.EnrollmentDetail, error)
	ExistsByStudentAndCourse(ctx context.Context, studentID, courseID int64) (bool, error)
	ExistsByStudentIDAndCourseCode(ctx context.Context, studentID, courseCode string) (bool, error)
	CountByCourseCode(ctx context.Context, courseCode string) (int64, error)
	StudentsByCourseCode(ctx context.Context, courseCode string) ([]models.Student, error)
	CoursesByStudentID(ctx context.Context, studentID string) ([]models.Course, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id int64) error
}

type studentReader interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Student, error)
}

type courseReader interface {
	FindByCode(ctx context.Context, code string) (*models.Course, error)
}

// EnrollmentService orchestrates enrollment workflows.
type EnrollmentService struct {
	repo      enrollmentRepository
	students  studentReader
	courses   courseReader
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs EnrollmentService. metrics may be nil.
func NewEnrollmentService(repo enrollmentRepository, students studentReader, courses courseReader, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:      repo,
		students:  students,
		courses:   courses,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create enrolls a student in a course.
//
// The student is resolved before the course, and the pair is checked for an
// existing enrollment before inserting. The unique index on (student, course)
// catches the concurrent case, which is reported the same way.
func (s *EnrollmentService) Create(ctx context.Context, req dto.CreateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid enrollment payload")
	}

	student, err := s.students.FindByStudentID(ctx, req.StudentID)
	if err != nil {
		s.record(EnrollmentOutcomeStudentNotFound, err)
		return nil, lookupError(err, "student not found with ID: "+req.StudentID, "failed to load student")
	}

	course, err := s.courses.FindByCode(ctx, req.CourseCode)
	if err != nil {
		s.record(EnrollmentOutcomeCourseNotFound, err)
		return nil, lookupError(err, "course not found with code: "+req.CourseCode, "failed to load course")
	}

	exists, err := s.repo.ExistsByStudentAndCourse(ctx, student.ID, course.ID)
	if err != nil {
		s.metrics.RecordEnrollment(EnrollmentOutcomeError)
		return nil, internalError(err, "failed to check enrollment")
	}
	if exists {
		return nil, s.duplicate(req)
	}

	enrollment := models.Enrollment{
		StudentID:      student.ID,
		CourseID:       course.ID,
		EnrollmentDate: s.now(),
		Status:         models.EnrollmentStatusEnrolled,
		Semester:       req.Semester,
		AcademicYear:   req.AcademicYear,
	}
	if err := s.repo.Create(ctx, &enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.duplicate(req)
		}
		if errors.Is(err, repository.ErrMissingReference) {
			s.metrics.RecordEnrollment(EnrollmentOutcomeError)
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s or course %s no longer exists", req.StudentID, req.CourseCode))
		}
		s.metrics.RecordEnrollment(EnrollmentOutcomeError)
		return nil, internalError(err, "failed to create enrollment")
	}

	s.metrics.RecordEnrollment(EnrollmentOutcomeCreated)
	s.logger.Info("student enrolled",
		zap.Int64("enrollment_id", enrollment.ID),
		zap.String("student_id", student.StudentID),
		zap.String("course_code", course.Code),
	)
	return &models.EnrollmentDetail{Enrollment: enrollment, Student: *student, Course: *course}, nil
}

// UpdateStatus overwrites the status label. Any known status may follow any other.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) (*models.EnrollmentDetail, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown enrollment status: %s", status))
	}
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Status = status
	if err := s.repo.Update(ctx, &detail.Enrollment); err != nil {
		return nil, internalError(err, "failed to update enrollment status")
	}
	return detail, nil
}

// UpdateGrade sets the grade; nil clears it. A non-blank grade marks the
// enrollment COMPLETED, while clearing a grade leaves the status as it was.
func (s *EnrollmentService) UpdateGrade(ctx context.Context, id int64, grade *string) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(dto.UpdateEnrollmentGradeRequest{Grade: grade}); err != nil {
		return nil, validationError(err, "invalid grade")
	}
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Grade = grade
	if grade != nil && strings.TrimSpace(*grade) != "" {
		detail.Status = models.EnrollmentStatusCompleted
	}
	if err := s.repo.Update(ctx, &detail.Enrollment); err != nil {
		return nil, internalError(err, "failed to update enrollment grade")
	}
	return detail, nil
}

// Delete removes an enrollment.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return internalError(err, "failed to delete enrollment")
	}
	return nil
}

// List returns every enrollment.
func (s *EnrollmentService) List(ctx context.Context) ([]models.EnrollmentDetail, error) {
	return s.list(s.repo.List(ctx))
}

// Get returns one enrollment with its student and course.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, fmt.Sprintf("enrollment not found with id: %d", id), "failed to load enrollment")
	}
	return detail, nil
}

func (s *EnrollmentService) ListByStudentID(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	return s.list(s.repo.ListByStudentID(ctx, studentID))
}

func (s *EnrollmentService) ListByCourseCode(ctx context.Context, courseCode string) ([]models.EnrollmentDetail, error) {
	return s.list(s.repo.ListByCourseCode(ctx, courseCode))
}

func (s *EnrollmentService) ListByStatus(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown enrollment status: %s", status))
	}
	return s.list(s.repo.ListByStatus(ctx, status))
}

func (s *EnrollmentService) ListBySemester(ctx context.Context, semester string) ([]models.EnrollmentDetail, error) {
	return s.list(s.repo.ListBySemester(ctx, semester))
}

func (s *EnrollmentService) ListByAcademicYear(ctx context.Context, academicYear string) ([]models.EnrollmentDetail, error) {
	return s.list(s.repo.ListByAcademicYear(ctx, academicYear))
}

func (s *EnrollmentService) ListBySemesterAndAcademicYear(ctx context.Context, semester, academicYear string) ([]models.EnrollmentDetail, error) {
	return s.list(s.repo.ListBySemesterAndAcademicYear(ctx, semester, academicYear))
}

// StudentsInCourse returns the students enrolled in a course. Unknown codes yield an empty list.
func (s *EnrollmentService) StudentsInCourse(ctx context.Context, courseCode string) ([]models.Student, error) {
	students, err := s.repo.StudentsByCourseCode(ctx, courseCode)
	if err != nil {
		return nil, internalError(err, "failed to list students in course")
	}
	return students, nil
}

// CoursesForStudent returns the courses a student is enrolled in.
func (s *EnrollmentService) CoursesForStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	courses, err := s.repo.CoursesByStudentID(ctx, studentID)
	if err != nil {
		return nil, internalError(err, "failed to list courses for student")
	}
	return courses, nil
}

// CountForCourse counts enrollments in a course.
func (s *EnrollmentService) CountForCourse(ctx context.Context, courseCode string) (int64, error) {
	count, err := s.repo.CountByCourseCode(ctx, courseCode)
	if err != nil {
		return 0, internalError(err, "failed to count enrollments")
	}
	return count, nil
}

// IsEnrolled reports whether the student is enrolled in the course, by natural keys.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, studentID, courseCode string) (bool, error) {
	enrolled, err := s.repo.ExistsByStudentIDAndCourseCode(ctx, studentID, courseCode)
	if err != nil {
		return false, internalError(err, "failed to check enrollment")
	}
	return enrolled, nil
}

func (s *EnrollmentService) list(details []models.EnrollmentDetail, err error) ([]models.EnrollmentDetail, error) {
	if err != nil {
		return nil, internalError(err, "failed to list enrollments")
	}
	return details, nil
}

func (s *EnrollmentService) duplicate(req dto.CreateEnrollmentRequest) *appErrors.Error {
	s.metrics.RecordEnrollment(EnrollmentOutcomeDuplicate)
	s.logger.Info("duplicate enrollment rejected",
		zap.String("student_id", req.StudentID),
		zap.String("course_code", req.CourseCode),
	)
	return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("student %s is already enrolled in course %s", req.StudentID, req.CourseCode))
}

// record counts a failed lookup, treating only missing rows as the named outcome.
func (s *EnrollmentService) record(outcome string, err error) {
	if !errors.Is(err, sql.ErrNoRows) {
		outcome = EnrollmentOutcomeError
	}
	s.metrics.RecordEnrollment(outcome)
}
