package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cms-api/internal/models"
)

const enrollmentColumns = `e.id, e.student_id, e.course_id, e.enrollment_date, e.status, e.grade, e.semester, e.academic_year, e.created_at, e.updated_at`

// enrollmentDetailSelect loads an enrollment together with its student and course.
// Nested columns are aliased "student.x" / "course.x" so sqlx fills EnrollmentDetail directly.
var enrollmentDetailSelect = fmt.Sprintf(`SELECT %s, %s, %s
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        JOIN courses c ON c.id = e.course_id`,
	enrollmentColumns,
	nestedColumns("s", "student", studentColumns),
	nestedColumns("c", "course", courseColumns),
)

func nestedColumns(alias, prefix, columns string) string {
	parts := strings.Split(columns, ",")
	out := make([]string, 0, len(parts))
	for _, col := range parts {
		col = strings.TrimSpace(col)
		out = append(out, fmt.Sprintf(`%s.%s AS "%s.%s"`, alias, col, prefix, col))
	}
	return strings.Join(out, ", ")
}

// EnrollmentRepository manages persistence for enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns every enrollment with student and course attached.
func (r *EnrollmentRepository) List(ctx context.Context) ([]models.EnrollmentDetail, error) {
	return r.selectMany(ctx, "list enrollments", "ORDER BY e.id")
}

// FindByID fetches an enrollment detail. Missing rows surface as sql.ErrNoRows.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	query := enrollmentDetailSelect + " WHERE e.id = $1"
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find enrollment by id: %w", err)
	}
	return &detail, nil
}

// ListByStudentID returns enrollments of the student with the given natural key.
func (r *EnrollmentRepository) ListByStudentID(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	return r.selectMany(ctx, "list enrollments by student", "WHERE s.student_id = $1 ORDER BY e.id", studentID)
}

// ListByCourseCode returns enrollments of the course with the given code.
func (r *EnrollmentRepository) ListByCourseCode(ctx context.Context, courseCode string) ([]models.EnrollmentDetail, error) {
	return r.selectMany(ctx, "list enrollments by course", "WHERE c.code = $1 ORDER BY e.id", courseCode)
}

// ListByStatus returns enrollments carrying the status label.
func (r *EnrollmentRepository) ListByStatus(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error) {
	return r.selectMany(ctx, "list enrollments by status", "WHERE e.status = $1 ORDER BY e.id", status)
}

// ListBySemester returns enrollments for a semester.
func (r *EnrollmentRepository) ListBySemester(ctx context.Context, semester string) ([]models.EnrollmentDetail, error) {
	return r.selectMany(ctx, "list enrollments by semester", "WHERE e.semester = $1 ORDER BY e.id", semester)
}

// ListByAcademicYear returns enrollments for an academic year.
func (r *EnrollmentRepository) ListByAcademicYear(ctx context.Context, academicYear string) ([]models.EnrollmentDetail, error) {
	return r.selectMany(ctx, "list enrollments by academic year", "WHERE e.academic_year = $1 ORDER BY e.id", academicYear)
}

// ListBySemesterAndAcademicYear combines the semester and academic year filters.
func (r *EnrollmentRepository) ListBySemesterAndAcademicYear(ctx context.Context, semester, academicYear string) ([]models.EnrollmentDetail, error) {
	return r.selectMany(ctx, "list enrollments by term", "WHERE e.semester = $1 AND e.academic_year = $2 ORDER BY e.id", semester, academicYear)
}

// ExistsByStudentAndCourse reports whether the pair is already enrolled.
func (r *EnrollmentRepository) ExistsByStudentAndCourse(ctx context.Context, studentID, courseID int64) (bool, error) {
	const query = `SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// ExistsByStudentIDAndCourseCode answers the same question by natural keys.
func (r *EnrollmentRepository) ExistsByStudentIDAndCourseCode(ctx context.Context, studentID, courseCode string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM enrollments e
        JOIN students s ON s.id = e.student_id
        JOIN courses c ON c.id = e.course_id
        WHERE s.student_id = $1 AND c.code = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, courseCode); err != nil {
		return false, fmt.Errorf("check enrollment by natural keys: %w", err)
	}
	return exists, nil
}

// CountByCourseCode counts enrollments in a course. Unknown codes count zero.
func (r *EnrollmentRepository) CountByCourseCode(ctx context.Context, courseCode string) (int64, error) {
	const query = `SELECT COUNT(*) FROM enrollments e JOIN courses c ON c.id = e.course_id WHERE c.code = $1`
	var count int64
	if err := r.db.GetContext(ctx, &count, query, courseCode); err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return count, nil
}

// StudentsByCourseCode returns the students enrolled in a course.
func (r *EnrollmentRepository) StudentsByCourseCode(ctx context.Context, courseCode string) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments e
        JOIN students s ON s.id = e.student_id
        JOIN courses c ON c.id = e.course_id
        WHERE c.code = $1 ORDER BY e.id`, qualify("s", studentColumns))
	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query, courseCode); err != nil {
		return nil, fmt.Errorf("list students in course: %w", err)
	}
	return students, nil
}

// CoursesByStudentID returns the courses a student is enrolled in.
func (r *EnrollmentRepository) CoursesByStudentID(ctx context.Context, studentID string) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments e
        JOIN students s ON s.id = e.student_id
        JOIN courses c ON c.id = e.course_id
        WHERE s.student_id = $1 ORDER BY e.id`, qualify("c", courseColumns))
	courses := make([]models.Course, 0)
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list courses for student: %w", err)
	}
	return courses, nil
}

// Create inserts an enrollment and fills in its generated id.
// A second enrollment of the same pair fails with ErrDuplicate.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	now := time.Now().UTC()
	if enrollment.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = now
	}
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now
	const query = `INSERT INTO enrollments (student_id, course_id, enrollment_date, status, grade, semester, academic_year, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.GetContext(ctx, &enrollment.ID, query,
		enrollment.StudentID, enrollment.CourseID, enrollment.EnrollmentDate, enrollment.Status,
		enrollment.Grade, enrollment.Semester, enrollment.AcademicYear, enrollment.CreatedAt, enrollment.UpdatedAt,
	); err != nil {
		return writeErr("create enrollment", err)
	}
	return nil
}

// Update persists status, grade and term fields of an enrollment.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE enrollments SET status = :status, grade = :grade, semester = :semester,
        academic_year = :academic_year, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return writeErr("update enrollment", err)
	}
	return nil
}

// Delete removes an enrollment.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

func (r *EnrollmentRepository) selectMany(ctx context.Context, op, clause string, args ...interface{}) ([]models.EnrollmentDetail, error) {
	query := enrollmentDetailSelect + " " + clause
	details := make([]models.EnrollmentDetail, 0)
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return details, nil
}

func qualify(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, col := range parts {
		parts[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(parts, ", ")
}
