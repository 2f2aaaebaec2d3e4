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

const courseColumns = `id, code, title, description, credits, semester, department, created_at, updated_at`

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns all courses ordered by id.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	return r.selectMany(ctx, "list courses", "ORDER BY id")
}

// FindByID fetches a course by id. Missing rows surface as sql.ErrNoRows.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	return r.selectOne(ctx, "find course by id", "WHERE id = $1", id)
}

// FindByCode fetches a course by its unique code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	return r.selectOne(ctx, "find course by code", "WHERE code = $1", code)
}

// ListByDepartment returns the courses offered by a department.
func (r *CourseRepository) ListByDepartment(ctx context.Context, department string) ([]models.Course, error) {
	return r.selectMany(ctx, "list courses by department", "WHERE department = $1 ORDER BY id", department)
}

// ListBySemester returns the courses scheduled for a semester.
func (r *CourseRepository) ListBySemester(ctx context.Context, semester string) ([]models.Course, error) {
	return r.selectMany(ctx, "list courses by semester", "WHERE semester = $1 ORDER BY id", semester)
}

// ListByDepartmentAndSemester combines both filters.
func (r *CourseRepository) ListByDepartmentAndSemester(ctx context.Context, department, semester string) ([]models.Course, error) {
	return r.selectMany(ctx, "list courses by department and semester", "WHERE department = $1 AND semester = $2 ORDER BY id", department, semester)
}

// SearchByTitle matches a case-insensitive substring of the title.
func (r *CourseRepository) SearchByTitle(ctx context.Context, keyword string) ([]models.Course, error) {
	return r.selectMany(ctx, "search courses", "WHERE LOWER(title) LIKE $1 ORDER BY id", "%"+strings.ToLower(keyword)+"%")
}

// ListByCreditsRange returns courses with min <= credits <= max.
func (r *CourseRepository) ListByCreditsRange(ctx context.Context, min, max int) ([]models.Course, error) {
	return r.selectMany(ctx, "list courses by credits", "WHERE credits BETWEEN $1 AND $2 ORDER BY id", min, max)
}

// ExistsByCode reports whether a course code is taken.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM courses WHERE code = $1 LIMIT 1`, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// Create inserts a course and fills in its generated id.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (code, title, description, credits, semester, department, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.GetContext(ctx, &course.ID, query,
		course.Code, course.Title, course.Description, course.Credits,
		course.Semester, course.Department, course.CreatedAt, course.UpdatedAt,
	); err != nil {
		return writeErr("create course", err)
	}
	return nil
}

// Update overwrites the mutable columns of a course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET code = :code, title = :title, description = :description, credits = :credits,
        semester = :semester, department = :department, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return writeErr("update course", err)
	}
	return nil
}

// Delete removes a course; enrollments cascade.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

func (r *CourseRepository) selectOne(ctx context.Context, op, where string, args ...interface{}) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses %s", courseColumns, where)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &course, nil
}

func (r *CourseRepository) selectMany(ctx context.Context, op, clause string, args ...interface{}) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses %s", courseColumns, clause)
	courses := make([]models.Course, 0)
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return courses, nil
}
