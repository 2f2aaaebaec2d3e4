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

const studentColumns = `id, student_id, first_name, last_name, email, phone, department, year_of_study, created_at, updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns every student ordered by surrogate id.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	return r.selectMany(ctx, "list students", "ORDER BY id")
}

// FindByID fetches a student by surrogate id. Missing rows surface as sql.ErrNoRows.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.selectOne(ctx, "find student by id", "WHERE id = $1", id)
}

// FindByStudentID fetches a student by natural key.
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	return r.selectOne(ctx, "find student by student id", "WHERE student_id = $1", studentID)
}

// FindByEmail fetches a student by email.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.selectOne(ctx, "find student by email", "WHERE email = $1", email)
}

// ListByDepartment returns students of a department.
func (r *StudentRepository) ListByDepartment(ctx context.Context, department string) ([]models.Student, error) {
	return r.selectMany(ctx, "list students by department", "WHERE department = $1 ORDER BY id", department)
}

// ListByYearOfStudy returns students in the given year.
func (r *StudentRepository) ListByYearOfStudy(ctx context.Context, year int) ([]models.Student, error) {
	return r.selectMany(ctx, "list students by year", "WHERE year_of_study = $1 ORDER BY id", year)
}

// ListByDepartmentAndYear combines the department and year filters.
func (r *StudentRepository) ListByDepartmentAndYear(ctx context.Context, department string, year int) ([]models.Student, error) {
	return r.selectMany(ctx, "list students by department and year", "WHERE department = $1 AND year_of_study = $2 ORDER BY id", department, year)
}

// SearchByName matches the keyword case-insensitively against first or last name.
func (r *StudentRepository) SearchByName(ctx context.Context, keyword string) ([]models.Student, error) {
	pattern := "%" + strings.ToLower(keyword) + "%"
	return r.selectMany(ctx, "search students", "WHERE LOWER(first_name) LIKE $1 OR LOWER(last_name) LIKE $1 ORDER BY id", pattern)
}

// ExistsByStudentID reports whether the natural key is taken.
func (r *StudentRepository) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	return r.exists(ctx, "check student id", "student_id", studentID)
}

// ExistsByEmail reports whether the email is taken.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "check student email", "email", email)
}

// Create inserts a new student and fills in its generated id.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (student_id, first_name, last_name, email, phone, department, year_of_study, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.GetContext(ctx, &student.ID, query,
		student.StudentID, student.FirstName, student.LastName, student.Email,
		student.Phone, student.Department, student.YearOfStudy, student.CreatedAt, student.UpdatedAt,
	); err != nil {
		return writeErr("create student", err)
	}
	return nil
}

// Update overwrites every mutable column of an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET student_id = :student_id, first_name = :first_name, last_name = :last_name, email = :email,
        phone = :phone, department = :department, year_of_study = :year_of_study, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return writeErr("update student", err)
	}
	return nil
}

// Delete removes a student; enrollments cascade.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

func (r *StudentRepository) selectOne(ctx context.Context, op, where string, args ...interface{}) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students %s", studentColumns, where)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &student, nil
}

func (r *StudentRepository) selectMany(ctx context.Context, op, clause string, args ...interface{}) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students %s", studentColumns, clause)
	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return students, nil
}

func (r *StudentRepository) exists(ctx context.Context, op, column, value string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM students WHERE %s = $1 LIMIT 1", column)
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}
