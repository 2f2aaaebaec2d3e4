package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cms-api/internal/models"
)

func detailColumns() []string {
	cols := []string{"id", "student_id", "course_id", "enrollment_date", "status", "grade", "semester", "academic_year", "created_at", "updated_at"}
	for _, c := range studentCols {
		cols = append(cols, "student."+c)
	}
	for _, c := range courseCols {
		cols = append(cols, "course."+c)
	}
	return cols
}

func TestEnrollmentRepositoryFindByIDLoadsStudentAndCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(detailColumns()).AddRow(
		10, 1, 2, now, "ENROLLED", nil, "FALL", "2024/2025", now, now,
		1, "S001", "Ada", "Lovelace", "ada@example.com", nil, "CS", 2, now, now,
		2, "CS101", "Intro", nil, 3, "FALL", "CS", now, now,
	)
	mock.ExpectQuery(regexp.QuoteMeta(`s.student_id AS "student.student_id"`) + ".*" + regexp.QuoteMeta("WHERE e.id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(rows)

	detail, err := repo.FindByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), detail.ID)
	assert.Equal(t, int64(1), detail.StudentID)
	assert.Equal(t, "S001", detail.Student.StudentID)
	assert.Equal(t, "CS101", detail.Course.Code)
	assert.Equal(t, models.EnrollmentStatusEnrolled, detail.Status)
	assert.Nil(t, detail.Grade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListBySemesterAndAcademicYear(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.semester = $1 AND e.academic_year = $2 ORDER BY e.id")).
		WithArgs("FALL", "2024/2025").
		WillReturnRows(sqlmock.NewRows(detailColumns()))

	details, err := repo.ListBySemesterAndAcademicYear(context.Background(), "FALL", "2024/2025")
	require.NoError(t, err)
	assert.Empty(t, details)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateDuplicatePair(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("INSERT INTO enrollments").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "ux_enrollments_student_course"})

	err := repo.Create(context.Background(), &models.Enrollment{StudentID: 1, CourseID: 2, Status: models.EnrollmentStatusEnrolled})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateMissingStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("INSERT INTO enrollments").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "enrollments_student_id_fkey"})

	err := repo.Create(context.Background(), &models.Enrollment{StudentID: 1, CourseID: 2, Status: models.EnrollmentStatusEnrolled})
	assert.ErrorIs(t, err, ErrMissingReference)
	assert.NotErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "enrollments_student_id_fkey")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("INSERT INTO enrollments").
		WithArgs(int64(1), int64(2), sqlmock.AnyArg(), models.EnrollmentStatusEnrolled, nil, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	enrollment := &models.Enrollment{StudentID: 1, CourseID: 2, Status: models.EnrollmentStatusEnrolled}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	assert.Equal(t, int64(42), enrollment.ID)
	assert.False(t, enrollment.EnrollmentDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCountByCourseCode(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM enrollments e JOIN courses c ON c.id = e.course_id WHERE c.code = $1")).
		WithArgs("CS101").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByCourseCode(context.Background(), "CS101")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExistsByNaturalKeys(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("S001", "CS101").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsByStudentIDAndCourseCode(context.Background(), "S001", "CS101")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryStudentsByCourseCode(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.student_id")).
		WithArgs("CS101").
		WillReturnRows(sqlmock.NewRows(studentCols).AddRow(1, "S001", "Ada", "Lovelace", "ada@example.com", nil, nil, nil, now, now))

	students, err := repo.StudentsByCourseCode(context.Background(), "CS101")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "S001", students[0].StudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("UPDATE enrollments SET").WillReturnResult(sqlmock.NewResult(0, 1))

	grade := "A"
	require.NoError(t, repo.Update(context.Background(), &models.Enrollment{ID: 1, Status: models.EnrollmentStatusCompleted, Grade: &grade}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
