package repository

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var (
	studentCols = []string{"id", "student_id", "first_name", "last_name", "email", "phone", "department", "year_of_study", "created_at", "updated_at"}
	courseCols  = []string{"id", "code", "title", "description", "credits", "semester", "department", "created_at", "updated_at"}
)
