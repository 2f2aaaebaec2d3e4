package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cms-api/internal/dto"
	"github.com/noah-isme/cms-api/internal/models"
	appErrors "github.com/noah-isme/cms-api/pkg/errors"
)

func sampleDetail() *models.EnrollmentDetail {
	return &models.EnrollmentDetail{
		Enrollment: models.Enrollment{ID: 7, StudentID: 1, CourseID: 2, Status: models.EnrollmentStatusEnrolled},
		Student:    models.Student{ID: 1, StudentID: "S001"},
		Course:     models.Course{ID: 2, Code: "CS101"},
	}
}

func TestEnrollmentHandlerCreate(t *testing.T) {
	svc := &enrollmentServiceMock{detail: sampleDetail()}
	h := NewEnrollmentHandler(svc, &rosterExporterMock{})
	c, w := newContext(http.MethodPost, "/enrollments", `{"studentId":"S001","courseCode":"CS101","semester":"Fall","academicYear":"2024-2025"}`)

	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "S001", svc.lastCreate.StudentID)
	assert.Equal(t, "CS101", svc.lastCreate.CourseCode)
	require.NotNil(t, svc.lastCreate.AcademicYear)
	assert.Equal(t, "2024-2025", *svc.lastCreate.AcademicYear)
	assert.Contains(t, w.Body.String(), `"student":{`)
	assert.Contains(t, w.Body.String(), `"code":"CS101"`)
}

func TestEnrollmentHandlerCreateDuplicate(t *testing.T) {
	svc := &enrollmentServiceMock{err: appErrors.Clone(appErrors.ErrConflict, "student S001 is already enrolled in course CS101")}
	h := NewEnrollmentHandler(svc, &rosterExporterMock{})
	c, w := newContext(http.MethodPost, "/enrollments", `{"studentId":"S001","courseCode":"CS101"}`)

	h.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already enrolled")
}

func TestEnrollmentHandlerUpdateStatusUppercases(t *testing.T) {
	svc := &enrollmentServiceMock{detail: sampleDetail()}
	h := NewEnrollmentHandler(svc, &rosterExporterMock{})
	c, w := newContext(http.MethodPut, "/enrollments/7/status", `{"status":"in_progress"}`, "id", "7")

	h.UpdateStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), svc.lastID)
	assert.Equal(t, models.EnrollmentStatusInProgress, svc.lastStatus)
}

func TestEnrollmentHandlerUpdateGrade(t *testing.T) {
	t.Run("grade set", func(t *testing.T) {
		svc := &enrollmentServiceMock{detail: sampleDetail()}
		c, w := newContext(http.MethodPut, "/enrollments/7/grade", `{"grade":"A"}`, "id", "7")
		NewEnrollmentHandler(svc, nil).UpdateGrade(c)
		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, svc.lastGrade)
		assert.Equal(t, "A", *svc.lastGrade)
	})

	t.Run("grade cleared", func(t *testing.T) {
		svc := &enrollmentServiceMock{detail: sampleDetail()}
		c, w := newContext(http.MethodPut, "/enrollments/7/grade", `{"grade":null}`, "id", "7")
		NewEnrollmentHandler(svc, nil).UpdateGrade(c)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, svc.lastGrade)
	})

	t.Run("unknown enrollment", func(t *testing.T) {
		svc := &enrollmentServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "enrollment not found with id: 99")}
		c, w := newContext(http.MethodPut, "/enrollments/99/grade", `{"grade":"B"}`, "id", "99")
		NewEnrollmentHandler(svc, nil).UpdateGrade(c)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("oversized grade", func(t *testing.T) {
		svc := &enrollmentServiceMock{err: appErrors.Clone(appErrors.ErrValidation, "invalid grade")}
		c, w := newContext(http.MethodPut, "/enrollments/7/grade", `{"grade":"EXCELLENT"}`, "id", "7")
		NewEnrollmentHandler(svc, nil).UpdateGrade(c)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})
}

func TestEnrollmentHandlerListByStatus(t *testing.T) {
	svc := &enrollmentServiceMock{details: []models.EnrollmentDetail{*sampleDetail()}}
	c, w := newContext(http.MethodGet, "/enrollments/status/completed", "", "status", "completed")

	NewEnrollmentHandler(svc, nil).ListByStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.EnrollmentStatusCompleted, svc.lastStatus)
}

func TestEnrollmentHandlerListBySemesterAndAcademicYear(t *testing.T) {
	svc := &enrollmentServiceMock{details: []models.EnrollmentDetail{}}
	c, w := newContext(http.MethodGet, "/enrollments/semester/Fall/academic-year/2024-2025", "", "semester", "Fall", "academicYear", "2024-2025")

	NewEnrollmentHandler(svc, nil).ListBySemesterAndAcademicYear(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Fall", "2024-2025"}, svc.lastKeys)
}

func TestEnrollmentHandlerCount(t *testing.T) {
	svc := &enrollmentServiceMock{count: 12}
	c, w := newContext(http.MethodGet, "/enrollments/course/CS101/count", "", "courseCode", "CS101")

	NewEnrollmentHandler(svc, nil).Count(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"courseCode":"CS101","count":12}}`, w.Body.String())
}

func TestEnrollmentHandlerCheck(t *testing.T) {
	t.Run("both keys required", func(t *testing.T) {
		svc := &enrollmentServiceMock{}
		c, w := newContext(http.MethodGet, "/enrollments/check?studentId=S001", "")
		NewEnrollmentHandler(svc, nil).Check(c)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, svc.lastKeys)
	})

	t.Run("enrolled", func(t *testing.T) {
		svc := &enrollmentServiceMock{enrolled: true}
		c, w := newContext(http.MethodGet, "/enrollments/check?studentId=S001&courseCode=CS101", "")
		NewEnrollmentHandler(svc, nil).Check(c)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"studentId":"S001","courseCode":"CS101","enrolled":true}}`, w.Body.String())
	})
}

func TestEnrollmentHandlerStudentsInCourseEmpty(t *testing.T) {
	svc := &enrollmentServiceMock{students: []models.Student{}}
	c, w := newContext(http.MethodGet, "/enrollments/course/NOPE/students", "", "courseCode", "NOPE")

	NewEnrollmentHandler(svc, nil).StudentsInCourse(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

func TestEnrollmentHandlerExport(t *testing.T) {
	t.Run("defaults to csv", func(t *testing.T) {
		exporter := &rosterExporterMock{file: &dto.ExportFile{Filename: "CS101-roster.csv", ContentType: "text/csv", Body: []byte("a,b\n")}}
		c, w := newContext(http.MethodGet, "/enrollments/course/CS101/export", "", "courseCode", "CS101")
		NewEnrollmentHandler(&enrollmentServiceMock{}, exporter).Export(c)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, dto.ExportFormatCSV, exporter.lastFormat)
		assert.Equal(t, "CS101", exporter.lastCode)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "CS101-roster.csv")
		assert.Equal(t, "a,b\n", w.Body.String())
	})

	t.Run("unknown course", func(t *testing.T) {
		exporter := &rosterExporterMock{err: appErrors.Clone(appErrors.ErrNotFound, "course not found with code: X")}
		c, w := newContext(http.MethodGet, "/enrollments/course/X/export?format=pdf", "", "courseCode", "X")
		NewEnrollmentHandler(&enrollmentServiceMock{}, exporter).Export(c)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ExportFormatPDF, exporter.lastFormat)
	})
}

func TestEnrollmentHandlerDeleteInvalidID(t *testing.T) {
	svc := &enrollmentServiceMock{}
	c, w := newContext(http.MethodDelete, "/enrollments/0", "", "id", "0")

	NewEnrollmentHandler(svc, nil).Delete(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.lastID)
}
