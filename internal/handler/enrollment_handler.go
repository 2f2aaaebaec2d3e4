package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cms-api/internal/dto"
	"github.com/noah-isme/cms-api/internal/models"
	"github.com/noah-isme/cms-api/pkg/response"
)

type enrollmentService interface {
	List(ctx context.Context) ([]models.EnrollmentDetail, error)
	Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	ListByStudentID(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
	ListByCourseCode(ctx context.Context, courseCode string) ([]models.EnrollmentDetail, error)
	ListByStatus(ctx context.Context, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error)
	ListBySemester(ctx context.Context, semester string) ([]models.EnrollmentDetail, error)
	ListByAcademicYear(ctx context.Context, academicYear string) ([]models.EnrollmentDetail, error)
	ListBySemesterAndAcademicYear(ctx context.Context, semester, academicYear string) ([]models.EnrollmentDetail, error)
	StudentsInCourse(ctx context.Context, courseCode string) ([]models.Student, error)
	CoursesForStudent(ctx context.Context, studentID string) ([]models.Course, error)
	CountForCourse(ctx context.Context, courseCode string) (int64, error)
	IsEnrolled(ctx context.Context, studentID, courseCode string) (bool, error)
	Create(ctx context.Context, req dto.CreateEnrollmentRequest) (*models.EnrollmentDetail, error)
	UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) (*models.EnrollmentDetail, error)
	UpdateGrade(ctx context.Context, id int64, grade *string) (*models.EnrollmentDetail, error)
	Delete(ctx context.Context, id int64) error
}

type rosterExporter interface {
	CourseRoster(ctx context.Context, courseCode string, format dto.ExportFormat) (*dto.ExportFile, error)
}

// EnrollmentHandler exposes enrollment endpoints.
type EnrollmentHandler struct {
	service  enrollmentService
	exporter rosterExporter
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(service enrollmentService, exporter rosterExporter) *EnrollmentHandler {
	return &EnrollmentHandler{service: service, exporter: exporter}
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	h.writeList(c, func(ctx context.Context) ([]models.EnrollmentDetail, error) {
		return h.service.List(ctx)
	})
}

// Get godoc
// @Summary Get enrollment
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollment)
}

// ListByStudent godoc
// @Summary List a student's enrollments
// @Tags Enrollments
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/student/{studentId} [get]
func (h *EnrollmentHandler) ListByStudent(c *gin.Context) {
	h.writeList(c, func(ctx context.Context) ([]models.EnrollmentDetail, error) {
		return h.service.ListByStudentID(ctx, c.Param("studentId"))
	})
}

// ListByCourse godoc
// @Summary List a course's enrollments
// @Tags Enrollments
// @Produce json
// @Param courseCode path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /enrollments/course/{courseCode} [get]
func (h *EnrollmentHandler) ListByCourse(c *gin.Context) {
	h.writeList(c, func(ctx context.Context) ([]models.EnrollmentDetail, error) {
		return h.service.ListByCourseCode(ctx, c.Param("courseCode"))
	})
}

// ListByStatus godoc
// @Summary List enrollments by status
// @Tags Enrollments
// @Produce json
// @Param status path string true "ENROLLED, IN_PROGRESS, COMPLETED, DROPPED or FAILED"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /enrollments/status/{status} [get]
func (h *EnrollmentHandler) ListByStatus(c *gin.Context) {
	status := models.EnrollmentStatus(strings.ToUpper(c.Param("status")))
	h.writeList(c, func(ctx context.Context) ([]models.EnrollmentDetail, error) {
		return h.service.ListByStatus(ctx, status)
	})
}

// ListBySemester godoc
// @Summary List enrollments by semester
// @Tags Enrollments
// @Produce json
// @Param semester path string true "Semester"
// @Success 200 {object} response.Envelope
// @Router /enrollments/semester/{semester} [get]
func (h *EnrollmentHandler) ListBySemester(c *gin.Context) {
	h.writeList(c, func(ctx context.Context) ([]models.EnrollmentDetail, error) {
		return h.service.ListBySemester(ctx, c.Param("semester"))
	})
}

// ListByAcademicYear godoc
// @Summary List enrollments by academic year
// @Tags Enrollments
// @Produce json
// @Param academicYear path string true "Academic year, e.g. 2024-2025"
// @Success 200 {object} response.Envelope
// @Router /enrollments/academic-year/{academicYear} [get]
func (h *EnrollmentHandler) ListByAcademicYear(c *gin.Context) {
	h.writeList(c, func(ctx context.Context) ([]models.EnrollmentDetail, error) {
		return h.service.ListByAcademicYear(ctx, c.Param("academicYear"))
	})
}

// ListBySemesterAndAcademicYear godoc
// @Summary List enrollments by semester within an academic year
// @Tags Enrollments
// @Produce json
// @Param semester path string true "Semester"
// @Param academicYear path string true "Academic year"
// @Success 200 {object} response.Envelope
// @Router /enrollments/semester/{semester}/academic-year/{academicYear} [get]
func (h *EnrollmentHandler) ListBySemesterAndAcademicYear(c *gin.Context) {
	h.writeList(c, func(ctx context.Context) ([]models.EnrollmentDetail, error) {
		return h.service.ListBySemesterAndAcademicYear(ctx, c.Param("semester"), c.Param("academicYear"))
	})
}

// StudentsInCourse godoc
// @Summary List students enrolled in a course
// @Tags Enrollments
// @Produce json
// @Param courseCode path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /enrollments/course/{courseCode}/students [get]
func (h *EnrollmentHandler) StudentsInCourse(c *gin.Context) {
	students, err := h.service.StudentsInCourse(c.Request.Context(), c.Param("courseCode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// CoursesForStudent godoc
// @Summary List courses a student is enrolled in
// @Tags Enrollments
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/student/{studentId}/courses [get]
func (h *EnrollmentHandler) CoursesForStudent(c *gin.Context) {
	courses, err := h.service.CoursesForStudent(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// Count godoc
// @Summary Count enrollments in a course
// @Tags Enrollments
// @Produce json
// @Param courseCode path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /enrollments/course/{courseCode}/count [get]
func (h *EnrollmentHandler) Count(c *gin.Context) {
	code := c.Param("courseCode")
	count, err := h.service.CountForCourse(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.EnrollmentCountResponse{CourseCode: code, Count: count})
}

// Check godoc
// @Summary Check whether a student is enrolled in a course
// @Tags Enrollments
// @Produce json
// @Param studentId query string true "Student ID"
// @Param courseCode query string true "Course code"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /enrollments/check [get]
func (h *EnrollmentHandler) Check(c *gin.Context) {
	studentID, err := requiredQuery(c, "studentId")
	if err != nil {
		response.Error(c, err)
		return
	}
	courseCode, err := requiredQuery(c, "courseCode")
	if err != nil {
		response.Error(c, err)
		return
	}
	enrolled, err := h.service.IsEnrolled(c.Request.Context(), studentID, courseCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.EnrollmentCheckResponse{StudentID: studentID, CourseCode: courseCode, Enrolled: enrolled})
}

// Export godoc
// @Summary Download a course roster
// @Tags Enrollments
// @Produce text/csv
// @Produce application/pdf
// @Param courseCode path string true "Course code"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/course/{courseCode}/export [get]
func (h *EnrollmentHandler) Export(c *gin.Context) {
	format := dto.ExportFormat(c.DefaultQuery("format", string(dto.ExportFormatCSV)))
	file, err := h.exporter.CourseRoster(c.Request.Context(), c.Param("courseCode"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Create godoc
// @Summary Enroll a student in a course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dto.CreateEnrollmentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid enrollment payload"))
		return
	}
	enrollment, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// UpdateStatus godoc
// @Summary Update enrollment status
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment id"
// @Param payload body dto.UpdateEnrollmentStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/{id}/status [put]
func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateEnrollmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid status payload"))
		return
	}
	status := models.EnrollmentStatus(strings.ToUpper(string(req.Status)))
	enrollment, err := h.service.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollment)
}

// UpdateGrade godoc
// @Summary Set or clear an enrollment grade
// @Description A non-blank grade also marks the enrollment COMPLETED.
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment id"
// @Param payload body dto.UpdateEnrollmentGradeRequest true "Grade"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/{id}/grade [put]
func (h *EnrollmentHandler) UpdateGrade(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateEnrollmentGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid grade payload"))
		return
	}
	enrollment, err := h.service.UpdateGrade(c.Request.Context(), id, req.Grade)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollment)
}

// Delete godoc
// @Summary Delete enrollment
// @Tags Enrollments
// @Param id path int true "Enrollment id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *EnrollmentHandler) writeList(c *gin.Context, load func(ctx context.Context) ([]models.EnrollmentDetail, error)) {
	items, err := load(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}
