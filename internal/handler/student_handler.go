package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cms-api/internal/dto"
	"github.com/noah-isme/cms-api/internal/models"
	"github.com/noah-isme/cms-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context) ([]models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Student, error)
	ListByYearOfStudy(ctx context.Context, year int) ([]models.Student, error)
	ListByDepartmentAndYear(ctx context.Context, department string, year int) ([]models.Student, error)
	SearchByName(ctx context.Context, keyword string) ([]models.Student, error)
	Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id int64, patch dto.UpdateStudentPatch) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	service studentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(service studentService) *StudentHandler {
	return &StudentHandler{service: service}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// Get godoc
// @Summary Get student by id
// @Tags Students
// @Produce json
// @Param id path int true "Student surrogate id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// GetByStudentID godoc
// @Summary Get student by student ID
// @Tags Students
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/studentId/{studentId} [get]
func (h *StudentHandler) GetByStudentID(c *gin.Context) {
	student, err := h.service.GetByStudentID(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// GetByEmail godoc
// @Summary Get student by email
// @Tags Students
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/email/{email} [get]
func (h *StudentHandler) GetByEmail(c *gin.Context) {
	student, err := h.service.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Create godoc
// @Summary Register a student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid student payload"))
		return
	}
	student, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Partially update a student
// @Description Only fields present in the payload are changed.
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student surrogate id"
// @Param payload body dto.UpdateStudentPatch true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var patch dto.UpdateStudentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, bindError(err, "invalid student payload"))
		return
	}
	student, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Delete godoc
// @Summary Delete a student and its enrollments
// @Tags Students
// @Param id path int true "Student surrogate id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
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

// ListByDepartment godoc
// @Summary List students by department
// @Tags Students
// @Produce json
// @Param department path string true "Department"
// @Success 200 {object} response.Envelope
// @Router /students/department/{department} [get]
func (h *StudentHandler) ListByDepartment(c *gin.Context) {
	students, err := h.service.ListByDepartment(c.Request.Context(), c.Param("department"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// ListByYear godoc
// @Summary List students by year of study
// @Tags Students
// @Produce json
// @Param year path int true "Year of study"
// @Success 200 {object} response.Envelope
// @Router /students/year/{year} [get]
func (h *StudentHandler) ListByYear(c *gin.Context) {
	year, err := intParam(c, "year")
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.service.ListByYearOfStudy(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// ListByDepartmentAndYear godoc
// @Summary List students by department and year
// @Tags Students
// @Produce json
// @Param department path string true "Department"
// @Param year path int true "Year of study"
// @Success 200 {object} response.Envelope
// @Router /students/department/{department}/year/{year} [get]
func (h *StudentHandler) ListByDepartmentAndYear(c *gin.Context) {
	year, err := intParam(c, "year")
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.service.ListByDepartmentAndYear(c.Request.Context(), c.Param("department"), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// Search godoc
// @Summary Search students by first or last name
// @Tags Students
// @Produce json
// @Param keyword query string true "Case-insensitive substring"
// @Success 200 {object} response.Envelope
// @Router /students/search [get]
func (h *StudentHandler) Search(c *gin.Context) {
	keyword, err := requiredQuery(c, "keyword")
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.service.SearchByName(c.Request.Context(), keyword)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"keyword": keyword, "count": len(students)})
}
