package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cms-api/internal/dto"
	"github.com/noah-isme/cms-api/internal/models"
	appErrors "github.com/noah-isme/cms-api/pkg/errors"
	"github.com/noah-isme/cms-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context) ([]models.Course, error)
	Get(ctx context.Context, id int64) (*models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Course, error)
	ListBySemester(ctx context.Context, semester string) ([]models.Course, error)
	ListByDepartmentAndSemester(ctx context.Context, department, semester string) ([]models.Course, error)
	SearchByTitle(ctx context.Context, keyword string) ([]models.Course, error)
	ListByCreditsRange(ctx context.Context, min, max int) ([]models.Course, error)
	Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, id int64, patch dto.UpdateCoursePatch) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
}

// CourseHandler exposes course catalog endpoints.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(service courseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// Get godoc
// @Summary Get course by id
// @Tags Courses
// @Produce json
// @Param id path int true "Course surrogate id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// GetByCode godoc
// @Summary Get course by code
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/code/{code} [get]
func (h *CourseHandler) GetByCode(c *gin.Context) {
	course, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid course payload"))
		return
	}
	course, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Partially update course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Course surrogate id"
// @Param payload body dto.UpdateCoursePatch true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var patch dto.UpdateCoursePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, bindError(err, "invalid course payload"))
		return
	}
	course, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// Delete godoc
// @Summary Delete course and its enrollments
// @Tags Courses
// @Param id path int true "Course surrogate id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
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
// @Summary List courses by department
// @Tags Courses
// @Produce json
// @Param department path string true "Department"
// @Success 200 {object} response.Envelope
// @Router /courses/department/{department} [get]
func (h *CourseHandler) ListByDepartment(c *gin.Context) {
	courses, err := h.service.ListByDepartment(c.Request.Context(), c.Param("department"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// ListByDepartmentAndSemester godoc
// @Summary List courses by department and semester
// @Tags Courses
// @Produce json
// @Param department path string true "Department"
// @Param semester path string true "Semester"
// @Success 200 {object} response.Envelope
// @Router /courses/department/{department}/semester/{semester} [get]
func (h *CourseHandler) ListByDepartmentAndSemester(c *gin.Context) {
	courses, err := h.service.ListByDepartmentAndSemester(c.Request.Context(), c.Param("department"), c.Param("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// ListBySemester godoc
// @Summary List courses by semester
// @Tags Courses
// @Produce json
// @Param semester path string true "Semester"
// @Success 200 {object} response.Envelope
// @Router /courses/semester/{semester} [get]
func (h *CourseHandler) ListBySemester(c *gin.Context) {
	courses, err := h.service.ListBySemester(c.Request.Context(), c.Param("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// Search godoc
// @Summary Search courses by title
// @Tags Courses
// @Produce json
// @Param keyword query string true "Case-insensitive substring"
// @Success 200 {object} response.Envelope
// @Router /courses/search [get]
func (h *CourseHandler) Search(c *gin.Context) {
	keyword, err := requiredQuery(c, "keyword")
	if err != nil {
		response.Error(c, err)
		return
	}
	courses, err := h.service.SearchByTitle(c.Request.Context(), keyword)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, map[string]interface{}{"keyword": keyword, "count": len(courses)})
}

// ListByCredits godoc
// @Summary List courses within a credit range
// @Tags Courses
// @Produce json
// @Param min query int true "Minimum credits (inclusive)"
// @Param max query int true "Maximum credits (inclusive)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses/credits [get]
func (h *CourseHandler) ListByCredits(c *gin.Context) {
	var q dto.CreditsRange
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err, "min and max credits are required integers"))
		return
	}
	if *q.Min > *q.Max {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "min must not exceed max"))
		return
	}
	courses, err := h.service.ListByCreditsRange(c.Request.Context(), *q.Min, *q.Max)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}
