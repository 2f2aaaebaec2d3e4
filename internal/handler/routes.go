package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cms-api/internal/middleware"
	"github.com/noah-isme/cms-api/internal/models"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Students    *StudentHandler
	Courses     *CourseHandler
	Enrollments *EnrollmentHandler
	Auth        *AuthHandler
}

// RouteOptions controls route protection.
type RouteOptions struct {
	AuthEnabled bool
	Validator   middleware.TokenValidator
}

// RegisterRoutes mounts the student, course, enrollment and auth routes on group.
// Mutating routes require an ADMIN token when auth is enabled.
func RegisterRoutes(group *gin.RouterGroup, h Handlers, opts RouteOptions) {
	guard := middleware.WriteGuard(opts.AuthEnabled, opts.Validator, models.RoleAdmin)
	write := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(guard)+1)
		chain = append(chain, guard...)
		return append(chain, handler)
	}

	if h.Students != nil {
		students := group.Group("/students")
		students.GET("", h.Students.List)
		students.GET("/search", h.Students.Search)
		students.GET("/studentId/:studentId", h.Students.GetByStudentID)
		students.GET("/email/:email", h.Students.GetByEmail)
		students.GET("/department/:department", h.Students.ListByDepartment)
		students.GET("/department/:department/year/:year", h.Students.ListByDepartmentAndYear)
		students.GET("/year/:year", h.Students.ListByYear)
		students.GET("/:id", h.Students.Get)
		students.POST("", write(h.Students.Create)...)
		students.PUT("/:id", write(h.Students.Update)...)
		students.DELETE("/:id", write(h.Students.Delete)...)
	}

	if h.Courses != nil {
		courses := group.Group("/courses")
		courses.GET("", h.Courses.List)
		courses.GET("/search", h.Courses.Search)
		courses.GET("/credits", h.Courses.ListByCredits)
		courses.GET("/code/:code", h.Courses.GetByCode)
		courses.GET("/department/:department", h.Courses.ListByDepartment)
		courses.GET("/department/:department/semester/:semester", h.Courses.ListByDepartmentAndSemester)
		courses.GET("/semester/:semester", h.Courses.ListBySemester)
		courses.GET("/:id", h.Courses.Get)
		courses.POST("", write(h.Courses.Create)...)
		courses.PUT("/:id", write(h.Courses.Update)...)
		courses.DELETE("/:id", write(h.Courses.Delete)...)
	}

	if h.Enrollments != nil {
		enrollments := group.Group("/enrollments")
		enrollments.GET("", h.Enrollments.List)
		enrollments.GET("/check", h.Enrollments.Check)
		enrollments.GET("/student/:studentId", h.Enrollments.ListByStudent)
		enrollments.GET("/student/:studentId/courses", h.Enrollments.CoursesForStudent)
		enrollments.GET("/course/:courseCode", h.Enrollments.ListByCourse)
		enrollments.GET("/course/:courseCode/students", h.Enrollments.StudentsInCourse)
		enrollments.GET("/course/:courseCode/count", h.Enrollments.Count)
		enrollments.GET("/course/:courseCode/export", h.Enrollments.Export)
		enrollments.GET("/status/:status", h.Enrollments.ListByStatus)
		enrollments.GET("/semester/:semester", h.Enrollments.ListBySemester)
		enrollments.GET("/semester/:semester/academic-year/:academicYear", h.Enrollments.ListBySemesterAndAcademicYear)
		enrollments.GET("/academic-year/:academicYear", h.Enrollments.ListByAcademicYear)
		enrollments.GET("/:id", h.Enrollments.Get)
		enrollments.POST("", write(h.Enrollments.Create)...)
		enrollments.PUT("/:id/status", write(h.Enrollments.UpdateStatus)...)
		enrollments.PUT("/:id/grade", write(h.Enrollments.UpdateGrade)...)
		enrollments.DELETE("/:id", write(h.Enrollments.Delete)...)
	}

	if h.Auth != nil && opts.Validator != nil {
		auth := group.Group("/auth")
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", middleware.JWT(opts.Validator), h.Auth.Me)
	}
}

// RegisterSystemRoutes mounts the probes and, when metrics is non-nil, the scrape endpoint.
func RegisterSystemRoutes(router gin.IRoutes, health *HealthHandler, metrics *MetricsHandler) {
	router.GET("/health", health.Health)
	router.GET("/ready", health.Ready)
	if metrics != nil {
		router.GET("/metrics", metrics.Prometheus)
	}
}
