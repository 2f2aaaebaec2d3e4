package dto

import "github.com/noah-isme/cms-api/internal/models"

// CreateEnrollmentRequest enrolls a student, addressed by natural keys.
type CreateEnrollmentRequest struct {
	StudentID    string  `json:"studentId" validate:"required"`
	CourseCode   string  `json:"courseCode" validate:"required"`
	Semester     *string `json:"semester" validate:"omitempty,max=20"`
	AcademicYear *string `json:"academicYear" validate:"omitempty,max=10"`
}

// UpdateEnrollmentStatusRequest sets an enrollment's status label.
type UpdateEnrollmentStatusRequest struct {
	Status models.EnrollmentStatus `json:"status" validate:"required,oneof=ENROLLED IN_PROGRESS COMPLETED DROPPED FAILED"`
}

// UpdateEnrollmentGradeRequest sets or clears a grade.
type UpdateEnrollmentGradeRequest struct {
	Grade *string `json:"grade" validate:"omitempty,max=5"`
}

// EnrollmentCheckResponse answers whether a student is enrolled in a course.
type EnrollmentCheckResponse struct {
	StudentID  string `json:"studentId"`
	CourseCode string `json:"courseCode"`
	Enrolled   bool   `json:"enrolled"`
}

// EnrollmentCountResponse reports the number of enrollments in a course.
type EnrollmentCountResponse struct {
	CourseCode string `json:"courseCode"`
	Count      int64  `json:"count"`
}
