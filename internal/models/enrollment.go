package models

import "time"

// EnrollmentStatus represents the lifecycle label of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses. Any status may follow any other.
const (
	EnrollmentStatusEnrolled   EnrollmentStatus = "ENROLLED"
	EnrollmentStatusInProgress EnrollmentStatus = "IN_PROGRESS"
	EnrollmentStatusCompleted  EnrollmentStatus = "COMPLETED"
	EnrollmentStatusDropped    EnrollmentStatus = "DROPPED"
	EnrollmentStatusFailed     EnrollmentStatus = "FAILED"
)

// EnrollmentStatuses lists every accepted status in declaration order.
var EnrollmentStatuses = []EnrollmentStatus{
	EnrollmentStatusEnrolled,
	EnrollmentStatusInProgress,
	EnrollmentStatusCompleted,
	EnrollmentStatusDropped,
	EnrollmentStatusFailed,
}

// Valid reports whether the status is one of the known values.
func (s EnrollmentStatus) Valid() bool {
	for _, known := range EnrollmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Enrollment links a student to a course for a semester and academic year.
type Enrollment struct {
	ID             int64            `db:"id" json:"id"`
	StudentID      int64            `db:"student_id" json:"-"`
	CourseID       int64            `db:"course_id" json:"-"`
	EnrollmentDate time.Time        `db:"enrollment_date" json:"enrollmentDate"`
	Status         EnrollmentStatus `db:"status" json:"status"`
	Grade          *string          `db:"grade" json:"grade,omitempty"`
	Semester       *string          `db:"semester" json:"semester,omitempty"`
	AcademicYear   *string          `db:"academic_year" json:"academicYear,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updatedAt"`
}

// EnrollmentDetail is an enrollment with its student and course loaded.
type EnrollmentDetail struct {
	Enrollment
	Student Student `db:"student" json:"student"`
	Course  Course  `db:"course" json:"course"`
}
