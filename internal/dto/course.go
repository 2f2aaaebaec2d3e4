package dto

// CreateCourseRequest defines payload for creating a course.
type CreateCourseRequest struct {
	Code        string  `json:"code" validate:"required,max=10"`
	Title       string  `json:"title" validate:"required,max=100"`
	Description *string `json:"description"`
	Credits     int     `json:"credits"`
	Semester    *string `json:"semester" validate:"omitempty,max=20"`
	Department  *string `json:"department" validate:"omitempty,max=50"`
}

// UpdateCoursePatch carries a partial course update. Nil fields are no-ops.
type UpdateCoursePatch struct {
	Code        *string `json:"code" validate:"omitempty,max=10"`
	Title       *string `json:"title" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Credits     *int    `json:"credits"`
	Semester    *string `json:"semester" validate:"omitempty,max=20"`
	Department  *string `json:"department" validate:"omitempty,max=50"`
}

// CreditsRange bounds a credits query, both ends inclusive.
type CreditsRange struct {
	Min *int `form:"min" binding:"required"`
	Max *int `form:"max" binding:"required"`
}
