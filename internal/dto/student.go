package dto

// CreateStudentRequest defines payload for registering a student.
type CreateStudentRequest struct {
	StudentID   string  `json:"studentId" validate:"required,max=20"`
	FirstName   string  `json:"firstName" validate:"required,max=50"`
	LastName    string  `json:"lastName" validate:"required,max=50"`
	Email       string  `json:"email" validate:"required,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=15"`
	Department  *string `json:"department" validate:"omitempty,max=50"`
	YearOfStudy *int    `json:"yearOfStudy"`
}

// UpdateStudentPatch carries a partial student update. Nil fields leave the stored value untouched.
type UpdateStudentPatch struct {
	StudentID   *string `json:"studentId" validate:"omitempty,max=20"`
	FirstName   *string `json:"firstName" validate:"omitempty,max=50"`
	LastName    *string `json:"lastName" validate:"omitempty,max=50"`
	Email       *string `json:"email" validate:"omitempty,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=15"`
	Department  *string `json:"department" validate:"omitempty,max=50"`
	YearOfStudy *int    `json:"yearOfStudy"`
}
