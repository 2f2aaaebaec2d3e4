package models

import "time"

// Student represents a learner registered with the institution.
type Student struct {
	ID          int64     `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"studentId"`
	FirstName   string    `db:"first_name" json:"firstName"`
	LastName    string    `db:"last_name" json:"lastName"`
	Email       string    `db:"email" json:"email"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	Department  *string   `db:"department" json:"department,omitempty"`
	YearOfStudy *int      `db:"year_of_study" json:"yearOfStudy,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
