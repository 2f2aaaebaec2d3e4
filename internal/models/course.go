package models

import "time"

// Course is an offering students can enroll in, identified by its code.
type Course struct {
	ID          int64     `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	Credits     int       `db:"credits" json:"credits"`
	Semester    *string   `db:"semester" json:"semester,omitempty"`
	Department  *string   `db:"department" json:"department,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
