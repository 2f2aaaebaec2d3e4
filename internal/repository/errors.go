package repository

import (
	"errors"
	"fmt"

	"github.com/noah-isme/cms-api/pkg/database"
)

var (
	// ErrDuplicate is returned by writes rejected by a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrMissingReference is returned by writes whose foreign key target no longer exists.
	ErrMissingReference = errors.New("referenced record not found")
)

// writeErr wraps a failed write, tagging unique and foreign key violations.
func writeErr(op string, err error) error {
	var tagged error
	switch {
	case database.IsUniqueViolation(err):
		tagged = ErrDuplicate
	case database.IsForeignKeyViolation(err):
		tagged = ErrMissingReference
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
	if name := database.ConstraintName(err); name != "" {
		return fmt.Errorf("%s: %w (%s)", op, tagged, name)
	}
	return fmt.Errorf("%s: %w", op, tagged)
}
