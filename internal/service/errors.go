package service

import (
	"database/sql"
	"errors"

	appErrors "github.com/noah-isme/cms-api/pkg/errors"
)

func internalError(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationError(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

// lookupError maps a missing row to NotFound with the given message.
func lookupError(err error, notFound, failure string) *appErrors.Error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return internalError(err, failure)
}
