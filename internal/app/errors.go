package app

import (
	"errors"

	"yamdb-api/internal/validation"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthenticated  = errors.New("authentication credentials were not provided")
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
	ErrDelivery         = errors.New("confirmation email could not be sent")
)

func fieldError(field, message string) validation.Errors {
	return validation.Errors{field: {message}}
}
