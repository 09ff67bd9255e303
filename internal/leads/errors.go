package leads

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownKind is returned when a submission names no known form
	ErrUnknownKind = errors.New("unknown submission kind")

	// ErrInvalidEmail is returned when the email address is malformed
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrSubmissionNotFound is returned when a submission is not found
	ErrSubmissionNotFound = errors.New("submission not found")
)

// MissingFieldsError lists the required fields a submission left blank.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
