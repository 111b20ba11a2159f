package service

import (
	"errors"
	"strings"
)

// Business-rule rejections surfaced by the inspection writer. None of these
// are transient; callers map them straight to client errors.
var (
	ErrGeneratorNotFound  = errors.New("generator not found")
	ErrNoTemplateAssigned = errors.New("generator has no form template assigned")
	ErrInspectionNotFound = errors.New("inspection not found")
	ErrDuplicatePeriod    = errors.New("generator already inspected for this period")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentInUse    = errors.New("department still owns generators")
	ErrTemplateNotFound   = errors.New("form template not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserDisabled       = errors.New("user account is disabled")
)

// ValidationError carries the per-item messages from ValidateItems.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
