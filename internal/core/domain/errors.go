package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("email or password incorrect")

	ErrArticleNotFound = errors.New("article not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrVisitorNotFound = errors.New("visitor not found")

	ErrEmailTaken   = errors.New("email already in use")
	ErrNotPublished = errors.New("article is not published")
)

// ValidationError reports a business-rule violation on a single field.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotPublishedError rejects an interaction with a draft article. It matches
// ErrNotPublished under errors.Is.
type NotPublishedError struct {
	Action string
}

func NewNotPublishedError(action string) *NotPublishedError {
	return &NotPublishedError{Action: action}
}

func (e *NotPublishedError) Error() string {
	return "cannot " + e.Action + " an unpublished article"
}

func (e *NotPublishedError) Is(target error) bool {
	return target == ErrNotPublished
}
