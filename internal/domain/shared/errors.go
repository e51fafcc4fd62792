package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Reference data errors

type NotFoundError struct {
	*DomainError
	Kind string
	Key  string
}

func NewNotFoundError(kind, key string) *NotFoundError {
	return &NotFoundError{
		DomainError: NewDomainError(fmt.Sprintf("%s %q not found", kind, key)),
		Kind:        kind,
		Key:         key,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Candidate evaluation errors

// CandidateError wraps a failure raised while evaluating one sweep candidate.
// It carries enough context to find the offending item and parameters.
type CandidateError struct {
	*DomainError
	Kind    string
	Hrid    string
	Project string
	Action  string
	Cause   error
}

func NewCandidateError(kind, hrid, project, action string, cause error) *CandidateError {
	return &CandidateError{
		DomainError: NewDomainError(fmt.Sprintf("%s %s (%s/%s): %v", kind, hrid, project, action, cause)),
		Kind:        kind,
		Hrid:        hrid,
		Project:     project,
		Action:      action,
		Cause:       cause,
	}
}

func (e *CandidateError) Unwrap() error {
	return e.Cause
}
