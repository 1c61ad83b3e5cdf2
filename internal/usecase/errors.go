package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateClaim       = errors.New("skill already claimed")
	ErrDuplicateApplication = errors.New("already applied to this job")
	ErrDuplicateSkill       = errors.New("skill already exists")
	ErrForbidden            = errors.New("forbidden")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNotFound             = errors.New("not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrEvidenceUpload       = errors.New("evidence upload failed")
	ErrTransaction          = errors.New("transaction failed")
	ErrInternal             = errors.New("internal error")
)

// ValidationError is a field-level input problem. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// EvidenceUploadError wraps a blob store failure for one file. It matches ErrEvidenceUpload.
type EvidenceUploadError struct {
	FileName string
	Err      error
}

func (e *EvidenceUploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.FileName, e.Err)
}

func (e *EvidenceUploadError) Unwrap() error { return e.Err }

func (e *EvidenceUploadError) Is(target error) bool { return target == ErrEvidenceUpload }

// NotFoundError names the missing entity. It matches ErrNotFound.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(entity string) error {
	return &NotFoundError{Entity: entity}
}
