package apperrors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTranslationFailed = errors.New("translation failed")
	ErrExecutionFailed   = errors.New("execution failed")
)
