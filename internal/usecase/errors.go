package usecase

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnsupportedFile  = errors.New("unsupported file type")
	ErrFileTooLarge     = errors.New("file too large")
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrRoleNotFound     = errors.New("role not found")
	ErrInternal         = errors.New("internal error")
)
