package report

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrEmptyReason     = errors.New("report reason is required")
	ErrNotFound        = errors.New("report not found")
	ErrTargetNotFound  = errors.New("reported target not found")
	ErrAlreadyReviewed = errors.New("report already reviewed")
)
