package booking

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("booking not found")
	ErrForbidden           = errors.New("not allowed for this booking")
	ErrNotAvailable        = errors.New("product not available for the selected dates")
	ErrOwnProduct          = errors.New("cannot book your own product")
	ErrInvalidTransition   = errors.New("invalid booking status transition")
	ErrPaymentNotCompleted = errors.New("payment not completed")
)
