package payment

import "errors"

var (
	ErrNotFound         = errors.New("payment not found")
	ErrForbidden        = errors.New("not a party to this payment")
	ErrAlreadyPaid      = errors.New("payment already settled")
	ErrInvalidSignature = errors.New("invalid notification signature")
	ErrAmountMismatch   = errors.New("notification amount mismatch")
	ErrGateway          = errors.New("payment gateway error")
)
