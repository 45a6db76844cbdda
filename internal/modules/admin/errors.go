package admin

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrUserNotFound = errors.New("user not found")
	ErrBanAdmin     = errors.New("admin accounts cannot be banned")
)
