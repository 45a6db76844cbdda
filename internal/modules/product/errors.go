package product

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("product not found")
	ErrForbidden  = errors.New("not the product owner")
)
