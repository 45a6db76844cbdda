package discovery

import "errors"

var ErrInvalidCoords = errors.New("coordinates out of range")
