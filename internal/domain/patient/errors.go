package patient

import "errors"

var (
	ErrNotFound  = errors.New("patient not found")
	ErrInvalidID = errors.New("patient id must be a positive integer")
)
