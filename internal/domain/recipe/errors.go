package recipe

import "errors"

// Domain errors for recipe operations

var (
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrUnsupportedVersion = errors.New("unsupported stored data version")
	ErrMissingSession     = errors.New("no active session")
)
