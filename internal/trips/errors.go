package trips

import "errors"

var (
	ErrUnauthorized    = errors.New("trips: authentication required")
	ErrForbidden       = errors.New("trips: user is not the owner of this trip")
	ErrNotFound        = errors.New("trips: trip not found")
	ErrInvalidDocument = errors.New("trips: document must be a JSON object")
)
