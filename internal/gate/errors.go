package gate

import "errors"

// Sentinel errors returned by Gate.Authorize.
var (
	ErrForbidden       = errors.New("forbidden")
	ErrNoPolicyDefined = errors.New("no policy defined for resource")
)
