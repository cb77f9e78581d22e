package acquire

import "errors"

// ErrInvalidConstraints is returned when a constraint specification fails
// validation. It is raised synchronously, before any tier runs.
var ErrInvalidConstraints = errors.New("acquire: invalid constraints")

// ErrInvalidInput is returned for malformed URLs and other bad inputs.
var ErrInvalidInput = errors.New("acquire: invalid input")

// ErrTierUnavailable marks a tier whose prerequisite (binary, network,
// browser) is missing. Tiers wrap it so the ladder can log and move on.
var ErrTierUnavailable = errors.New("acquire: tier unavailable")
