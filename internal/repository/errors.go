// Package repository defines sentinel errors reused across multiple
// repositories. These values let handlers and services distinguish
// failure scenarios: ErrForbidden indicates the current user is not
// allowed to act on a resource owned by someone else, ErrConflict
// signals that an operation cannot proceed due to dependent records
// (e.g. deleting a show that still has confirmed bookings).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
