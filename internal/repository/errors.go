package repository

import "errors"

// ErrNotFound indicates an entity was not located for the acting user.
// Records owned by another user surface the same error.
var ErrNotFound = errors.New("repository: not found")

// ErrConflict indicates a uniqueness constraint was violated.
var ErrConflict = errors.New("repository: conflict")
