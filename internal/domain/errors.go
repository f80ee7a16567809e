package domain

import "errors"

// ErrNotFound is wrapped by every storage backend when a record does not exist
var ErrNotFound = errors.New("not found")
