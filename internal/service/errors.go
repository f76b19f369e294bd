package service

import "errors"

// ErrNotFound marks lookup misses (booking, payment, listing). The
// API layer maps it to HTTP 404.
var ErrNotFound = errors.New("not found")
