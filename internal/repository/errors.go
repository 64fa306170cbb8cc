// Package repository implements the data access layer over MySQL.  This
// file defines sentinel error values reused across repositories so that
// handlers can distinguish failure scenarios without inspecting driver
// errors.  ErrForbidden indicates that the caller is not allowed to act
// on a record owned by someone else; ErrNotFound signals a missing row
// where sql.ErrNoRows would be ambiguous.
package repository

import "errors"

// ErrEmailExists is returned when an insert collides with the unique
// email index on users.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// record they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned when the requested record does not exist.
// Handlers translate this into HTTP 404.
var ErrNotFound = errors.New("not found")
