// Package repository holds the data access layer: the relational access
// token table and the key-value records for users, threads and messages.
//
// The sentinel errors below let handlers separate client-caused failures
// from everything else.  ErrNotFound means a user, thread or field the
// request refers to does not exist and maps to HTTP 400.  ErrForbidden
// means the record exists but belongs to another user and maps to 403.
package repository

import "errors"

// ErrNotFound is returned when a point lookup finds no record.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller does not own the resource.
var ErrForbidden = errors.New("forbidden")
