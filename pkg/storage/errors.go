package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when a record with the same key already exists.
var ErrAlreadyExists = errors.New("record already exists")

// ErrStatusConflict is returned when a conditional write fails because the invoice is no
// longer in the expected status, e.g. because a concurrent writer got there first.
var ErrStatusConflict = errors.New("invoice status changed concurrently")
