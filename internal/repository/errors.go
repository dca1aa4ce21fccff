// Package repository gives typed access to the record families kept in the
// key-value store. Each repo reads or writes one logical key; reads never
// fail (absent or corrupt data reads as empty) while writes surface backend
// errors. These sentinel values let higher layers distinguish failure
// scenarios.
package repository

import "errors"

// ErrNotFound is returned when an update targets a record that does not
// exist. Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicateUser is returned when registering a phone number that is
// already in the directory. Handlers translate it into an HTTP 409 response.
var ErrDuplicateUser = errors.New("user already exists")
