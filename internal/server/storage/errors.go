package storage

import "errors"

// Common storage errors
var (
	// ErrAccountNotFound indicates that account was not found in storage
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists indicates that account with this apple id already exists
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrSessionNotFound indicates that sign-in session was not found
	ErrSessionNotFound = errors.New("session not found")

	// ErrContactNotFound indicates that contact card was not found
	ErrContactNotFound = errors.New("contact not found")

	// ErrContactAlreadyExists indicates that contact with this id already exists
	ErrContactAlreadyExists = errors.New("contact already exists")

	// ErrGroupNotFound indicates that group was not found
	ErrGroupNotFound = errors.New("group not found")

	// ErrGroupAlreadyExists indicates that group with this id already exists
	ErrGroupAlreadyExists = errors.New("group already exists")

	// ErrEtagConflict indicates that the card was changed after the client fetched it
	ErrEtagConflict = errors.New("etag conflict")
)
