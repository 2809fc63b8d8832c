// Package service holds the ticket assignment state machine and the
// account operations.  Handlers translate the errors below into HTTP
// status codes with errors.Is.
package service

import "errors"

var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrTicketNotFound is returned when no ticket matches the key.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrInvalidTransition is returned when a ticket's state does not allow
	// the requested operation (assigning a closed ticket).
	ErrInvalidTransition = errors.New("ticket cannot be assigned in its current state")
	// ErrAlreadyClosedOrNotFound is returned by Close when nothing was
	// updated.  The returned error also matches ErrTicketClosed or
	// ErrTicketNotFound to say which of the two it was.
	ErrAlreadyClosedOrNotFound = errors.New("ticket is already closed or not found")
	// ErrTicketClosed is returned when a ticket is already closed.
	ErrTicketClosed = errors.New("ticket is already closed")
	// ErrConcurrentUpdate is returned when the ticket kept changing under
	// an assignment attempt.
	ErrConcurrentUpdate = errors.New("ticket changed concurrently")

	// ErrUnauthorized is returned for unknown users and wrong passwords.
	ErrUnauthorized = errors.New("invalid credentials")
	// ErrAccountNotFound is returned when an account lookup misses.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists is returned when registering a taken user id.
	ErrAccountExists = errors.New("account already exists")
)
