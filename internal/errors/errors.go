// Package errors provides sentinel errors and error types for the chess server.
// It defines common error conditions and structured error types that preserve
// context while allowing error inspection with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrIllegalMove indicates a move that violates chess rules or is made
	// out of turn.
	ErrIllegalMove = errors.New("illegal move")

	// ErrMissingKing indicates a check query ran on a board without a king
	// of the queried colour. This is a data-integrity error, not a user error.
	ErrMissingKing = errors.New("no king on the board")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrBadRequest indicates a request with missing or malformed fields.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized indicates a missing, unknown or expired auth token,
	// or a wrong password.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyTaken indicates a username or player seat already in use.
	ErrAlreadyTaken = errors.New("already taken")

	// ErrNotFound indicates the requested user, token or game does not exist.
	ErrNotFound = errors.New("not found")

	// ErrGameOver indicates an in-game action on a finished game.
	ErrGameOver = errors.New("game is over")
)

// MoveError wraps errors with move context: the game it was played in,
// the move text and why it was rejected. It implements the error interface
// and supports unwrapping via errors.Is() and errors.As().
type MoveError struct {
	Err    error  // The underlying error
	GameID int    // Game the move was submitted to (0 if not known)
	Move   string // The move text (if applicable)
	Reason string // Human readable reason (if known)
}

// Error returns a formatted error message including all available context.
func (e *MoveError) Error() string {
	var parts []string

	if e.GameID > 0 {
		parts = append(parts, fmt.Sprintf("game %d", e.GameID))
	}
	if e.Move != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.Move))
	}

	msg := "move rejected"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	if len(parts) == 0 {
		return msg
	}
	return fmt.Sprintf("%s: %s", strings.Join(parts, ", "), msg)
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the MoveError wrapper.
func (e *MoveError) Unwrap() error {
	return e.Err
}

// StoreError represents a failure inside a storage backend.
type StoreError struct {
	Err    error  // The underlying driver error
	Op     string // Operation being performed, e.g. "create game"
	Entity string // Key of the entity involved (if known)
}

// Error returns a formatted error message with operation context.
func (e *StoreError) Error() string {
	var b strings.Builder
	b.WriteString("storage: ")
	b.WriteString(e.Op)
	if e.Entity != "" {
		fmt.Fprintf(&b, " %s", e.Entity)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}
