// Package service implements the server's operations on top of the
// storage interfaces: accounts and sessions in UserService, games and
// in-game actions in GameService.
//
// Failures wrap the sentinels in the errors package. HTTPStatus maps them
// to response codes.
package service

import (
	"net/http"

	"github.com/lgbarn/chess-server-go/internal/errors"
)

// HTTPStatus returns the response code for an error returned by a service.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errors.ErrAlreadyTaken):
		return http.StatusForbidden
	case errors.Is(err, errors.ErrBadRequest),
		errors.Is(err, errors.ErrNotFound),
		errors.Is(err, errors.ErrIllegalMove),
		errors.Is(err, errors.ErrGameOver):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing text for an error.
func Message(err error) string {
	return "Error: " + err.Error()
}

func badRequest(format string, args ...any) error {
	return errors.Wrapf(errors.ErrBadRequest, format, args...)
}
