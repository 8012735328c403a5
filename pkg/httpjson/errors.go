package httpjson

import (
	"errors"
	"net/http"
)

// HTTPError is an error with a client-facing status code and message.
// Handlers return it for expected failures such as bad input or missing auth.
type HTTPError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

var (
	ErrBadRequest            = HTTPError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrUnauthorized          = HTTPError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrNotFound              = HTTPError{Code: http.StatusNotFound, Message: "Not found"}
	ErrMethodNotAllowed      = HTTPError{Code: http.StatusMethodNotAllowed, Message: "Method not allowed"}
	ErrConflict              = HTTPError{Code: http.StatusConflict, Message: "Conflict"}
	ErrRequestEntityTooLarge = HTTPError{Code: http.StatusRequestEntityTooLarge, Message: "Request entity too large"}
	ErrUnsupportedMediaType  = HTTPError{Code: http.StatusUnsupportedMediaType, Message: "Unsupported media type"}
	ErrUnprocessableEntity   = HTTPError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
)

// NewHTTPError creates a custom HTTP error.
//
// Example:
//
//	return httpjson.NewHTTPError(http.StatusConflict, "User already exists")
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}

// AsClientError reports whether err carries a 4xx HTTPError and returns it.
func AsClientError(err error) (HTTPError, bool) {
	var he HTTPError
	if errors.As(err, &he) && he.Code >= 400 && he.Code < 500 {
		return he, true
	}
	return HTTPError{}, false
}
