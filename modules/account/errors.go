package account

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/authgate/pkg/httpjson"
)

var (
	ErrUserNotFound = errors.New("account: user not found")
	ErrUserExists   = errors.New("account: user already exists")
)

// Client-facing failures.
var (
	errInvalidCredentials = httpjson.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	errEmailTaken         = httpjson.NewHTTPError(http.StatusConflict, "User already exists")
	errNameRequired       = httpjson.NewHTTPError(http.StatusBadRequest, "Name is required")
	errInvalidEmail       = httpjson.NewHTTPError(http.StatusBadRequest, "A valid email is required")
	errWeakPassword       = httpjson.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
	errUserGone           = httpjson.NewHTTPError(http.StatusNotFound, "User not found")
)
