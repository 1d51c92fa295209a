// Package cerr classifies the errors which are returned by the use
// cases, so adapters may map them to HTTP status codes (or exit codes)
// without knowing about every sentinel error of the model layer.
package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

// BadRequest marks err as a caller mistake, like a non-zip GTFS file.
func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

// Conflict marks err as a collision with an existing resource, like an
// output file which may not be overwritten.
func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

// BadGateway marks err as a failure of an external tool or service,
// like osmconvert or the Overpass API.
func BadGateway(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadGateway}
}

// StatusCode returns the HTTP status code which is carried by err (or
// any error in its chain) and http.StatusInternalServerError if err is
// not classified at all.
func StatusCode(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.HTTPStatusCode
	}
	return http.StatusInternalServerError
}

// IsConfig returns true if err reports an invalid input or option, that
// is, a BadRequest or Conflict error which deserves showing the usage.
func IsConfig(err error) bool {
	switch StatusCode(err) {
	case http.StatusBadRequest, http.StatusConflict:
		return true
	}
	return false
}
