// Package httperr provides errors that carry the HTTP status code a page
// should be served with.
package httperr

import (
	"net/http"

	"github.com/pkg/errors"
)

// ErrNotFound is returned for routes that have no page.
var ErrNotFound = New(http.StatusNotFound, "page not found")

type StatusCoder interface {
	StatusCode() int
}

// ErrCode returns the status code carried by err, or 500 if there is none.
func ErrCode(err error) int {
	var sc StatusCoder

	if errors.As(err, &sc) {
		return sc.StatusCode()
	}

	return http.StatusInternalServerError
}

type basicError struct {
	code int
	msg  string
}

var (
	_ error       = basicError{}
	_ StatusCoder = basicError{}
)

func New(code int, msg string) error {
	return basicError{code, msg}
}

func (e basicError) Error() string {
	return e.msg
}

func (e basicError) StatusCode() int {
	return e.code
}

type wrapError struct {
	code int
	wrap error
}

var (
	_ error       = wrapError{}
	_ StatusCoder = wrapError{}
)

func Wrap(err error, code int, msg string) error {
	if err == nil {
		return nil
	}
	return wrapError{code, errors.Wrap(err, msg)}
}

func (e wrapError) Error() string {
	return e.wrap.Error()
}

func (e wrapError) StatusCode() int {
	return e.code
}

func (e wrapError) Unwrap() error {
	return e.wrap
}
