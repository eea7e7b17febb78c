package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// ErrEmptyOrder is returned by PlaceOrder for an order without items.
var ErrEmptyOrder = errors.New("order has no items")

// Error is a non-2xx response from the API.
type Error struct {
	// Method and Path identify the request.
	Method string
	Path   string

	// StatusCode is the HTTP status.
	StatusCode int

	// Message is the body's "error" field, or the status text when absent.
	Message string
}

// Error returns the server message.
func (e *Error) Error() string {
	return e.Message
}

// String describes the failed request in full, for logs.
func (e *Error) String() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *Error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

func newError(method, path string, code int, body []byte) *Error {
	msg := ""
	if gjson.ValidBytes(body) {
		msg = gjson.GetBytes(body, "error").String()
	}
	if msg == "" {
		msg = http.StatusText(code)
	}
	return &Error{Method: method, Path: path, StatusCode: code, Message: msg}
}
