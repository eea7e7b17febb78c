package app

import (
	"errors"
)

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrSubmitInFlight is returned when an order is submitted while the
	// previous submission is still pending.
	ErrSubmitInFlight = errors.New("order submission already in flight")

	// ErrInvalidOrder is returned when the draft fails delivery or contact
	// validation at submit time. Nothing is sent.
	ErrInvalidOrder = errors.New("order draft is invalid")
)

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// RequestError describes a failed remote call made by the event loop.
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
