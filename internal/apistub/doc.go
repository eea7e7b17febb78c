// Package apistub is an in-memory implementation of the larek commerce API,
// served with gin. It backs local development (cmd/larek-stub) and the
// client and application tests.
package apistub
