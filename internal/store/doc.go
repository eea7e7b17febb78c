// Package store holds the application state of the storefront: the catalog,
// the basket, the checkout draft, the preview selection and the validation
// error sets of both checkout steps.
//
// State is built with New and handed to the wiring layer; there is no
// package-level instance. Every mutator publishes a change event on the bus
// after releasing its lock, so handlers may read state while reacting.
package store
