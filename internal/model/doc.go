// Package model defines the storefront domain types shared by the API client,
// the state manager and the views.
package model
