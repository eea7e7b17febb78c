// Package view contains the terminal components of the storefront.
//
// Components render from explicit view-model structs set through Update or
// Set methods; they never read the state manager. User actions become
// intent events published through an event.Publisher. A Screen composes the
// Page with a Modal hosting one component at a time and draws them onto a
// backend.Backend.
package view
