package store

import "errors"

// ErrUnknownProduct is returned by Total when an order item is not in the catalog.
var ErrUnknownProduct = errors.New("unknown product")
