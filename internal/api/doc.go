// Package api is the client of the larek commerce API.
//
// The API serves the product catalog and accepts orders:
//
//	GET  {base}/product       -> {"total": n, "items": [Product...]}
//	GET  {base}/product/{id}  -> Product
//	POST {base}/order         -> {"id": "...", "total": n}
//
// Product image paths are relative; the client prefixes them with the CDN
// base URL before decoding. Failed requests return *Error.
package api
