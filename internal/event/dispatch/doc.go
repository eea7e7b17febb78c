// Package dispatch runs event handlers for the storefront bus.
//
// Dispatch is always synchronous: handlers run in the publisher's goroutine, one
// after another, which is the event-loop goroutine of the application. A handler
// may publish further events while it runs; those are dispatched recursively
// before the outer handler continues.
//
// # Panic Recovery
//
// A panicking handler does not take down the event loop. The Executor recovers
// the panic, records it in the Result, and reports it to an optional PanicHandler
// together with the stack trace.
//
// # Usage
//
//	d := dispatch.NewSyncDispatcher(
//	    dispatch.WithPanicHandler(func(event any, v any, stack []byte) {
//	        logger.Error("handler panicked", "panic", v)
//	    }),
//	)
//	result := d.Dispatch(ctx, event, handler)
//	if !result.IsSuccess() {
//	    // inspect result.Error or result.PanicValue
//	}
package dispatch
