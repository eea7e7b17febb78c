// Package plugin runs Lua hook scripts that observe the storefront event bus.
//
// Each script gets its own sandboxed Lua state (see the lua subpackage) and a
// global larek table:
//
//	larek.on("basket.*", function(payload, topic)
//	    larek.log("info", "basket event", { topic = topic, count = payload.count })
//	end)
//
// larek.on(pattern, fn) subscribes fn to every topic matching the glob
// pattern. The payload arrives as a fresh Lua table converted from the Go
// payload, so hooks observe state without being able to change it.
//
// larek.log(level, msg [, fields]) writes to the application logger with the
// script name attached. print is routed to the same logger at debug level.
//
// A hook that raises an error or runs past the execution timeout is logged
// and skipped. Dispatch to the remaining handlers continues.
//
// Usage:
//
//	host, err := plugin.NewHost(bus, plugin.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer host.Close()
//
//	if err := host.LoadAll(ctx, cfg.Plugins.Scripts); err != nil {
//	    logger.Warn("some scripts failed to load", "error", err)
//	}
package plugin
