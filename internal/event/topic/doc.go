// Package topic provides topic names and subscription patterns for the storefront event bus.
//
// # Topic Format
//
// Topics use dot-notation to create hierarchical namespaces:
//
//	catalog.changed
//	basket.counter.changed
//	order.delivery.errors.changed
//	contacts.email.changed
//
// A published event always carries a concrete topic. Subscriptions either name a
// topic exactly or register a Pattern.
//
// # Patterns
//
// Two pattern kinds are supported:
//
//   - Glob: "*" matches exactly one segment, "**" matches zero or more segments
//   - Regexp: an arbitrary regular expression matched against the whole topic string
//
// Examples:
//
//	basket.*              matches basket.changed (not basket.counter.changed)
//	basket.**             matches basket.changed, basket.counter.changed
//	contacts.*.changed    matches contacts.email.changed, contacts.phone.changed
//	^contacts\..*changed$ (Regexp) matches the same topics
//
// The sentinel topic All ("*") is an ordinary exact topic. Subscribing to it does not
// subscribe to every topic; it only receives events published to "*" itself.
package topic
