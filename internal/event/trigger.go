package event

import (
	"context"
	"maps"

	"github.com/dshills/larek/internal/event/topic"
)

// Fields is a loosely typed payload, used by Trigger and by form field events.
type Fields map[string]any

// String returns the string value under key, or "" if it is missing or not a string.
func (f Fields) String(key string) string {
	s, _ := f[key].(string)
	return s
}

// TriggerFunc publishes a pre-bound topic with call-time fields.
type TriggerFunc func(ctx context.Context, fields Fields) error

// Trigger returns a function that publishes t with the union of its call-time
// fields and the bound fields. Bound keys override call-time keys.
func (b *bus) Trigger(t topic.Topic, bound Fields) TriggerFunc {
	bound = maps.Clone(bound)
	return func(ctx context.Context, fields Fields) error {
		return b.Emit(ctx, t, mergeFields(fields, bound))
	}
}

// mergeFields returns the union of fields and bound. Bound keys win.
func mergeFields(fields, bound Fields) Fields {
	merged := make(Fields, len(fields)+len(bound))
	maps.Copy(merged, fields)
	maps.Copy(merged, bound)
	return merged
}
