package event

// Common filter predicates for event subscription.

// FilterBySource creates a filter that only allows events from the specified source.
func FilterBySource(source string) FilterFunc {
	return func(event any) bool {
		return sourceOf(event) == source
	}
}

// FilterExcludeSource creates a filter that excludes events from the specified source.
func FilterExcludeSource(source string) FilterFunc {
	return func(event any) bool {
		return sourceOf(event) != source
	}
}

// FilterPayload creates a filter based on the payload.
// Events whose payload is not a T are filtered out.
func FilterPayload[T any](predicate func(payload T) bool) FilterFunc {
	return func(event any) bool {
		p, ok := PayloadOf[T](event)
		return ok && predicate(p)
	}
}

// FilterAnd combines multiple filters with AND logic.
func FilterAnd(filters ...FilterFunc) FilterFunc {
	return func(event any) bool {
		for _, f := range filters {
			if !f(event) {
				return false
			}
		}
		return true
	}
}

// FilterNot negates a filter.
func FilterNot(filter FilterFunc) FilterFunc {
	return func(event any) bool {
		return !filter(event)
	}
}

func sourceOf(event any) string {
	switch e := event.(type) {
	case *Envelope:
		if e != nil {
			return e.Metadata.Source
		}
	case MetadataProvider:
		return e.EventMetadata().Source
	}
	return ""
}
