package event

import (
	"reflect"
	"sort"
	"sync"

	"github.com/dshills/larek/internal/event/topic"
)

// patternEntry groups the subscriptions registered under one pattern.
type patternEntry struct {
	pattern topic.Pattern
	subs    []*subscription
}

// Registry manages subscriptions. Exact topics are kept in a map and
// patterns in an ordered list, so a publication costs one map lookup plus
// one match per distinct pattern.
//
// It is safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	exact    map[topic.Topic][]*subscription
	patterns []*patternEntry
	byID     map[string]*subscription
	seq      uint64
}

// NewRegistry creates a new subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		exact: make(map[topic.Topic][]*subscription),
		byID:  make(map[string]*subscription),
	}
}

// AddExact registers sub under an exact topic.
// If a comparable handler equal to sub's handler is already registered under
// the same topic, the existing subscription is returned and sub is discarded.
func (r *Registry) AddExact(t topic.Topic, sub *subscription) *subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := findHandler(r.exact[t], sub.handler); existing != nil {
		return existing
	}

	sub.key = string(t)
	sub.exact = t
	r.seq++
	sub.seq = r.seq
	r.exact[t] = append(r.exact[t], sub)
	r.byID[sub.id] = sub
	return sub
}

// AddPattern registers sub under a pattern. Patterns with the same string
// form share an entry.
func (r *Registry) AddPattern(p topic.Pattern, sub *subscription) *subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := p.String()
	var entry *patternEntry
	for _, e := range r.patterns {
		if e.pattern.String() == key {
			entry = e
			break
		}
	}
	if entry == nil {
		entry = &patternEntry{pattern: p}
		r.patterns = append(r.patterns, entry)
	}
	if existing := findHandler(entry.subs, sub.handler); existing != nil {
		return existing
	}

	sub.key = key
	sub.pattern = p
	r.seq++
	sub.seq = r.seq
	entry.subs = append(entry.subs, sub)
	r.byID[sub.id] = sub
	return sub
}

// Remove removes a subscription by ID and prunes its entry when it becomes empty.
func (r *Registry) Remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.byID[subID]
	if !exists {
		return false
	}
	delete(r.byID, subID)

	if sub.pattern == nil {
		subs := without(r.exact[sub.exact], subID)
		if len(subs) == 0 {
			delete(r.exact, sub.exact)
		} else {
			r.exact[sub.exact] = subs
		}
		return true
	}

	for i, e := range r.patterns {
		if e.pattern.String() != sub.key {
			continue
		}
		e.subs = without(e.subs, subID)
		if len(e.subs) == 0 {
			r.patterns = append(r.patterns[:i:i], r.patterns[i+1:]...)
		}
		break
	}
	return true
}

// Get returns a subscription by ID.
func (r *Registry) Get(subID string) (Subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, exists := r.byID[subID]
	if !exists {
		return nil, false
	}
	return sub, true
}

// Match returns a snapshot of every subscription whose exact topic equals t
// or whose pattern matches t, ordered by priority and then registration order.
func (r *Registry) Match(t topic.Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*subscription
	all = append(all, r.exact[t]...)
	for _, e := range r.patterns {
		if e.pattern.Match(t) {
			all = append(all, e.subs...)
		}
	}
	if len(all) == 0 {
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool {
		pi, pj := all[i].config.Priority, all[j].config.Priority
		if pi != pj {
			return pi < pj
		}
		return all[i].seq < all[j].seq
	})
	return all
}

// Count returns the total number of subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

// CountByKey returns the number of subscriptions under an exact topic or pattern string.
func (r *Registry) CountByKey(key string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if subs, ok := r.exact[topic.Topic(key)]; ok {
		return len(subs)
	}
	for _, e := range r.patterns {
		if e.pattern.String() == key {
			return len(e.subs)
		}
	}
	return 0
}

// Keys returns every exact topic and pattern string that has subscriptions.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.exact)+len(r.patterns))
	for t := range r.exact {
		keys = append(keys, string(t))
	}
	sort.Strings(keys)
	for _, e := range r.patterns {
		keys = append(keys, e.pattern.String())
	}
	return keys
}

// Clear removes all subscriptions.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.byID {
		sub.Cancel()
	}
	r.exact = make(map[topic.Topic][]*subscription)
	r.patterns = nil
	r.byID = make(map[string]*subscription)
}

// findHandler returns the subscription in subs holding a handler equal to h.
// Handlers whose value is not comparable never match; this includes
// comparable types holding a function in an interface field.
func findHandler(subs []*subscription, h Handler) *subscription {
	if !reflect.ValueOf(h).Comparable() {
		return nil
	}
	for _, s := range subs {
		if reflect.TypeOf(s.handler) != reflect.TypeOf(h) || !reflect.ValueOf(s.handler).Comparable() {
			continue
		}
		if s.handler == h {
			return s
		}
	}
	return nil
}

func without(subs []*subscription, id string) []*subscription {
	out := subs[:0:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}
