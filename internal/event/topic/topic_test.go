package topic

import (
	"testing"
)

func TestTopic_Segments(t *testing.T) {
	tests := []struct {
		topic    Topic
		expected []string
	}{
		{Topic("basket.counter.changed"), []string{"basket", "counter", "changed"}},
		{Topic("catalog.changed"), []string{"catalog", "changed"}},
		{Topic("single"), []string{"single"}},
		{Topic(""), nil},
	}

	for _, tt := range tests {
		t.Run(tt.topic.String(), func(t *testing.T) {
			got := tt.topic.Segments()
			if len(got) != len(tt.expected) {
				t.Fatalf("Topic.Segments() = %v, want %v", got, tt.expected)
			}
			for i, seg := range got {
				if seg != tt.expected[i] {
					t.Errorf("Topic.Segments()[%d] = %v, want %v", i, seg, tt.expected[i])
				}
			}
		})
	}
}

func TestTopic_ParentChildBase(t *testing.T) {
	tp := Topic("contacts.email.changed")

	if got := tp.Parent(); got != "contacts.email" {
		t.Errorf("Parent() = %q, want %q", got, "contacts.email")
	}
	if got := Topic("single").Parent(); got != "" {
		t.Errorf("Parent() of single segment = %q, want empty", got)
	}
	if got := tp.Base(); got != "changed" {
		t.Errorf("Base() = %q, want %q", got, "changed")
	}
	if got := Topic("contacts").Child("phone").Child("changed"); got != "contacts.phone.changed" {
		t.Errorf("Child() = %q", got)
	}
	if got := Topic("").Child("order"); got != "order" {
		t.Errorf("Child() on empty = %q, want %q", got, "order")
	}
}

func TestTopic_HasPrefix(t *testing.T) {
	tests := []struct {
		topic    Topic
		prefix   Topic
		expected bool
	}{
		{Topic("basket.counter.changed"), Topic("basket"), true},
		{Topic("basket.counter.changed"), Topic("basket.counter"), true},
		{Topic("basket.counter.changed"), Topic("basket.counter.changed"), true},
		{Topic("basket.counter.changed"), Topic("bask"), false},
		{Topic("basket.counter.changed"), Topic("counter"), false},
		{Topic("basket"), Topic("basket.counter"), false},
		{Topic("basket.changed"), Topic(""), true},
	}

	for _, tt := range tests {
		t.Run(tt.topic.String()+"_"+tt.prefix.String(), func(t *testing.T) {
			if got := tt.topic.HasPrefix(tt.prefix); got != tt.expected {
				t.Errorf("Topic.HasPrefix(%v) = %v, want %v", tt.prefix, got, tt.expected)
			}
		})
	}
}

func TestTopic_IsValid(t *testing.T) {
	tests := []struct {
		topic    Topic
		expected bool
	}{
		{Topic("order.delivery.errors.changed"), true},
		{Topic("single"), true},
		{Topic("*"), true},
		{Topic(""), false},
		{Topic(".basket"), false},
		{Topic("basket."), false},
		{Topic("basket..changed"), false},
		{Topic("."), false},
	}

	for _, tt := range tests {
		t.Run(tt.topic.String(), func(t *testing.T) {
			if got := tt.topic.IsValid(); got != tt.expected {
				t.Errorf("Topic.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTopic_Matches(t *testing.T) {
	tests := []struct {
		topic    Topic
		pattern  Topic
		expected bool
	}{
		{Topic("basket.changed"), Topic("basket.changed"), true},
		{Topic("basket.changed"), Topic("catalog.changed"), false},
		{Topic("basket"), Topic("basket.changed"), false},

		{Topic("contacts.email.changed"), Topic("contacts.*.changed"), true},
		{Topic("contacts.phone.changed"), Topic("contacts.*.changed"), true},
		{Topic("contacts.submitted"), Topic("contacts.*.changed"), false},
		{Topic("basket.changed"), Topic("*.changed"), true},
		{Topic("basket.counter.changed"), Topic("*.changed"), false},

		{Topic("basket.counter.changed"), Topic("basket.**"), true},
		{Topic("basket"), Topic("basket.**"), true},
		{Topic("catalog.changed"), Topic("basket.**"), false},
		{Topic("order.delivery.errors.changed"), Topic("**.changed"), true},
		{Topic("single"), Topic("**"), true},
	}

	for _, tt := range tests {
		t.Run(tt.topic.String()+"_matches_"+tt.pattern.String(), func(t *testing.T) {
			if got := tt.topic.Matches(tt.pattern); got != tt.expected {
				t.Errorf("Topic(%q).Matches(%q) = %v, want %v", tt.topic, tt.pattern, got, tt.expected)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	if got := Join("order", "payment", "changed"); got != "order.payment.changed" {
		t.Errorf("Join() = %q", got)
	}
	if got := Join(); got != "" {
		t.Errorf("Join() with no segments = %q, want empty", got)
	}
}

func BenchmarkTopic_Matches_Wildcard(b *testing.B) {
	tp := Topic("contacts.email.changed")
	pattern := Topic("contacts.*.changed")
	for i := 0; i < b.N; i++ {
		_ = tp.Matches(pattern)
	}
}
