package topic

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern selects topics for pattern subscriptions.
type Pattern interface {
	// Match reports whether the topic is selected by the pattern.
	Match(t Topic) bool

	// String returns the pattern source. Two patterns with the same String
	// share a registry entry.
	String() string
}

// Glob is a dot-segmented pattern with "*" and "**" wildcards.
type Glob string

// Match implements Pattern.
func (g Glob) Match(t Topic) bool {
	return t.Matches(Topic(g))
}

// String implements Pattern.
func (g Glob) String() string {
	return "glob:" + string(g)
}

// Valid returns true if the glob has no empty segments.
func (g Glob) Valid() bool {
	return Topic(g).IsValid()
}

// Regexp is a regular-expression pattern matched against the whole topic string.
type Regexp struct {
	re *regexp.Regexp
}

// NewRegexp compiles expr into a Regexp pattern.
func NewRegexp(expr string) (Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Regexp{}, fmt.Errorf("compiling topic pattern %q: %w", expr, err)
	}
	return Regexp{re: re}, nil
}

// MustRegexp is like NewRegexp but panics if the expression does not compile.
// Use it for package-level pattern literals.
func MustRegexp(expr string) Regexp {
	p, err := NewRegexp(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Match implements Pattern.
func (r Regexp) Match(t Topic) bool {
	if r.re == nil {
		return false
	}
	return r.re.MatchString(string(t))
}

// String implements Pattern.
func (r Regexp) String() string {
	if r.re == nil {
		return "regexp:"
	}
	return "regexp:" + r.re.String()
}

// IsGlob returns true if s contains glob wildcards.
func IsGlob(s string) bool {
	for _, seg := range strings.Split(s, Separator) {
		if seg == WildcardSingle || seg == WildcardMulti {
			return true
		}
	}
	return false
}
