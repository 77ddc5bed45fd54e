package classify

import "regexp"

// Matcher decides whether an error raised during a classification trial is
// arity-mismatch-shaped, i.e. produced by the call machinery complaining
// about argument count rather than by user code.
//
// The heuristic is inherently ambiguous: a genuine user error whose message
// coincidentally matches argument-count wording during a higher-arity trial
// is masked and a lower arity is tried instead. Anything the matcher does
// not recognize propagates unchanged.
type Matcher struct {
	patterns []*regexp.Regexp
}

// Default wording covers Go's reflect call errors and the argument-count
// messages of common embedded scripting runtimes.
var defaultPatterns = []string{
	`reflect: Call with too few input arguments`,
	`reflect: Call with too many input arguments`,
	`wrong number of arguments`,
	`takes \d+ positional arguments? but \d+ (?:was|were) given`,
	`missing \d+ required positional arguments?`,
	`too many arguments`,
	`not enough arguments`,
	`function takes exactly \d+ arguments?`,
}

// NewMatcher builds a matcher from the default wording plus any extra
// patterns (regular expressions matched against the error message).
func NewMatcher(extra ...string) *Matcher {
	m := &Matcher{}
	for _, p := range defaultPatterns {
		m.patterns = append(m.patterns, regexp.MustCompile(p))
	}
	for _, p := range extra {
		m.patterns = append(m.patterns, regexp.MustCompile(p))
	}
	return m
}

// Match reports whether err is arity-mismatch-shaped.
func (m *Matcher) Match(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, p := range m.patterns {
		if p.MatchString(msg) {
			return true
		}
	}
	return false
}

// DefaultMatcher is the package-wide matcher with the default wording.
var DefaultMatcher = NewMatcher()
