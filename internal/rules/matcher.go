package rules

import (
	"log/slog"
	"regexp"
	"strings"
	"sync"
)

// Matcher evaluates individual rules against candidate string values.
// Compiled patterns are cached per rule text, including permanently
// non-matching entries for malformed expressions. Safe for concurrent use.
type Matcher struct {
	logger *slog.Logger
	mu     sync.RWMutex
	cache  map[string]*regexp.Regexp
}

// NewMatcher creates a matcher. Malformed pattern rules are reported through
// the logger as warnings; they never abort evaluation.
func NewMatcher(logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		logger: logger,
		cache:  make(map[string]*regexp.Regexp),
	}
}

// Matches reports whether any of the values matches the rule, checking
// values in order and returning on the first hit.
//
// Pattern rules are evaluated as case-insensitive regular expressions unless
// explicitly delimited with their own flags; a malformed expression is a
// permanent non-match. Literal rules match case-insensitively when any value
// equals or contains the rule text.
func (m *Matcher) Matches(values []string, rule string) bool {
	c := Classify(rule)

	if c.Kind == Pattern {
		re := m.compiled(rule, c)
		if re == nil {
			return false
		}
		for _, v := range values {
			if re.MatchString(v) {
				return true
			}
		}
		return false
	}

	lower := strings.ToLower(rule)
	for _, v := range values {
		v = strings.ToLower(v)
		if v == lower || strings.Contains(v, lower) {
			return true
		}
	}
	return false
}

// compiled returns the compiled expression for a pattern rule, or nil when
// the rule is malformed. Results are cached either way.
func (m *Matcher) compiled(rule string, c Classification) *regexp.Regexp {
	m.mu.RLock()
	re, ok := m.cache[rule]
	m.mu.RUnlock()
	if ok {
		return re
	}

	re = m.compile(rule, c)

	m.mu.Lock()
	m.cache[rule] = re
	m.mu.Unlock()
	return re
}

func (m *Matcher) compile(rule string, c Classification) *regexp.Regexp {
	expr, ok := translate(rule, c)
	if !ok {
		m.logger.Warn("malformed pattern rule treated as non-matching", "rule", rule)
		return nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		m.logger.Warn("malformed pattern rule treated as non-matching",
			"rule", rule, "error", err)
		return nil
	}
	return re
}

// translate converts a rule into a Go regular expression. Undelimited rules
// are wrapped case-insensitive; delimited rules have their delimiters
// stripped and trailing flags converted.
func translate(rule string, c Classification) (string, bool) {
	if c.Delimiter == 0 {
		return "(?i)" + rule, true
	}

	end := strings.LastIndexByte(rule, closingDelimiter(c.Delimiter))
	if end <= 0 {
		return "", false
	}

	var flags strings.Builder
	for _, f := range rule[end+1:] {
		switch f {
		case 'i', 'm', 's':
			flags.WriteRune(f)
		default:
			// Unsupported flag, e.g. a PCRE-only modifier.
			return "", false
		}
	}

	expr := rule[1:end]
	if flags.Len() > 0 {
		expr = "(?" + flags.String() + ")" + expr
	}
	return expr, true
}
