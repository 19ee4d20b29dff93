package rules

import (
	"strings"

	"github.com/lattiq/mailrouter/internal/core"
)

// Selector picks the backend target for one recipient by evaluating the
// configured rule sets in order. Safe for concurrent use.
type Selector struct {
	matcher *Matcher
}

// NewSelector creates a selector using the given matcher.
func NewSelector(matcher *Matcher) *Selector {
	return &Selector{matcher: matcher}
}

// Select evaluates the rule sets in configuration order against the
// recipient address (or the envelope attribute a rule redirects to). The
// first rule that matches wins: earlier rule sets and earlier rules within a
// set take precedence, with no scoring. When nothing matches, the primary
// backend is returned with an explicit no-match decision.
func (s *Selector) Select(env *core.Envelope, recipient string, cfg core.RoutingConfig) core.RoutingDecision {
	for _, set := range cfg.RuleSets {
		if len(set.Rules) == 0 {
			continue
		}
		for _, raw := range set.Rules {
			rule := strings.TrimSpace(raw)
			if rule == "" {
				continue
			}
			values, effective := Resolve(rule, env, recipient)
			if s.matcher.Matches(values, effective) {
				return core.RoutingDecision{Target: set.Target, Rule: rule, Matched: true}
			}
		}
	}
	return core.RoutingDecision{Target: cfg.Primary}
}
