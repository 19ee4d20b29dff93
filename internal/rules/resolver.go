package rules

import (
	"strings"

	"github.com/lattiq/mailrouter/internal/core"
)

// accessor extracts the comparable values of one envelope attribute.
type accessor func(*core.Envelope) []string

// properties maps the attribute names usable in "property:rule" syntax to
// their accessors. Lookups by explicit name keep unknown properties falling
// through to literal matching deterministically.
var properties = map[string]accessor{
	"to": func(e *core.Envelope) []string {
		values := make([]string, 0, len(e.To))
		for _, a := range e.To {
			values = append(values, a.Email)
		}
		return values
	},
	"from":     single(func(e *core.Envelope) string { return e.From.Email }),
	"fromName": single(func(e *core.Envelope) string { return e.From.Name }),
	"replyTo":  single(func(e *core.Envelope) string { return e.ReplyTo.Email }),
	"subject":  single(func(e *core.Envelope) string { return e.Subject }),
	"body":     single(func(e *core.Envelope) string { return e.Text }),
	"bodyHTML": single(func(e *core.Envelope) string { return e.HTML }),
	"header":   headerValues,
	"headers":  headerValues,
}

func single(get func(*core.Envelope) string) accessor {
	return func(e *core.Envelope) []string {
		return []string{get(e)}
	}
}

// headerValues flattens the multi-valued header map into "Name: value"
// strings so a rule can match header name and value jointly.
func headerValues(e *core.Envelope) []string {
	var values []string
	for name, vals := range e.Headers {
		for _, v := range vals {
			values = append(values, name+": "+v)
		}
	}
	return values
}

// Resolve applies the "property:rule" redirect syntax. When the rule names a
// known envelope attribute, the returned values come from that attribute and
// the returned rule is the remainder after the colon, trimmed. Otherwise the
// rule and the default value are returned unchanged, so rules containing
// literal colons (e.g. a time string) keep matching as plain text.
func Resolve(rule string, env *core.Envelope, defaultValue string) ([]string, string) {
	if idx := strings.Index(rule, ":"); idx > 0 {
		if acc, ok := properties[rule[:idx]]; ok {
			return acc(env), strings.TrimSpace(rule[idx+1:])
		}
	}
	return []string{defaultValue}, rule
}
