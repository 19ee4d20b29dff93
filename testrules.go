package mailrouter

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/lattiq/mailrouter/internal/core"
)

// RuleTestResult is one dry-run evaluation result.
type RuleTestResult struct {
	// Input is the evaluated recipient address.
	Input string

	// Target is the backend target the rules chose.
	Target string

	// Rule is the matched rule text; empty when Matched is false.
	Rule string

	// Matched reports whether any rule matched.
	Matched bool
}

// TestRules evaluates candidate inputs against the configured rules without
// dispatching anything. An input of the form "attribute=value" sets that
// attribute on a scratch envelope for subsequent evaluations and produces no
// result entry; any other non-blank input is treated as a recipient address
// and produces exactly one result. Unknown attributes are logged and
// skipped.
func (c *Client) TestRules(ctx context.Context, inputs []string) []RuleTestResult {
	_, span := c.tracer.Start(ctx, "mailrouter.Client.TestRules")
	defer span.End()

	scratch := &core.Envelope{Headers: make(map[string][]string)}
	snapshot := c.config.routing()

	var results []RuleTestResult
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if idx := strings.Index(input, "="); idx > 0 {
			property := input[:idx]
			value := input[idx+1:]
			if !setScratchProperty(scratch, property, value) {
				c.logger.Warn("unknown mail property in rule test", "property", property)
			}
			continue
		}

		decision := c.selector.Select(scratch, input, snapshot)
		results = append(results, RuleTestResult{
			Input:   input,
			Target:  decision.Target,
			Rule:    decision.Rule,
			Matched: decision.Matched,
		})
	}

	span.SetAttributes(
		attribute.Int("mailrouter.test.inputs", len(inputs)),
		attribute.Int("mailrouter.test.results", len(results)),
	)
	span.SetStatus(codes.Ok, "rule test completed")

	return results
}

// setScratchProperty applies an "attribute=value" directive to the scratch
// envelope. Returns false for unknown attributes.
func setScratchProperty(env *core.Envelope, property, value string) bool {
	switch property {
	case "to":
		env.To = append(env.To, core.Address{Email: value})
	case "from":
		env.From.Email = value
	case "fromName":
		env.From.Name = value
	case "replyTo":
		env.ReplyTo.Email = value
	case "subject":
		env.Subject = value
	case "body":
		env.Text = value
	case "bodyHTML":
		env.HTML = value
	default:
		if name, ok := strings.CutPrefix(property, "header:"); ok && name != "" {
			env.Headers[name] = append(env.Headers[name], value)
			return true
		}
		return false
	}
	return true
}
