// Package rules implements the rule evaluation core of the mail router:
// classification of rule text, matching against message values, property
// redirection and backend selection.
package rules

import "strings"

// Kind distinguishes the two rule forms.
type Kind int

const (
	// Literal rules match case-insensitively by equality or substring.
	Literal Kind = iota

	// Pattern rules match as regular expressions.
	Pattern
)

// Classification is the result of classifying one rule.
type Classification struct {
	Kind Kind

	// Delimiter is the opening delimiter character when the rule is
	// written as a fully delimited expression (e.g. "/^bob@x\.com$/i").
	// Zero when the rule is a bare fragment that the matcher must wrap
	// with a default delimiter and case-insensitive flag.
	Delimiter byte
}

// patternChars are characters that never appear in email addresses; any of
// them marks the rule as a pattern rather than literal text.
const patternChars = `/\*([{^$!#%~`

// delimiters are the characters accepted as explicit pattern delimiters.
const delimiters = `/!~#%{`

// Classify decides whether a rule string is a literal match or a pattern
// match, and infers the pattern's delimiter if present. A rule is considered
// pre-delimited when it starts with a delimiter character and the same
// character appears again at a later position.
func Classify(rule string) Classification {
	for i := 0; i < len(patternChars); i++ {
		if !strings.ContainsRune(rule, rune(patternChars[i])) {
			continue
		}
		c := Classification{Kind: Pattern}
		for j := 0; j < len(delimiters); j++ {
			d := delimiters[j]
			if rule[0] == d && strings.LastIndexByte(rule, d) > 0 {
				c.Delimiter = d
				break
			}
		}
		return c
	}
	return Classification{Kind: Literal}
}

// closingDelimiter returns the character that closes a delimited expression
// opened by d. Brace-delimited expressions close with the matching brace;
// every other delimiter closes with itself.
func closingDelimiter(d byte) byte {
	if d == '{' {
		return '}'
	}
	return d
}
