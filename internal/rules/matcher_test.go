package rules

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testMatcher() *Matcher {
	return NewMatcher(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestMatchesLiteral(t *testing.T) {
	m := testMatcher()

	tests := []struct {
		name   string
		values []string
		rule   string
		want   bool
	}{
		{
			name:   "substring hit",
			values: []string{"Bob@Example.com"},
			rule:   "bob",
			want:   true,
		},
		{
			name:   "case-insensitive equality",
			values: []string{"SALES"},
			rule:   "sales",
			want:   true,
		},
		{
			name:   "domain fragment",
			values: []string{"alice@yahoo.com"},
			rule:   "@yahoo.com",
			want:   true,
		},
		{
			name:   "no hit",
			values: []string{"alice@example.com"},
			rule:   "@yahoo.com",
			want:   false,
		},
		{
			name:   "later value matches",
			values: []string{"nothing", "still nothing", "contains bob here"},
			rule:   "bob",
			want:   true,
		},
		{
			name:   "empty values",
			values: nil,
			rule:   "bob",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Matches(tt.values, tt.rule))
		})
	}
}

func TestMatchesPattern(t *testing.T) {
	m := testMatcher()

	tests := []struct {
		name   string
		values []string
		rule   string
		want   bool
	}{
		{
			name:   "undelimited pattern is case-insensitive",
			values: []string{"USER@GMAIL.COM"},
			rule:   `@gmail\.com$`,
			want:   true,
		},
		{
			name:   "anchored end rejects longer domain",
			values: []string{"user@gmail.company"},
			rule:   `@gmail\.com$`,
			want:   false,
		},
		{
			name:   "alternation",
			values: []string{"someone@outlook.com"},
			rule:   `@(hotmail|outlook|live)\.com$`,
			want:   true,
		},
		{
			name:   "delimited with i flag",
			values: []string{"BOB@DOMAIN.COM"},
			rule:   `/^bob@domain\.com$/i`,
			want:   true,
		},
		{
			name:   "delimited without flags is case-sensitive",
			values: []string{"Bob@domain.com"},
			rule:   `/^bob@domain\.com$/`,
			want:   false,
		},
		{
			name:   "tilde delimiters",
			values: []string{"bounce-123@lists.example.com"},
			rule:   "~^bounce-~i",
			want:   true,
		},
		{
			name:   "brace delimiters use the closing brace",
			values: []string{"xAAb"},
			rule:   "{a{2,3}b}i",
			want:   true,
		},
		{
			name:   "unsupported flag never matches",
			values: []string{"abc"},
			rule:   "/abc/u",
			want:   false,
		},
		{
			name:   "malformed expression never matches",
			values: []string{"[invalid"},
			rule:   "[invalid",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Matches(tt.values, tt.rule))
		})
	}
}

func TestMatchesCachesMalformedRules(t *testing.T) {
	m := testMatcher()

	assert.False(t, m.Matches([]string{"x"}, "(unclosed"))
	// Second evaluation comes from the cache and stays a non-match.
	assert.False(t, m.Matches([]string{"(unclosed"}, "(unclosed"))
}
