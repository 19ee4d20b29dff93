package mailrouter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.AuditEnabled)
	assert.Empty(t, cfg.Primary)
	assert.Empty(t, cfg.Secondary)
}

func TestSetPrimaryClearsEqualSecondary(t *testing.T) {
	var cfg Config
	cfg.SetSecondary("ses")
	cfg.SetPrimary("ses")

	assert.Equal(t, "ses", cfg.Primary)
	assert.Empty(t, cfg.Secondary)
}

func TestSetSecondaryEqualToPrimaryIsDropped(t *testing.T) {
	var cfg Config
	cfg.SetPrimary("ses")
	cfg.SetSecondary("ses")

	assert.Equal(t, "ses", cfg.Primary)
	assert.Empty(t, cfg.Secondary)

	cfg.SetSecondary("smtp")
	assert.Equal(t, "smtp", cfg.Secondary)
}

func TestSetRulesReplacesExistingTarget(t *testing.T) {
	var cfg Config
	cfg.SetRules("bulk", "@yahoo.com")
	cfg.SetRules("smtp", "@example.org")
	cfg.SetRules("bulk", "@aol.com")

	require.Len(t, cfg.RuleSets, 2)
	assert.Equal(t, RuleSetConfig{Target: "bulk", Rules: "@aol.com"}, cfg.RuleSets[0])
	assert.Equal(t, RuleSetConfig{Target: "smtp", Rules: "@example.org"}, cfg.RuleSets[1])
}

func TestValidate(t *testing.T) {
	cfg := Config{Primary: "ses", Secondary: "ses"}
	require.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.Secondary)

	cfg = Config{Backends: []BackendSpec{{Name: "", Type: "log"}}}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)

	cfg = Config{Backends: []BackendSpec{
		{Name: "dup", Type: "log"},
		{Name: "dup", Type: "log"},
	}}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)

	cfg = Config{RuleSets: []RuleSetConfig{{Target: "", Rules: "@x"}}}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
primary: ses
secondary: smtp-local
audit: true
default_backend: ses
backends:
  - name: ses
    type: aws_ses
    settings:
      region: us-east-1
  - name: smtp-local
    type: smtp
    settings:
      host: localhost
      port: "1025"
rule_sets:
  - target: bulk
    rules: |
      @yahoo.com
      @aol.com
  - target: Fail
    rules: "@blocked.example"
`)

	cfg, err := ParseConfig(data)
	require.NoError(t, err)

	assert.Equal(t, "ses", cfg.Primary)
	assert.Equal(t, "smtp-local", cfg.Secondary)
	assert.True(t, cfg.AuditEnabled)
	assert.Equal(t, "ses", cfg.DefaultBackend)

	require.Len(t, cfg.Backends, 2)
	assert.Equal(t, "aws_ses", cfg.Backends[0].Type)
	assert.Equal(t, "us-east-1", cfg.Backends[0].Settings.Get("region"))
	assert.Equal(t, "1025", cfg.Backends[1].Settings.Get("port"))

	require.Len(t, cfg.RuleSets, 2)
	assert.Equal(t, "bulk", cfg.RuleSets[0].Target)
	assert.Equal(t, TargetFail, cfg.RuleSets[1].Target)
}

func TestParseConfigRejectsInvalidYAML(t *testing.T) {
	_, err := ParseConfig([]byte("primary: [unclosed"))
	assert.Error(t, err)
}

func TestRoutingSnapshotSplitsRuleLines(t *testing.T) {
	cfg := Config{
		Primary:   "ses",
		Secondary: "smtp-local",
		RuleSets: []RuleSetConfig{
			{Target: "bulk", Rules: "@yahoo.com\r\n\r\n@aol.com"},
			{Target: "dead", Rules: ""},
		},
	}

	snapshot := cfg.routing()
	assert.Equal(t, "ses", snapshot.Primary)
	assert.Equal(t, "smtp-local", snapshot.Secondary)
	require.Len(t, snapshot.RuleSets, 2)
	assert.Equal(t, []string{"@yahoo.com", "", "@aol.com"}, snapshot.RuleSets[0].Rules)
	assert.Empty(t, snapshot.RuleSets[1].Rules)
}
