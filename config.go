package mailrouter

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lattiq/mailrouter/internal/core"
)

// Config holds the complete router configuration. The yaml-tagged fields are
// the persisted configuration shape; Logger, AuditSink and Factory are
// runtime collaborators supplied through options.
type Config struct {
	// Primary is the backend used when no rule matches, and the first
	// fallback when a rule-selected backend is unavailable or fails.
	Primary string `yaml:"primary"`

	// Secondary is the last-resort fallback backend. Never equal to
	// Primary: assigning an equal value clears the conflicting one, last
	// write wins.
	Secondary string `yaml:"secondary"`

	// RuleSets hold one multi-line rule text block per backend target, in
	// evaluation order. Targets may include the reserved TargetFail and
	// TargetSkip pseudo-targets anywhere in the order.
	RuleSets []RuleSetConfig `yaml:"rule_sets"`

	// AuditEnabled turns per-recipient audit lines on or off.
	AuditEnabled bool `yaml:"audit"`

	// Backends configures the default backend factory. Ignored when a
	// custom factory is supplied.
	Backends []BackendSpec `yaml:"backends"`

	// DefaultBackend names the backend used when no name is specified at
	// all (empty primary, no rule match). Defaults to Primary, then to
	// the first configured backend.
	DefaultBackend string `yaml:"default_backend"`

	// Logger receives structured diagnostics. Defaults to slog.Default().
	Logger *slog.Logger `yaml:"-"`

	// AuditSink receives audit lines when auditing is enabled. Defaults
	// to a sink writing through Logger.
	AuditSink AuditSink `yaml:"-"`

	// Factory overrides the default backend factory.
	Factory BackendFactory `yaml:"-"`
}

// RuleSetConfig is one persisted rule-set block: newline-separated rule
// strings routed to a single backend target.
type RuleSetConfig struct {
	Target string `yaml:"target"`
	Rules  string `yaml:"rules"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		AuditEnabled: true,
	}
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration data on top of the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// SetPrimary assigns the primary backend name. When the new value equals the
// configured secondary, the secondary is cleared.
func (c *Config) SetPrimary(name string) {
	if name != "" && name == c.Secondary {
		c.Secondary = ""
	}
	c.Primary = name
}

// SetSecondary assigns the secondary backend name. When the new value equals
// the configured primary, the assignment is dropped.
func (c *Config) SetSecondary(name string) {
	if name != "" && name == c.Primary {
		name = ""
	}
	c.Secondary = name
}

// SetRules replaces the rule text for a backend target, appending a new rule
// set when the target has none yet. Order of existing targets is preserved.
func (c *Config) SetRules(target, rules string) {
	for i := range c.RuleSets {
		if c.RuleSets[i].Target == target {
			c.RuleSets[i].Rules = rules
			return
		}
	}
	c.RuleSets = append(c.RuleSets, RuleSetConfig{Target: target, Rules: rules})
}

// Validate checks the configuration and resolves the primary/secondary
// conflict in place. The conflict is never an error: the secondary is
// cleared, matching the behavior of the setters.
func (c *Config) Validate() error {
	if c.Secondary != "" && c.Secondary == c.Primary {
		c.Secondary = ""
	}

	seen := make(map[string]bool, len(c.Backends))
	for _, spec := range c.Backends {
		if spec.Name == "" {
			return fmt.Errorf("%w: backend with empty name", ErrInvalidConfiguration)
		}
		if seen[spec.Name] {
			return fmt.Errorf("%w: duplicate backend name %q", ErrInvalidConfiguration, spec.Name)
		}
		seen[spec.Name] = true
	}

	for _, rs := range c.RuleSets {
		if rs.Target == "" {
			return fmt.Errorf("%w: rule set with empty target", ErrInvalidConfiguration)
		}
	}

	return nil
}

// routing builds the read-only routing snapshot for one send operation.
func (c *Config) routing() core.RoutingConfig {
	snapshot := core.RoutingConfig{
		Primary:   c.Primary,
		Secondary: c.Secondary,
	}
	for _, rs := range c.RuleSets {
		snapshot.RuleSets = append(snapshot.RuleSets, core.RuleSet{
			Target: rs.Target,
			Rules:  splitRules(rs.Rules),
		})
	}
	return snapshot
}

// splitRules splits a multi-line rule text block into its rule lines.
// Blank lines survive here and are skipped during selection.
func splitRules(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
