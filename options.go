package mailrouter

import (
	"log/slog"

	"github.com/lattiq/mailrouter/internal/backends"
)

// Option is a functional option for configuring the router.
type Option func(*Config)

// WithPrimary sets the primary backend name. Clears a conflicting secondary.
func WithPrimary(name string) Option {
	return func(c *Config) {
		c.SetPrimary(name)
	}
}

// WithSecondary sets the secondary backend name. Dropped when it equals the
// primary.
func WithSecondary(name string) Option {
	return func(c *Config) {
		c.SetSecondary(name)
	}
}

// WithRules sets the multi-line rule text for a backend target. Targets are
// evaluated in the order they are first configured.
func WithRules(target, rules string) Option {
	return func(c *Config) {
		c.SetRules(target, rules)
	}
}

// WithAudit enables or disables audit lines.
func WithAudit(enabled bool) Option {
	return func(c *Config) {
		c.AuditEnabled = enabled
	}
}

// WithAuditSink sets the audit sink and enables auditing.
func WithAuditSink(sink AuditSink) Option {
	return func(c *Config) {
		c.AuditSink = sink
		c.AuditEnabled = true
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithBackendFactory replaces the default backend factory.
func WithBackendFactory(factory BackendFactory) Option {
	return func(c *Config) {
		c.Factory = factory
	}
}

// WithDefaultBackend names the backend used when no backend name is
// specified at all.
func WithDefaultBackend(name string) Option {
	return func(c *Config) {
		c.DefaultBackend = name
	}
}

// WithBackend registers a backend with the default factory.
func WithBackend(name, backendType string, settings Settings) Option {
	return func(c *Config) {
		c.Backends = append(c.Backends, BackendSpec{
			Name:     name,
			Type:     backendType,
			Settings: settings,
		})
	}
}

// WithAWSSES registers an AWS SES backend.
func WithAWSSES(name, region string) Option {
	return WithBackend(name, backends.TypeAWSSES, Settings{
		"region": region,
	})
}

// WithAWSSESCredentials registers an AWS SES backend with explicit credentials.
func WithAWSSESCredentials(name, region, accessKey, secretKey string) Option {
	return WithBackend(name, backends.TypeAWSSES, Settings{
		"region":     region,
		"access_key": accessKey,
		"secret_key": secretKey,
	})
}

// WithSendGrid registers a SendGrid backend.
func WithSendGrid(name, apiKey string) Option {
	return WithBackend(name, backends.TypeSendGrid, Settings{
		"api_key": apiKey,
	})
}

// WithMailgun registers a Mailgun backend.
func WithMailgun(name, apiKey, domain string) Option {
	return WithBackend(name, backends.TypeMailgun, Settings{
		"api_key": apiKey,
		"domain":  domain,
	})
}

// WithMailgunEU registers a Mailgun backend for the EU region.
func WithMailgunEU(name, apiKey, domain string) Option {
	return WithBackend(name, backends.TypeMailgun, Settings{
		"api_key":  apiKey,
		"domain":   domain,
		"base_url": "https://api.eu.mailgun.net",
	})
}

// WithSMTP registers a generic SMTP backend.
func WithSMTP(name, host, port string) Option {
	return WithBackend(name, backends.TypeSMTP, Settings{
		"host": host,
		"port": port,
	})
}

// WithSMTPAuth registers an SMTP backend with authentication.
func WithSMTPAuth(name, host, port, username, password string) Option {
	return WithBackend(name, backends.TypeSMTP, Settings{
		"host":     host,
		"port":     port,
		"username": username,
		"password": password,
	})
}

// WithResend registers a Resend backend.
func WithResend(name, apiKey string) Option {
	return WithBackend(name, backends.TypeResend, Settings{
		"api_key": apiKey,
	})
}

// WithLogBackend registers a log-only backend that records messages instead
// of sending them.
func WithLogBackend(name string) Option {
	return WithBackend(name, backends.TypeLog, nil)
}
