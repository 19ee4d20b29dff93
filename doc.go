// Package mailrouter routes outbound email to one of several interchangeable
// delivery backends based on configurable per-recipient and per-message
// rules, with automatic fallback when a chosen backend fails.
//
// Each recipient of an envelope is evaluated against ordered rule sets. A
// rule is either literal text matched case-insensitively anywhere in the
// recipient address, or a regular expression; a rule may also be prefixed
// with "property:" to match another envelope attribute such as the subject
// or a header. The first matching rule selects the backend; when nothing
// matches, the configured primary backend is used. Failed deliveries fall
// back to the primary and then the secondary backend, never attempting the
// same backend twice for one recipient.
//
// # Basic Usage
//
//	config := mailrouter.DefaultConfig()
//
//	router, err := mailrouter.New(config,
//		mailrouter.WithAWSSES("ses", "us-east-1"),
//		mailrouter.WithSendGrid("sendgrid", os.Getenv("SENDGRID_API_KEY")),
//		mailrouter.WithPrimary("ses"),
//		mailrouter.WithSecondary("sendgrid"),
//		mailrouter.WithRules("sendgrid", "@yahoo.com\n@(hotmail|outlook|live)\\.com$"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer router.Close()
//
//	env := &mailrouter.Envelope{
//		From:    mailrouter.Address{Email: "noreply@example.com"},
//		To:      []mailrouter.Address{{Email: "user@yahoo.com"}},
//		Subject: "Welcome",
//		Text:    "Welcome!",
//	}
//
//	sent, err := router.Send(context.Background(), env)
//
// # Supported Backends
//
//   - AWS SES
//   - SendGrid
//   - Mailgun
//   - Resend
//   - Generic SMTP
//   - Log (records instead of sending)
//
// # Features
//
//   - Ordered, first-match-wins rule evaluation
//   - Literal and regular-expression rules, case-insensitive by default
//   - Property-addressed rules (subject:, from:, header:, ...)
//   - Reserved Fail and Skip pseudo-targets for forced outcomes
//   - Primary/secondary fallback with no duplicate attempts
//   - Per-recipient audit lines
//   - Dry-run rule testing
//   - Distributed tracing with OpenTelemetry
package mailrouter
