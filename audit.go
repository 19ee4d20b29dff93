package mailrouter

import (
	"fmt"
	"log/slog"

	"github.com/lattiq/mailrouter/internal/core"
)

// LogSink is an AuditSink that writes audit lines through a structured
// logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates an audit sink writing through the given logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Record logs one audit line.
func (s *LogSink) Record(line string) {
	s.logger.Info("mail routed", "audit", line)
}

// NopSink is an AuditSink that discards everything.
type NopSink struct{}

// Record discards the line.
func (NopSink) Record(string) {}

// formatAuditLine composes the per-recipient audit record: the backend that
// actually handled the attempt (annotated when fallback changed it), the
// outcome, the recipient and the matched rule or an explicit no-match
// marker.
func formatAuditLine(decision core.RoutingDecision, result core.DispatchResult, email string) string {
	target := decision.Target
	if result.Backend != "" {
		target = result.Backend
		if result.Fallback {
			target = fmt.Sprintf("%s (fallback from %s)", result.Backend, decision.Target)
		}
	}

	status := "failed"
	if result.Sent > 0 {
		status = "sent"
	}

	line := fmt.Sprintf("%s %s %s", target, status, email)
	if decision.Matched {
		line += " - matched: " + decision.Rule
	} else {
		line += " - no rule matched"
	}
	return line
}
