// Package notify contains EscalationNotifier implementations.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/casesla/internal/ports/secondary"
)

// LogNotifier implements secondary.EscalationNotifier by writing one
// structured log entry per escalation. Delivery to people is left to whatever
// ships the logs.
type LogNotifier struct {
	logger *zap.Logger
}

var _ secondary.EscalationNotifier = (*LogNotifier)(nil)

// NewLogNotifier creates a LogNotifier. A nil logger discards entries.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("escalation")}
}

// Notify logs the escalation. RED escalations are logged at Warn.
func (n *LogNotifier) Notify(ctx context.Context, caseID, tier string, roles []string) error {
	fields := []zap.Field{
		zap.String("case_id", caseID),
		zap.String("tier", tier),
		zap.Strings("roles", roles),
	}
	if tier == "RED" {
		n.logger.Warn("case escalated", fields...)
	} else {
		n.logger.Info("case escalated", fields...)
	}
	return nil
}
