package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded notifications. It is
// used when no webhook is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards notifications with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// NotifyAnalysis logs and discards a notification.
func (n *NoOpNotifier) NotifyAnalysis(_ context.Context, p *AnalysisPayload) error {
	n.log.Debug("notification discarded (no backend configured)",
		"manifest_id", p.ManifestID,
		"file", p.FileName,
		"action", p.Action,
	)
	return nil
}
