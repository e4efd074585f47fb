package session

import (
	"context"

	"go.uber.org/zap"
)

// Notifier is the local-notification boundary: category registration at
// startup and cancellation of everything scheduled when identity changes.
type Notifier interface {
	RequestAuthorization(ctx context.Context) error
	RegisterCategories(categories []string)
	CancelAll()
}

// LogNotifier is the default implementation for headless deployments.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) RequestAuthorization(_ context.Context) error {
	n.logger.Debug("notification authorization requested")
	return nil
}

func (n *LogNotifier) RegisterCategories(categories []string) {
	n.logger.Debug("notification categories registered", zap.Strings("categories", categories))
}

func (n *LogNotifier) CancelAll() {
	n.logger.Debug("scheduled notifications cancelled")
}
