package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ledger-service/internal/events"
	"github.com/spec-kit/ledger-service/internal/persistence"
)

// AuditWorker trails security events: it logs every outcome and keeps
// short-lived per-subject denial counters in Redis.
type AuditWorker struct {
	redis  *persistence.Redis
	logger *zap.Logger
	window time.Duration
}

// StartAuditWorker subscribes the worker to the dispatcher.
func StartAuditWorker(dispatcher events.Dispatcher, redis *persistence.Redis, logger *zap.Logger, window time.Duration) {
	if dispatcher == nil {
		return
	}
	w := &AuditWorker{redis: redis, logger: logger, window: window}
	dispatcher.Subscribe(events.EventAuthDenied, w.handleDenied)
	dispatcher.Subscribe(events.EventAuthValidated, w.handleValidated)
	dispatcher.Subscribe(events.EventTokenIssued, w.handleIssued)
}

func (w *AuditWorker) handleDenied(ctx context.Context, event events.Event) error {
	subject := "anonymous"
	if event.Credentials != nil && event.Credentials.Name != "" {
		subject = event.Credentials.Name
	}
	w.logger.Warn("authentication denied",
		zap.String("subject", subject),
		zap.String("reason", event.Reason))

	if w.redis != nil {
		if _, err := w.redis.IncrWithTTL(ctx, "auth:denials:"+subject, w.window); err != nil {
			w.logger.Debug("denial counter update failed", zap.Error(err))
		}
	}
	return nil
}

func (w *AuditWorker) handleValidated(_ context.Context, event events.Event) error {
	if event.Credentials == nil {
		return nil
	}
	w.logger.Debug("authentication validated",
		zap.String("account_id", event.Credentials.AccountID),
		zap.Bool("is_admin", event.Credentials.IsAdmin))
	return nil
}

func (w *AuditWorker) handleIssued(_ context.Context, event events.Event) error {
	accountID := ""
	if event.Credentials != nil {
		accountID = event.Credentials.AccountID
	}
	w.logger.Info("session credential issued", zap.String("account_id", accountID))
	return nil
}
