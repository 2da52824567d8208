package error_notificator

import (
	"context"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
)

const notifyTimeout = 10 * time.Second

// Service sends failure alerts. A nil infra makes it a no-op, and send
// errors are only logged so an alert never changes the worker result.
type Service struct {
	infra Notificator
	log   *logger.ZapLogger
}

func NewService(infra Notificator, log *logger.ZapLogger) *Service {
	return &Service{infra: infra, log: log}
}

func (s *Service) Notify(ctx context.Context, worker string, err error, details string) {
	if s == nil || s.infra == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if sendErr := s.infra.Notify(ctx, worker, err, details); sendErr != nil {
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "[error_notificator] send fail",
			Service: worker,
			Error:   sendErr,
		})
	}
}
