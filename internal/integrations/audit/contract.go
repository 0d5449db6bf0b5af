package audit

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Sink получатель событий аудита
type Sink interface {
	Publish(ctx context.Context, event domain.AuditEvent) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
