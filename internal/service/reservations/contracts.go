package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByUserWithFilter(ctx context.Context, filter domain.UserReservationsFilter) ([]*domain.Reservation, error)
	GetByAreaWithFilter(ctx context.Context, filter domain.AreaReservationsFilter) ([]*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, reason *string) error
}

// AreaRepository интерфейс репозитория зон
type AreaRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.CommonArea, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditEmitter асинхронная отправка событий аудита (best-effort)
type AuditEmitter interface {
	Emit(ctx context.Context, event domain.AuditEvent)
}

// AvailabilityCache кэш доступности зоны на дату
type AvailabilityCache interface {
	Invalidate(ctx context.Context, areaID int64, date time.Time) error
}

// OperationObserver учет результатов операций в метриках
type OperationObserver interface {
	ObserveReservation(operation, result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
