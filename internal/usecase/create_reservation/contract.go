package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotvalidator"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
}

// AreaRepository интерфейс репозитория зон
type AreaRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.CommonArea, error)
}

// SlotValidator проверка слота перед записью
type SlotValidator interface {
	Validate(ctx context.Context, req slotvalidator.Request) error
}

// TenancyServiceClient интерфейс клиента сервиса жильцов
type TenancyServiceClient interface {
	HasActiveTenancy(ctx context.Context, userID int64) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditEmitter асинхронная отправка событий аудита
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
