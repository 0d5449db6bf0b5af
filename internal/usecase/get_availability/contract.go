package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// AreaRepository интерфейс репозитория зон
type AreaRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.CommonArea, error)
	// GetWindows окна работы зоны, отсортированные по началу
	GetWindows(ctx context.Context, areaID int64) ([]*domain.ScheduleWindow, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetActiveByAreaAndDate(ctx context.Context, areaID int64, date time.Time) ([]*domain.Reservation, error)
}

// AvailabilityCache кэш рассчитанной доступности
type AvailabilityCache interface {
	Get(ctx context.Context, areaID int64, date time.Time, dst interface{}) (bool, error)
	// Version растет при каждой инвалидации записи
	Version(ctx context.Context, areaID int64, date time.Time) (int64, error)
	// Set сохраняет value, только если версия все еще равна version
	Set(ctx context.Context, areaID int64, date time.Time, version int64, value interface{}) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
