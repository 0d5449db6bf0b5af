package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	areaRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/area"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// UseCase use case расчета доступности зоны на дату
type UseCase struct {
	areaRepo        AreaRepository
	reservationRepo ReservationRepository
	cache           AvailabilityCache
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	areaRepo AreaRepository,
	reservationRepo ReservationRepository,
	cache AvailabilityCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		areaRepo:        areaRepo,
		reservationRepo: reservationRepo,
		cache:           cache,
		logger:          logger,
	}
}

// Execute возвращает окна, занятые и свободные интервалы зоны на дату.
// Только чтение: зона в любом состоянии и любая дата допустимы
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: area=%d, date=%s", req.AreaID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}
	date := domain.DateOnly(req.Date)

	// 2. Получаем зону
	area, err := uc.areaRepo.GetByID(ctx, req.AreaID)
	if err != nil {
		if errors.Is(err, areaRepo.ErrAreaNotFound) {
			uc.logger.Warn("GetAvailability: area id=%d not found", req.AreaID)
			return nil, ErrAreaNotFound
		}
		uc.logger.Error("GetAvailability: failed to get area id=%d: %v", req.AreaID, err)
		return nil, fmt.Errorf("%w: failed to get area: %v", ErrInternal, err)
	}

	// 3. Берем расчет из кэша или считаем заново
	snap, err := uc.load(ctx, area.ID, date)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Area:    area,
		Date:    date,
		Windows: snap.Windows,
		Busy:    snap.Busy,
		Free:    snap.Free,
	}

	// 4. Предупреждение для неактивной зоны
	if !area.IsActive() {
		resp.Warning = ptr.Ptr(fmt.Sprintf("area is %s and does not accept new reservations", area.State))
	}

	uc.logger.Info("GetAvailability: area=%d, date=%s: %d windows, %d busy, %d free",
		area.ID, date.Format(domain.DateFormat), len(snap.Windows), len(snap.Busy), len(snap.Free))

	return resp, nil
}

func (uc *UseCase) load(ctx context.Context, areaID int64, date time.Time) (*snapshot, error) {
	var cached snapshot
	found, err := uc.cache.Get(ctx, areaID, date, &cached)
	if err != nil {
		// Кэш необязателен: при ошибке считаем по базе
		uc.logger.Warn("GetAvailability: cache read failed for area=%d: %v", areaID, err)
	} else if found {
		return &cached, nil
	}

	// Версия читается до расчета: инвалидация во время расчета отменит запись снимка
	version, versionErr := uc.cache.Version(ctx, areaID, date)
	if versionErr != nil {
		uc.logger.Warn("GetAvailability: cache version read failed for area=%d: %v", areaID, versionErr)
	}

	snap, err := uc.compute(ctx, areaID, date)
	if err != nil {
		return nil, err
	}

	if versionErr != nil {
		return snap, nil
	}
	stored, err := uc.cache.Set(ctx, areaID, date, version, snap)
	switch {
	case err != nil:
		uc.logger.Warn("GetAvailability: cache write failed for area=%d: %v", areaID, err)
	case !stored:
		uc.logger.Info("GetAvailability: area=%d date=%s changed during calculation, snapshot not cached",
			areaID, date.Format(domain.DateFormat))
	}
	return snap, nil
}

func (uc *UseCase) compute(ctx context.Context, areaID int64, date time.Time) (*snapshot, error) {
	windows, err := uc.areaRepo.GetWindows(ctx, areaID)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get windows for area=%d: %v", areaID, err)
		return nil, fmt.Errorf("%w: failed to get windows: %v", ErrInternal, err)
	}

	reservations, err := uc.reservationRepo.GetActiveByAreaAndDate(ctx, areaID, date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get reservations for area=%d: %v", areaID, err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	windowIntervals := domain.SortIntervals(domain.WindowIntervals(windows))
	busy := domain.SortIntervals(domain.BusyIntervals(reservations, nil))

	return &snapshot{
		Windows: windowIntervals,
		Busy:    busy,
		Free:    domain.FreeIntervals(windowIntervals, busy),
	}, nil
}
