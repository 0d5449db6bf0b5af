package update_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	areaRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/area"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotvalidator"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

const (
	operationUpdate    = "update"
	operationReprogram = "reprogram"
)

// UseCase use case изменения слота бронирования (частичное изменение и перенос)
type UseCase struct {
	reservationRepo ReservationRepository
	areaRepo        AreaRepository
	validator       SlotValidator
	txManager       TransactionManager
	audit           AuditEmitter
	cache           AvailabilityCache
	metrics         OperationObserver
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	areaRepo AreaRepository,
	validator SlotValidator,
	txManager TransactionManager,
	audit AuditEmitter,
	cache AvailabilityCache,
	metrics OperationObserver,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		areaRepo:        areaRepo,
		validator:       validator,
		txManager:       txManager,
		audit:           audit,
		cache:           cache,
		metrics:         metrics,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute частично изменяет слот: незаданные поля берутся из текущего бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateReservation: reservation id=%d by user=%d", req.ReservationID, req.Caller.UserID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		uc.metrics.ObserveReservation(operationUpdate, "rejected")
		return nil, err
	}

	return uc.apply(ctx, req, operationUpdate, domain.AuditActionUpdated)
}

// Reprogram полностью заменяет дату и интервал бронирования
func (uc *UseCase) Reprogram(ctx context.Context, req *ReprogramRequest) (*Response, error) {
	uc.logger.Info("ReprogramReservation: reservation id=%d by user=%d, date=%s, slot=%s-%s",
		req.ReservationID, req.Caller.UserID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	if err := validateReprogramRequest(req); err != nil {
		uc.logger.Warn("ReprogramReservation: validation failed: %v", err)
		uc.metrics.ObserveReservation(operationReprogram, "rejected")
		return nil, err
	}

	partial := req.toRequest()
	if err := validateRequest(partial); err != nil {
		uc.logger.Warn("ReprogramReservation: validation failed: %v", err)
		uc.metrics.ObserveReservation(operationReprogram, "rejected")
		return nil, err
	}

	return uc.apply(ctx, partial, operationReprogram, domain.AuditActionReprogrammed)
}

func (uc *UseCase) apply(ctx context.Context, req *Request, operation, auditAction string) (*Response, error) {
	var before, after *domain.Reservation

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		before, after, err = uc.update(txCtx, req)
		return err
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("UpdateReservation: serialization conflict for reservation id=%d", req.ReservationID)
			err = fmt.Errorf("%w: %v", ErrConflict, err)
		}
		if errors.Is(err, ErrInternal) {
			uc.metrics.ObserveReservation(operation, "error")
		} else {
			uc.metrics.ObserveReservation(operation, "rejected")
		}
		return nil, err
	}
	uc.metrics.ObserveReservation(operation, "ok")

	uc.audit.Emit(ctx, domain.NewAuditEvent(auditAction, req.Caller.UserID, after, req.Caller.IP, uc.timeProvider.Now()))

	// Освободился старый день и занят новый
	uc.invalidate(ctx, before)
	if !after.Date.Equal(before.Date) {
		uc.invalidate(ctx, after)
	}

	uc.logger.Info("UpdateReservation: successfully updated reservation id=%d", after.ID)
	return &Response{Reservation: after}, nil
}

// update выполняется внутри транзакции; возвращает состояние до и после
func (uc *UseCase) update(ctx context.Context, req *Request) (*domain.Reservation, *domain.Reservation, error) {
	// 1. Получаем бронирование с блокировкой строки
	current, err := uc.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Warn("UpdateReservation: reservation id=%d not found", req.ReservationID)
			return nil, nil, ErrReservationNotFound
		}
		uc.logger.Error("UpdateReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
		return nil, nil, fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
	}

	// 2. Проверяем права
	if !req.Caller.CanManage(current) {
		uc.logger.Warn("UpdateReservation: access denied for user=%d to reservation id=%d", req.Caller.UserID, req.ReservationID)
		return nil, nil, ErrForbidden
	}

	// 3. Отмененное бронирование не меняется
	if !current.CanBeUpdated() {
		uc.logger.Warn("UpdateReservation: reservation id=%d has status=%s", req.ReservationID, current.Status)
		return nil, nil, ErrInvalidState
	}

	// 4. Итоговый слот: новые значения поверх текущих
	changes := req.changes()
	date, slot := changes.ApplyTo(current)

	// 5. Получаем зону
	area, err := uc.areaRepo.GetByID(ctx, current.AreaID)
	if err != nil {
		if errors.Is(err, areaRepo.ErrAreaNotFound) {
			uc.logger.Warn("UpdateReservation: area id=%d not found", current.AreaID)
			return nil, nil, ErrAreaNotFound
		}
		uc.logger.Error("UpdateReservation: failed to get area id=%d: %v", current.AreaID, err)
		return nil, nil, fmt.Errorf("%w: failed to get area: %w", ErrInternal, err)
	}

	// 6. Проверяем слот без учета собственного интервала
	if err := uc.validator.Validate(ctx, slotvalidator.Request{
		Area:                 area,
		Date:                 date,
		Slot:                 slot,
		ExcludeReservationID: &current.ID,
	}); err != nil {
		return nil, nil, mapValidationError(err)
	}

	// 7. Сохраняем только переданные поля, статус снова confirmed
	updated, err := uc.reservationRepo.UpdateSlot(ctx, current.ID, changes)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrSlotConflict) {
			uc.logger.Warn("UpdateReservation: slot %s-%s taken concurrently", slot.Start, slot.End)
			return nil, nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		uc.logger.Error("UpdateReservation: failed to update reservation id=%d: %v", current.ID, err)
		return nil, nil, fmt.Errorf("%w: failed to update reservation: %w", ErrInternal, err)
	}

	return current, updated, nil
}

// invalidate сбрасывает кэш доступности. Ошибка кэша не влияет на результат операции
func (uc *UseCase) invalidate(ctx context.Context, r *domain.Reservation) {
	if err := uc.cache.Invalidate(ctx, r.AreaID, r.Date); err != nil {
		uc.logger.Warn("UpdateReservation: failed to invalidate availability cache for area=%d, date=%s: %v",
			r.AreaID, r.Date.Format(domain.DateFormat), err)
	}
}
