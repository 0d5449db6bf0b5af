package create_reservation

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

const operationCreate = "create"

// UseCase use case для создания бронирования
type UseCase struct {
	reservationRepo ReservationRepository
	areaRepo        AreaRepository
	validator       SlotValidator
	tenancyClient   TenancyServiceClient
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
	tenancyClient TenancyServiceClient,
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
		tenancyClient:   tenancyClient,
		txManager:       txManager,
		audit:           audit,
		cache:           cache,
		metrics:         metrics,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка слота и вставка выполняются в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, area=%d, date=%s, slot=%s-%s",
		req.Caller.UserID, req.AreaID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	result, err := uc.execute(ctx, req)
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.metrics.ObserveReservation(operationCreate, "error")
		} else {
			uc.metrics.ObserveReservation(operationCreate, "rejected")
		}
		return nil, err
	}
	uc.metrics.ObserveReservation(operationCreate, "ok")

	uc.audit.Emit(ctx, domain.NewAuditEvent(domain.AuditActionCreated, req.Caller.UserID, result, req.Caller.IP, uc.timeProvider.Now()))
	if err := uc.cache.Invalidate(ctx, result.AreaID, result.Date); err != nil {
		uc.logger.Warn("CreateReservation: failed to invalidate availability cache for area=%d: %v", result.AreaID, err)
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d", result.ID)
	return &Response{Reservation: result}, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Reservation, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}
	date := domain.DateOnly(req.Date)
	slot := domain.Interval{Start: req.StartTime, End: req.EndTime}

	// 2. Проверяем, что пользователь живет в комплексе
	active, err := uc.tenancyClient.HasActiveTenancy(ctx, req.Caller.UserID)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to check tenancy for user=%d: %v", req.Caller.UserID, err)
		return nil, fmt.Errorf("%w: failed to check tenancy: %v", ErrInternal, err)
	}
	if !active {
		uc.logger.Warn("CreateReservation: user=%d has no active tenancy", req.Caller.UserID)
		return nil, ErrNoActiveTenancy
	}

	var result *domain.Reservation

	// 3. Проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем зону (FOR SHARE)
		area, err := uc.areaRepo.GetByID(txCtx, req.AreaID)
		if err != nil {
			if errors.Is(err, areaRepo.ErrAreaNotFound) {
				uc.logger.Warn("CreateReservation: area id=%d not found", req.AreaID)
				return ErrAreaNotFound
			}
			uc.logger.Error("CreateReservation: failed to get area id=%d: %v", req.AreaID, err)
			return fmt.Errorf("%w: failed to get area: %w", ErrInternal, err)
		}

		// 3.2. Проверяем слот
		if err := uc.validator.Validate(txCtx, slotvalidator.Request{Area: area, Date: date, Slot: slot}); err != nil {
			return mapValidationError(err)
		}

		// 3.3. Сохраняем бронирование
		created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
			UserID:    req.Caller.UserID,
			AreaID:    area.ID,
			Date:      date,
			StartTime: slot.Start,
			EndTime:   slot.End,
			Status:    domain.StatusConfirmed,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotConflict) {
				uc.logger.Warn("CreateReservation: slot %s-%s taken concurrently", slot.Start, slot.End)
				return fmt.Errorf("%w: %v", ErrConflict, err)
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("CreateReservation: serialization conflict for area=%d, date=%s", req.AreaID, date.Format(domain.DateFormat))
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}

	return result, nil
}
