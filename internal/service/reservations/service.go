package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	areaRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/area"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

const (
	operationCancel = "cancel"

	resultOK        = "ok"
	resultNoop      = "noop"
	resultRejected  = "rejected"
	resultError     = "error"
	detailCancelled = "cancelled"
)

// Service сервис бронирований: отмена и чтение
type Service struct {
	reservationRepo ReservationRepository
	areaRepo        AreaRepository
	txManager       TransactionManager
	audit           AuditEmitter
	cache           AvailabilityCache
	metrics         OperationObserver
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	areaRepo AreaRepository,
	txManager TransactionManager,
	audit AuditEmitter,
	cache AvailabilityCache,
	metrics OperationObserver,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		areaRepo:        areaRepo,
		txManager:       txManager,
		audit:           audit,
		cache:           cache,
		metrics:         metrics,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование может владелец или администратор
func (s *Service) GetByID(ctx context.Context, id int64, caller domain.Caller) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, caller.UserID)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !caller.CanManage(reservation) {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", caller.UserID, id)
		return nil, ErrForbidden
	}

	return models.FromDomainReservation(reservation), nil
}

// ListOwn получает бронирования вызывающего пользователя
// Сортировка: сначала более поздние даты
func (s *Service) ListOwn(ctx context.Context, req *models.ListOwnRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListOwn: fetching reservations for user=%d", req.UserID)

	filter, ok := req.ToDomainFilter()
	if !ok {
		s.logger.Warn("ListOwn: invalid status=%s for user=%d", *req.Status, req.UserID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.GetByUserWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListOwn: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: ListOwn - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListOwn: successfully fetched %d reservations for user=%d", len(reservations), req.UserID)
	return models.FromDomainReservationList(reservations), nil
}

// ListByArea получает бронирования зоны. Доступно только администрации
func (s *Service) ListByArea(ctx context.Context, req *models.ListByAreaRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListByArea: fetching reservations for area=%d by user=%d", req.AreaID, req.Caller.UserID)

	if !req.Caller.IsStaff {
		s.logger.Warn("ListByArea: access denied for user=%d to area=%d", req.Caller.UserID, req.AreaID)
		return nil, ErrForbidden
	}

	filter, ok := req.ToDomainFilter()
	if !ok {
		s.logger.Warn("ListByArea: invalid status=%s for area=%d", *req.Status, req.AreaID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if _, err := s.areaRepo.GetByID(ctx, req.AreaID); err != nil {
		if errors.Is(err, areaRepo.ErrAreaNotFound) {
			s.logger.Warn("ListByArea: area id=%d not found", req.AreaID)
			return nil, ErrAreaNotFound
		}
		s.logger.Error("ListByArea: failed to get area id=%d: %v", req.AreaID, err)
		return nil, fmt.Errorf("%w: ListByArea - area repository error: %v", ErrInternal, err)
	}

	reservations, err := s.reservationRepo.GetByAreaWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByArea: repository error for area=%d: %v", req.AreaID, err)
		return nil, fmt.Errorf("%w: ListByArea - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByArea: successfully fetched %d reservations for area=%d", len(reservations), req.AreaID)
	return models.FromDomainReservationList(reservations), nil
}

// Cancel отменяет бронирование
// Отменить может владелец или администратор. Повторная отмена возвращает AlreadyCancelled без ошибки
func (s *Service) Cancel(ctx context.Context, reservationID int64, req *models.CancelRequest) (*models.CancelResult, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", reservationID, req.Caller.UserID)

	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: reason too long for reservation id=%d", reservationID)
		s.metrics.ObserveReservation(operationCancel, resultRejected)
		return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var (
		reservation      *domain.Reservation
		alreadyCancelled bool
	)

	// Строка бронирования блокируется (FOR UPDATE) до конца транзакции
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		reservation, err = s.reservationRepo.GetByID(txCtx, reservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				s.logger.Warn("Cancel: reservation id=%d not found", reservationID)
				return ErrReservationNotFound
			}
			s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}

		if !req.Caller.CanManage(reservation) {
			s.logger.Warn("Cancel: access denied for user=%d to reservation id=%d", req.Caller.UserID, reservationID)
			return ErrForbidden
		}

		if reservation.IsCancelled() {
			alreadyCancelled = true
			return nil
		}

		if err := s.reservationRepo.Cancel(txCtx, reservationID, req.Reason); err != nil {
			s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
			return fmt.Errorf("%w: Cancel - repository error: %w", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			s.logger.Warn("Cancel: concurrent modification of reservation id=%d: %v", reservationID, err)
			err = fmt.Errorf("%w: %v", ErrConflict, err)
		}
		s.observeFailure(err)
		return nil, err
	}

	if alreadyCancelled {
		s.logger.Info("Cancel: reservation id=%d already cancelled", reservationID)
		s.metrics.ObserveReservation(operationCancel, resultNoop)
		return &models.CancelResult{Detail: detailCancelled, AlreadyCancelled: true}, nil
	}

	s.audit.Emit(ctx, domain.NewAuditEvent(domain.AuditActionCancelled, req.Caller.UserID, reservation, req.Caller.IP, s.timeProvider.Now()))
	s.invalidate(ctx, reservation.AreaID, reservation.Date)
	s.metrics.ObserveReservation(operationCancel, resultOK)

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", reservationID)
	return &models.CancelResult{Detail: detailCancelled}, nil
}

func (s *Service) observeFailure(err error) {
	if errors.Is(err, ErrInternal) {
		s.metrics.ObserveReservation(operationCancel, resultError)
		return
	}
	s.metrics.ObserveReservation(operationCancel, resultRejected)
}

// invalidate сбрасывает кэш доступности. Ошибка кэша не влияет на результат операции
func (s *Service) invalidate(ctx context.Context, areaID int64, date time.Time) {
	if err := s.cache.Invalidate(ctx, areaID, date); err != nil {
		s.logger.Warn("Cancel: failed to invalidate availability cache for area=%d, date=%s: %v",
			areaID, date.Format(domain.DateFormat), err)
	}
}
