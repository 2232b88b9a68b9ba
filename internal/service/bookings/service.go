package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	bookingRepo "github.com/nowly-app/Nowly-BookingService/internal/infra/storage/booking"
	"github.com/nowly-app/Nowly-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	txManager   TransactionManager
	mode        domain.BookingMode
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	mode domain.BookingMode,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		txManager:   txManager,
		mode:        mode,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование, провайдер - любое
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !actor.CanAccess(booking) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetByCode получает бронирование по публичному коду
// Код показывается клиенту в подтверждении, правила доступа те же, что и у GetByID
func (s *Service) GetByCode(ctx context.Context, code string, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByCode: fetching booking code=%s for user=%d", code, actor.UserID)

	booking, err := s.bookingRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByCode: booking code=%s not found", code)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByCode: repository error for booking code=%s: %v", code, err)
		return nil, fmt.Errorf("%w: GetByCode - repository error: %v", ErrInternal, err)
	}

	if !actor.CanAccess(booking) {
		s.logger.Warn("GetByCode: access denied for user=%d to booking code=%s", actor.UserID, code)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования, сначала новые
// Опционально фильтрует по статусу и слоту; доступно только провайдеру
// (проверка роли выполняется в middleware)
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// ListForUser получает бронирования пользователя, сначала новые
func (s *Service) ListForUser(ctx context.Context, userID int64, status *string) (*models.BookingListResponse, error) {
	filter := domain.BookingsFilter{UserID: &userID, IncludeInactive: true}

	if status != nil {
		domainStatus, err := models.ToDomainBookingStatus(*status)
		if err != nil {
			s.logger.Warn("ListForUser: invalid status=%s for user=%d", *status, userID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &domainStatus
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListForUser: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: ListForUser - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListForUser: successfully fetched %d bookings for user=%d", len(bookings), userID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus обновляет статус бронирования с проверкой допустимости перехода
// Разрешены только: pending→confirmed, pending→cancelled,
// confirmed→completed, confirmed→cancelled. Доступно только провайдеру.
// Хранилище переходы не проверяет - вся легальность решается здесь.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.Actor.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if !booking.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s→%s rejected for booking id=%d",
			booking.Status, newStatus, bookingID)
		return fmt.Errorf("%w: %s→%s", ErrInvalidTransition, booking.Status, newStatus)
	}

	// Переход в cancelled идёт через Cancel, чтобы заполнить причину
	// и вернуть слот в доступное состояние в режиме per-slot
	if newStatus == domain.StatusCancelled {
		return s.cancel(ctx, booking, "cancelled by provider")
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// Cancel отменяет бронирование
// Пользователь может отменить только своё бронирование, провайдер - любое.
// Отмена - смена статуса, записи физически не удаляются.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.Actor.UserID)

	if len(req.CancellationReason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !req.Actor.CanAccess(booking) {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.Actor.UserID, bookingID)
		return ErrAccessDenied
	}

	return s.cancel(ctx, booking, req.CancellationReason)
}

// cancel выполняет отмену уже загруженного бронирования
// В режиме per-slot отмена и возврат слота выполняются в одной транзакции
func (s *Service) cancel(ctx context.Context, booking *domain.Booking, reason string) error {
	if !booking.CanBeCancelled() {
		s.logger.Warn("cancel: booking id=%d cannot be cancelled, status=%s", booking.ID, booking.Status)
		return ErrCannotCancel
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Cancel(txCtx, booking.ID, reason); err != nil {
			return err
		}

		if s.mode == domain.ModePerSlot {
			if err := s.slotRepo.SetAvailable(txCtx, booking.SlotID); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("cancel: failed to cancel booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: cancel - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("cancel: successfully cancelled booking id=%d", booking.ID)
	return nil
}
