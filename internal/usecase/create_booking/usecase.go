package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	bookingRepo "github.com/nowly-app/Nowly-BookingService/internal/infra/storage/booking"
	slotRepo "github.com/nowly-app/Nowly-BookingService/internal/infra/storage/slot"
	bookingModels "github.com/nowly-app/Nowly-BookingService/internal/service/bookings/models"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	notifier     Notifier
	mode         domain.BookingMode
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// notifier может быть nil, если уведомления отключены
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	notifier Notifier,
	mode domain.BookingMode,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		txManager:    txManager,
		notifier:     notifier,
		mode:         mode,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных:
// два конкурирующих запроса на один слот, дату и время не могут
// оба получить бронирование
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, slot=%d, date=%s, time=%s",
		req.UserID, req.SlotID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Валидация даты и времени относительно текущего момента
	now := uc.timeProvider.Now()
	if err := validateDate(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем слот с блокировкой (FOR UPDATE)
		slot, err := uc.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateBooking: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %w", ErrInternal, err)
		}

		// 3.2. В режиме per-slot слот бронируется целиком:
		// снятый флаг доступности означает, что слот уже занят
		if uc.mode == domain.ModePerSlot && !slot.Available {
			uc.logger.Warn("CreateBooking: slot id=%d is not available", req.SlotID)
			return ErrSlotNotAvailable
		}

		// 3.3. Проверяем отсутствие активного бронирования на эти дату и время
		conflict, err := uc.bookingRepo.FindConflicting(txCtx, req.SlotID, req.Date, req.StartTime)
		if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Error("CreateBooking: failed to check conflicts for slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to check conflicts: %w", ErrInternal, err)
		}
		if conflict != nil {
			uc.logger.Warn("CreateBooking: slot id=%d already booked for %s %s",
				req.SlotID, req.Date.Format(domain.DateFormat), req.StartTime)
			return ErrSlotTaken
		}

		// 3.4. Создаем бронирование со статусом pending
		booking := &domain.Booking{
			Code:          uuid.NewString(),
			SlotID:        req.SlotID,
			UserID:        req.UserID,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			BookingDate:   req.Date,
			StartTime:     req.StartTime,
			Status:        domain.StatusPending,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Частичный уникальный индекс - последний рубеж защиты от гонки
			if errors.Is(err, bookingRepo.ErrDuplicateBooking) {
				uc.logger.Warn("CreateBooking: duplicate booking for slot id=%d", req.SlotID)
				return ErrSlotTaken
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		// 3.5. В режиме per-slot помечаем слот недоступным
		if uc.mode == domain.ModePerSlot {
			if err := uc.slotRepo.MarkUnavailable(txCtx, req.SlotID); err != nil {
				uc.logger.Error("CreateBooking: failed to mark slot id=%d unavailable: %v", req.SlotID, err)
				return fmt.Errorf("%w: failed to mark slot unavailable: %w", ErrInternal, err)
			}
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d code=%s", result.ID, result.Code)

	// 4. Отправляем уведомление после фиксации транзакции
	if uc.notifier != nil {
		uc.notifier.SendBookingEmail(bookingModels.FromDomainBooking(result), string(result.Status))
	}

	return &Response{
		ID:            result.ID,
		Code:          result.Code,
		SlotID:        result.SlotID,
		UserID:        result.UserID,
		CustomerName:  result.CustomerName,
		CustomerEmail: result.CustomerEmail,
		CustomerPhone: result.CustomerPhone,
		BookingDate:   result.BookingDate,
		StartTime:     result.StartTime,
		Status:        string(result.Status),
		CreatedAt:     result.CreatedAt,
		UpdatedAt:     result.UpdatedAt,
	}, nil
}
