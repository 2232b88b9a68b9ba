package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	"github.com/nowly-app/Nowly-BookingService/pkg/types"
)

// Service фоновые задачи по расписанию
type Service struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса фоновых задач
func NewService(bookingRepo BookingRepository, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// AutoCompletePastBookings переводит подтверждённые бронирования,
// время которых уже прошло, в статус completed
func (s *Service) AutoCompletePastBookings(ctx context.Context) error {
	now := s.timeProvider.Now()
	// Колонка booking_date имеет тип DATE: сравнивать нужно с началом дня,
	// иначе сегодняшние бронирования с ещё не наступившим временем
	// попадают под условие booking_date < now
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nowTime := types.NewTimeString(now)

	bookings, err := s.bookingRepo.ListConfirmedBefore(ctx, today, nowTime)
	if err != nil {
		s.logger.Error("AutoCompletePastBookings: failed to list confirmed bookings: %v", err)
		return fmt.Errorf("auto-complete: failed to list confirmed bookings: %w", err)
	}

	if len(bookings) == 0 {
		return nil
	}

	s.logger.Info("AutoCompletePastBookings: found %d bookings to complete", len(bookings))

	completed := 0
	for _, booking := range bookings {
		if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.StatusCompleted); err != nil {
			s.logger.Error("AutoCompletePastBookings: failed to complete booking id=%d: %v", booking.ID, err)
			continue
		}
		completed++
	}

	s.logger.Info("AutoCompletePastBookings: completed %d of %d bookings", completed, len(bookings))
	return nil
}
