package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	"github.com/nowly-app/Nowly-BookingService/internal/integrations/geocoder"
	"github.com/nowly-app/Nowly-BookingService/internal/service/slots/models"
)

// Service сервис для работы со слотами
type Service struct {
	slotRepo SlotRepository
	geocoder GeocoderClient // nil, если геокодер выключен в конфигурации
	logger   Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(slotRepo SlotRepository, geocoderClient GeocoderClient, logger Logger) *Service {
	return &Service{
		slotRepo: slotRepo,
		geocoder: geocoderClient,
		logger:   logger,
	}
}

// Create создает слот от имени провайдера
// Обязательные поля: категория услуги, адрес, дата, время.
// Если координаты не переданы, адрес геокодируется; при недоступности
// геокодера слот сохраняется без координат
func (s *Service) Create(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("CreateSlot: category=%s, provider=%s, date=%s, time=%s",
		req.ServiceCategory, req.ProviderName, req.Date.Format(domain.DateFormat), req.StartTime)

	if err := validateCreateRequest(req); err != nil {
		s.logger.Warn("CreateSlot: validation failed: %v", err)
		return nil, err
	}

	durationMinutes := req.DurationMinutes
	if durationMinutes == 0 {
		durationMinutes = domain.DefaultSlotDurationMinutes
	}

	slot := &domain.Slot{
		ServiceCategory: req.ServiceCategory,
		SubCategory:     req.SubCategory,
		ProviderName:    req.ProviderName,
		Address:         req.Address,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: durationMinutes,
		Available:       true,
		Longitude:       req.Longitude,
		Latitude:        req.Latitude,
	}

	// Геокодируем адрес, если координаты не заданы явно
	if !slot.HasCoordinates() && s.geocoder != nil {
		coords, err := s.geocoder.ResolveWithGracefulDegradation(ctx, req.Address)
		switch {
		case err == nil:
			slot.Longitude = &coords.Longitude
			slot.Latitude = &coords.Latitude
		case errors.Is(err, geocoder.ErrAddressNotFound), errors.Is(err, geocoder.ErrServiceDegraded):
			// Слот без координат не попадёт на карту, но останется в списке
			s.logger.Warn("CreateSlot: storing slot without coordinates: %v", err)
		default:
			s.logger.Error("CreateSlot: geocoder error: %v", err)
			return nil, fmt.Errorf("%w: Create - geocoder error: %v", ErrInternal, err)
		}
	}

	created, err := s.slotRepo.Create(ctx, slot)
	if err != nil {
		s.logger.Error("CreateSlot: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateSlot: successfully created slot id=%d", created.ID)
	return models.FromDomainSlot(created), nil
}

// ListAvailable получает доступные слоты с опциональной фильтрацией
// по категории, подкатегории и дате
func (s *Service) ListAvailable(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	slotsList, err := s.slotRepo.ListAvailable(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("ListAvailable: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAvailable - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListAvailable: successfully fetched %d slots", len(slotsList))
	return models.FromDomainSlotList(slotsList), nil
}

// validateCreateRequest валидирует запрос на создание слота
func validateCreateRequest(req *models.CreateSlotRequest) error {
	if req.ServiceCategory == "" {
		return fmt.Errorf("%w: serviceCategory is required", ErrInvalidInput)
	}
	if len(req.ProviderName) > domain.MaxNameLength {
		return fmt.Errorf("%w: providerName is too long", ErrInvalidInput)
	}
	if req.Address == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if len(req.Address) > domain.MaxAddressLength {
		return fmt.Errorf("%w: address is too long", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	if req.DurationMinutes != 0 &&
		(req.DurationMinutes < domain.MinSlotDurationMinutes || req.DurationMinutes > domain.MaxSlotDurationMinutes) {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if (req.Longitude == nil) != (req.Latitude == nil) {
		return fmt.Errorf("%w: longitude and latitude must be set together", ErrInvalidInput)
	}
	return nil
}
