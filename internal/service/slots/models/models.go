package models

import (
	"time"

	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	"github.com/nowly-app/Nowly-BookingService/pkg/types"
)

// Request модели

// CreateSlotRequest запрос на создание слота провайдером
type CreateSlotRequest struct {
	ServiceCategory string
	SubCategory     *string
	ProviderName    string
	Address         string
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int      // 0 - взять значение по умолчанию
	Longitude       *float64 // Если координаты не заданы, адрес геокодируется
	Latitude        *float64
}

// ListSlotsRequest запрос на получение доступных слотов
type ListSlotsRequest struct {
	ServiceCategory *string
	SubCategory     *string
	Date            *time.Time
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListSlotsRequest) ToDomainFilter() domain.SlotsFilter {
	return domain.SlotsFilter{
		ServiceCategory: r.ServiceCategory,
		SubCategory:     r.SubCategory,
		Date:            r.Date,
	}
}

// Response модели

// Coordinates пара координат для отображения на карте
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// SlotResponse ответ с данными слота
// Форма рассчитана на слой отображения: карта и список потребляют
// id, coordinates, name, category, subCategory, address
type SlotResponse struct {
	ID              int64        `json:"id"`
	Name            string       `json:"name"` // Имя провайдера
	Category        string       `json:"category"`
	SubCategory     *string      `json:"subCategory,omitempty"`
	Address         string       `json:"address"`
	Date            string       `json:"date"`      // "2025-04-28"
	StartTime       string       `json:"startTime"` // "14:00"
	DurationMinutes int          `json:"durationMinutes"`
	Available       bool         `json:"available"`
	Coordinates     *Coordinates `json:"coordinates,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	if s == nil {
		return nil
	}

	resp := &SlotResponse{
		ID:              s.ID,
		Name:            s.ProviderName,
		Category:        s.ServiceCategory,
		SubCategory:     s.SubCategory,
		Address:         s.Address,
		Date:            s.Date.Format(domain.DateFormat),
		StartTime:       s.StartTime.String(),
		DurationMinutes: s.DurationMinutes,
		Available:       s.Available,
		CreatedAt:       s.CreatedAt,
	}

	if s.HasCoordinates() {
		resp.Coordinates = &Coordinates{
			Longitude: *s.Longitude,
			Latitude:  *s.Latitude,
		}
	}

	return resp
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.Slot) *SlotListResponse {
	resp := &SlotListResponse{
		Slots: make([]SlotResponse, 0, len(slots)),
	}

	for _, slot := range slots {
		if slotResp := FromDomainSlot(slot); slotResp != nil {
			resp.Slots = append(resp.Slots, *slotResp)
		}
	}

	return resp
}
