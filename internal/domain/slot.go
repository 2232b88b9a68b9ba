package domain

import (
	"time"

	"github.com/nowly-app/Nowly-BookingService/pkg/types"
)

// Slot represents a bookable appointment opportunity offered by a provider
type Slot struct {
	ID              int64
	ServiceCategory string  // Категория услуги ("Friseur", "Restaurant", "Arzt", ...)
	SubCategory     *string // Подкатегория (опционально)
	ProviderName    string
	Address         string
	Date            time.Time // Календарная дата слота
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool

	// Геопозиция для отображения на карте (опционально)
	Longitude *float64
	Latitude  *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCoordinates returns true if the slot carries a geolocation
func (s *Slot) HasCoordinates() bool {
	return s.Longitude != nil && s.Latitude != nil
}

// SlotsFilter фильтр для выборки доступных слотов
type SlotsFilter struct {
	ServiceCategory *string    // Фильтр по категории (опционально)
	SubCategory     *string    // Фильтр по подкатегории (опционально)
	Date            *time.Time // Фильтр по дате (опционально)
}
