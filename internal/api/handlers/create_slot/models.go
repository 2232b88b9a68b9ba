package create_slot

import (
	"time"

	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	"github.com/nowly-app/Nowly-BookingService/internal/service/slots/models"
	"github.com/nowly-app/Nowly-BookingService/pkg/types"
)

// CreateSlotRequest HTTP request model
type CreateSlotRequest struct {
	Category        string   `json:"category"`
	SubCategory     *string  `json:"subCategory,omitempty"`
	Name            string   `json:"name"` // Имя провайдера
	Address         string   `json:"address"`
	Date            string   `json:"date"`      // "2025-10-15"
	StartTime       string   `json:"startTime"` // "10:00"
	DurationMinutes int      `json:"durationMinutes,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateSlotRequest) ToServiceRequest() (*models.CreateSlotRequest, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &models.CreateSlotRequest{
		ServiceCategory: r.Category,
		SubCategory:     r.SubCategory,
		ProviderName:    r.Name,
		Address:         r.Address,
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: r.DurationMinutes,
		Longitude:       r.Longitude,
		Latitude:        r.Latitude,
	}, nil
}
