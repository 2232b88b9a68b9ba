package create_booking

import (
	"time"

	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	createBooking "github.com/nowly-app/Nowly-BookingService/internal/usecase/create_booking"
	"github.com/nowly-app/Nowly-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SlotID int64   `json:"slotId"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  *string `json:"phone,omitempty"`
	Date   string  `json:"date"` // "2025-10-15"
	Time   string  `json:"time"` // "10:00"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID     int64   `json:"id"`
	Code   string  `json:"code"`
	SlotID int64   `json:"slotId"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  *string `json:"phone,omitempty"`
	Date   string  `json:"date"`
	Time   string  `json:"time"`
	Status string  `json:"status"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// userID приходит из claims токена, а не из тела запроса
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	// Парсим дату
	bookingDate, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:        userID,
		SlotID:        r.SlotID,
		CustomerName:  r.Name,
		CustomerEmail: r.Email,
		CustomerPhone: r.Phone,
		Date:          bookingDate,
		StartTime:     startTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:        resp.ID,
		Code:      resp.Code,
		SlotID:    resp.SlotID,
		Name:      resp.CustomerName,
		Email:     resp.CustomerEmail,
		Phone:     resp.CustomerPhone,
		Date:      resp.BookingDate.Format(domain.DateFormat),
		Time:      resp.StartTime.String(),
		Status:    resp.Status,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
