package create_booking

import (
	"time"

	"github.com/nowly-app/Nowly-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID        int64            // ID пользователя из токена
	SlotID        int64            // ID бронируемого слота
	CustomerName  string           // Имя клиента
	CustomerEmail string           // Email клиента
	CustomerPhone *string          // Телефон клиента (опционально)
	Date          time.Time        // Дата бронирования (без времени)
	StartTime     types.TimeString // Время начала (например, "10:00")
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64            // ID созданного бронирования
	Code          string           // Публичный код бронирования
	SlotID        int64            // ID слота
	UserID        int64            // ID пользователя
	CustomerName  string           // Имя клиента
	CustomerEmail string           // Email клиента
	CustomerPhone *string          // Телефон клиента
	BookingDate   time.Time        // Дата бронирования
	StartTime     types.TimeString // Время начала
	Status        string           // Статус бронирования

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
