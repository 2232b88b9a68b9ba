package get_user_bookings

import (
	"context"

	"github.com/nowly-app/Nowly-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	ListForUser(ctx context.Context, userID int64, status *string) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
