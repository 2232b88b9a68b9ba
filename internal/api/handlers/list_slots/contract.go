package list_slots

import (
	"context"

	"github.com/nowly-app/Nowly-BookingService/internal/service/slots/models"
)

type SlotService interface {
	ListAvailable(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
