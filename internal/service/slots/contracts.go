package slots

import (
	"context"

	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	"github.com/nowly-app/Nowly-BookingService/internal/integrations/geocoder"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	ListAvailable(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error)
}

// GeocoderClient интерфейс клиента геокодера
type GeocoderClient interface {
	ResolveWithGracefulDegradation(ctx context.Context, address string) (*geocoder.Coordinates, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
