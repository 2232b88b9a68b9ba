package list_bookings

import (
	"net/url"
	"strconv"

	"github.com/nowly-app/Nowly-BookingService/internal/service/bookings/models"
)

// ParseQuery разбирает query-параметры списка бронирований
// Поддерживаются фильтры status и slotId
func ParseQuery(query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	if status := query.Get("status"); status != "" {
		req.Status = &status
		// Явный фильтр по статусу включает и отменённые бронирования
		req.IncludeInactive = true
	}

	if slotIDStr := query.Get("slotId"); slotIDStr != "" {
		slotID, err := strconv.ParseInt(slotIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.SlotID = &slotID
	}

	return req, nil
}
