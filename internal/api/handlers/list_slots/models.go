package list_slots

import (
	"net/url"
	"time"

	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	"github.com/nowly-app/Nowly-BookingService/internal/service/slots/models"
)

// ParseQuery разбирает query-параметры списка слотов
// Поддерживаются фильтры category, subCategory и date
func ParseQuery(query url.Values) (*models.ListSlotsRequest, error) {
	req := &models.ListSlotsRequest{}

	if category := query.Get("category"); category != "" {
		req.ServiceCategory = &category
	}

	if subCategory := query.Get("subCategory"); subCategory != "" {
		req.SubCategory = &subCategory
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	return req, nil
}
