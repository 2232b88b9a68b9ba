package get_user_bookings

import (
	"errors"
	"net/http"

	"github.com/nowly-app/Nowly-BookingService/internal/api/handlers"
	"github.com/nowly-app/Nowly-BookingService/internal/api/middleware"
	"github.com/nowly-app/Nowly-BookingService/internal/service/bookings"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidStatus = "некорректный статус бронирования"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/me/bookings
// История бронирований текущего пользователя
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /users/me/bookings - Missing user claims")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}

	result, err := h.service.ListForUser(r.Context(), claims.UserID, status)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /users/me/bookings - Invalid status filter: user_id=%d", claims.UserID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /users/me/bookings - Failed to list bookings: user_id=%d, error=%v",
				claims.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/me/bookings - Retrieved %d bookings for user_id=%d",
		len(result.Bookings), claims.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
