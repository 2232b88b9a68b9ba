package notify

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/nowly-app/Nowly-BookingService/internal/service/bookings/models"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Service отправляет email-уведомления о бронированиях через SendGrid
// Отправка асинхронная и best-effort: ошибка уведомления не влияет
// на результат бронирования
type Service struct {
	apiKey    string
	fromEmail string
	fromName  string
	logger    Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(apiKey, fromEmail, fromName string, logger Logger) *Service {
	return &Service{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
}

// SendBookingEmail асинхронно отправляет письмо о смене состояния бронирования
func (s *Service) SendBookingEmail(booking *models.BookingResponse, status string) {
	subject := fmt.Sprintf("Ваше бронирование %s - код %s", statusText(status), booking.Code)
	plainBody := fmt.Sprintf(
		"Здравствуйте, %s!\n\nВаше бронирование %s.\n\n"+
			"Детали бронирования:\n"+
			"Код: %s\n"+
			"Дата: %s\n"+
			"Время: %s\n\n"+
			"Спасибо, что пользуетесь Nowly.",
		booking.CustomerName, statusText(status), booking.Code, booking.BookingDate, booking.StartTime,
	)

	go func() {
		if err := s.send(booking.CustomerEmail, booking.CustomerName, subject, plainBody); err != nil {
			s.logger.Error("SendBookingEmail: failed to send email for booking code=%s: %v", booking.Code, err)
			return
		}
		s.logger.Info("SendBookingEmail: email sent for booking code=%s to %s", booking.Code, booking.CustomerEmail)
	}()
}

func statusText(status string) string {
	switch status {
	case "pending":
		return "создано и ожидает подтверждения"
	case "confirmed":
		return "подтверждено"
	case "completed":
		return "завершено"
	case "cancelled":
		return "отменено"
	default:
		return status
	}
}

func (s *Service) send(toEmail, toName, subject, plainBody string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainBody, "")

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid responded with status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
