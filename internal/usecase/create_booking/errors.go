package create_booking

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("create_booking: slot not found")

	// ErrSlotNotAvailable возвращается, когда слот помечен как недоступный
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrSlotTaken возвращается, когда на слот уже есть активное бронирование
	// на указанные дату и время
	ErrSlotTaken = errors.New("create_booking: slot is already booked")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrTooLateToBook возвращается при попытке забронировать время в прошлом
	ErrTooLateToBook = errors.New("create_booking: booking time is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
