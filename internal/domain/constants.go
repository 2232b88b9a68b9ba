package domain

// BookingMode режим предотвращения двойного бронирования, выбирается per deployment
type BookingMode string

const (
	// ModePerDateTime слот многоразовый: занятость определяется проверкой
	// конфликтующего бронирования на тройку (слот, дата, время)
	ModePerDateTime BookingMode = "per-datetime"

	// ModePerSlot слот одноразовый: выигравшее бронирование
	// сбрасывает флаг доступности слота
	ModePerSlot BookingMode = "per-slot"
)

// IsValid returns true for a known booking mode
func (m BookingMode) IsValid() bool {
	return m == ModePerDateTime || m == ModePerSlot
}

// Default values
const (
	DefaultSlotDurationMinutes = 30
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 часов
	MaxNameLength          = 200
	MaxAddressLength       = 500
	MaxReasonLength        = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, которые занимают слот
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// ValidStatuses все допустимые статусы бронирования
var ValidStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}
