package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	bookingRepo "github.com/nowly-app/Nowly-BookingService/internal/infra/storage/booking"
	slotRepo "github.com/nowly-app/Nowly-BookingService/internal/infra/storage/slot"
	bookingModels "github.com/nowly-app/Nowly-BookingService/internal/service/bookings/models"
	"github.com/nowly-app/Nowly-BookingService/pkg/types"
)

// Фейки зависимостей

type fakeBookingRepo struct {
	conflict  *domain.Booking
	createErr error
	created   *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *b
	created.ID = 1
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.created = &created
	return &created, nil
}

func (f *fakeBookingRepo) FindConflicting(_ context.Context, _ int64, _ time.Time, _ types.TimeString) (*domain.Booking, error) {
	if f.conflict == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.conflict, nil
}

type fakeSlotRepo struct {
	slot              *domain.Slot
	getErr            error
	markedUnavailable []int64
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.slot, nil
}

func (f *fakeSlotRepo) MarkUnavailable(_ context.Context, id int64) error {
	f.markedUnavailable = append(f.markedUnavailable, id)
	return nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) SendBookingEmail(booking *bookingModels.BookingResponse, status string) {
	f.sent = append(f.sent, status)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// Вспомогательные конструкторы

var testNow = time.Date(2025, 4, 28, 9, 0, 0, 0, time.UTC)

func availableSlot() *domain.Slot {
	return &domain.Slot{
		ID:              10,
		ServiceCategory: "barber",
		ProviderName:    "Cut&Go",
		Address:         "Main st. 1",
		Date:            testNow.AddDate(0, 0, 1),
		StartTime:       types.TimeString("10:00"),
		DurationMinutes: 30,
		Available:       true,
	}
}

func validRequest() *Request {
	return &Request{
		UserID:        42,
		SlotID:        10,
		CustomerName:  "Ivan",
		CustomerEmail: "ivan@example.com",
		Date:          testNow.AddDate(0, 0, 1),
		StartTime:     types.TimeString("10:00"),
	}
}

func newTestUseCase(
	bookings *fakeBookingRepo,
	slots *fakeSlotRepo,
	notifier *fakeNotifier,
	mode domain.BookingMode,
) *UseCase {
	var n Notifier
	if notifier != nil {
		n = notifier
	}
	uc := NewUseCase(bookings, slots, &fakeTxManager{}, n, mode, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

// Тесты

func TestExecute_Success(t *testing.T) {
	bookings := &fakeBookingRepo{}
	slots := &fakeSlotRepo{slot: availableSlot()}
	notifier := &fakeNotifier{}

	uc := newTestUseCase(bookings, slots, notifier, domain.ModePerDateTime)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.NotEmpty(t, resp.Code)
	assert.Equal(t, int64(10), resp.SlotID)
	assert.Equal(t, int64(42), resp.UserID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)

	// В режиме per-datetime слот остаётся доступным
	assert.Empty(t, slots.markedUnavailable)

	// Уведомление отправляется после успешного создания
	assert.Equal(t, []string{string(domain.StatusPending)}, notifier.sent)
}

func TestExecute_PerSlotMode(t *testing.T) {
	t.Run("marks slot unavailable", func(t *testing.T) {
		bookings := &fakeBookingRepo{}
		slots := &fakeSlotRepo{slot: availableSlot()}

		uc := newTestUseCase(bookings, slots, nil, domain.ModePerSlot)

		_, err := uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, []int64{10}, slots.markedUnavailable)
	})

	t.Run("rejects unavailable slot", func(t *testing.T) {
		slot := availableSlot()
		slot.Available = false
		slots := &fakeSlotRepo{slot: slot}

		uc := newTestUseCase(&fakeBookingRepo{}, slots, nil, domain.ModePerSlot)

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})
}

func TestExecute_SlotNotFound(t *testing.T) {
	slots := &fakeSlotRepo{getErr: slotRepo.ErrSlotNotFound}

	uc := newTestUseCase(&fakeBookingRepo{}, slots, nil, domain.ModePerDateTime)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_Conflict(t *testing.T) {
	t.Run("existing booking found", func(t *testing.T) {
		bookings := &fakeBookingRepo{
			conflict: &domain.Booking{ID: 99, SlotID: 10, Status: domain.StatusPending},
		}
		slots := &fakeSlotRepo{slot: availableSlot()}

		uc := newTestUseCase(bookings, slots, nil, domain.ModePerDateTime)

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("unique index violation on insert", func(t *testing.T) {
		bookings := &fakeBookingRepo{createErr: bookingRepo.ErrDuplicateBooking}
		slots := &fakeSlotRepo{slot: availableSlot()}

		uc := newTestUseCase(bookings, slots, nil, domain.ModePerDateTime)

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotTaken)
	})
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{
			name:    "missing slot id",
			mutate:  func(r *Request) { r.SlotID = 0 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing name",
			mutate:  func(r *Request) { r.CustomerName = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing email",
			mutate:  func(r *Request) { r.CustomerEmail = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "malformed email",
			mutate:  func(r *Request) { r.CustomerEmail = "not-an-email" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing date",
			mutate:  func(r *Request) { r.Date = time.Time{} },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing time",
			mutate:  func(r *Request) { r.StartTime = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "date in the past",
			mutate:  func(r *Request) { r.Date = testNow.AddDate(0, 0, -1) },
			wantErr: ErrInvalidDate,
		},
		{
			name: "time already passed today",
			mutate: func(r *Request) {
				r.Date = testNow
				r.StartTime = types.TimeString("08:00")
			},
			wantErr: ErrTooLateToBook,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := &fakeSlotRepo{slot: availableSlot()}
			uc := newTestUseCase(&fakeBookingRepo{}, slots, nil, domain.ModePerDateTime)

			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_NoNotifierConfigured(t *testing.T) {
	bookings := &fakeBookingRepo{}
	slots := &fakeSlotRepo{slot: availableSlot()}

	uc := newTestUseCase(bookings, slots, nil, domain.ModePerDateTime)

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
}
