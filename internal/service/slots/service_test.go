package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	"github.com/nowly-app/Nowly-BookingService/internal/integrations/geocoder"
	"github.com/nowly-app/Nowly-BookingService/internal/service/slots/models"
	"github.com/nowly-app/Nowly-BookingService/pkg/ptr"
	"github.com/nowly-app/Nowly-BookingService/pkg/types"
)

// Фейки зависимостей

type fakeSlotRepo struct {
	created    *domain.Slot
	listResult []*domain.Slot
	listFilter *domain.SlotsFilter
}

func (f *fakeSlotRepo) Create(_ context.Context, slot *domain.Slot) (*domain.Slot, error) {
	created := *slot
	created.ID = 1
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.created = &created
	return &created, nil
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	return nil, nil
}

func (f *fakeSlotRepo) ListAvailable(_ context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error) {
	f.listFilter = &filter
	return f.listResult, nil
}

type fakeGeocoder struct {
	coords *geocoder.Coordinates
	err    error
	calls  int
}

func (f *fakeGeocoder) ResolveWithGracefulDegradation(_ context.Context, _ string) (*geocoder.Coordinates, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.coords, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func validCreateRequest() *models.CreateSlotRequest {
	return &models.CreateSlotRequest{
		ServiceCategory: "barber",
		ProviderName:    "Cut&Go",
		Address:         "Main st. 1",
		Date:            time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("10:00"),
	}
}

// Тесты

func TestCreate(t *testing.T) {
	t.Run("success with geocoding", func(t *testing.T) {
		repo := &fakeSlotRepo{}
		geo := &fakeGeocoder{coords: &geocoder.Coordinates{Longitude: 13.4, Latitude: 52.5}}
		svc := NewService(repo, geo, nopLogger{})

		resp, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)

		assert.Equal(t, 1, geo.calls)
		require.NotNil(t, resp.Coordinates)
		assert.Equal(t, 13.4, resp.Coordinates.Longitude)
		assert.Equal(t, 52.5, resp.Coordinates.Latitude)
		assert.True(t, resp.Available)
		assert.Equal(t, domain.DefaultSlotDurationMinutes, resp.DurationMinutes)
	})

	t.Run("explicit coordinates skip geocoding", func(t *testing.T) {
		repo := &fakeSlotRepo{}
		geo := &fakeGeocoder{}
		svc := NewService(repo, geo, nopLogger{})

		req := validCreateRequest()
		req.Longitude = ptr.Ptr(10.0)
		req.Latitude = ptr.Ptr(50.0)

		resp, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 0, geo.calls)
		require.NotNil(t, resp.Coordinates)
	})

	t.Run("slot stored without coordinates on degradation", func(t *testing.T) {
		repo := &fakeSlotRepo{}
		geo := &fakeGeocoder{err: geocoder.ErrServiceDegraded}
		svc := NewService(repo, geo, nopLogger{})

		resp, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)
		assert.Nil(t, resp.Coordinates)
		require.NotNil(t, repo.created)
		assert.Nil(t, repo.created.Longitude)
	})

	t.Run("slot stored without coordinates when address unknown", func(t *testing.T) {
		repo := &fakeSlotRepo{}
		geo := &fakeGeocoder{err: geocoder.ErrAddressNotFound}
		svc := NewService(repo, geo, nopLogger{})

		resp, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)
		assert.Nil(t, resp.Coordinates)
	})

	t.Run("works without geocoder", func(t *testing.T) {
		repo := &fakeSlotRepo{}
		svc := NewService(repo, nil, nopLogger{})

		resp, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)
		assert.Nil(t, resp.Coordinates)
	})

	t.Run("provider name is optional", func(t *testing.T) {
		repo := &fakeSlotRepo{}
		svc := NewService(repo, nil, nopLogger{})

		req := validCreateRequest()
		req.ProviderName = ""

		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
	})

	t.Run("custom duration preserved", func(t *testing.T) {
		repo := &fakeSlotRepo{}
		svc := NewService(repo, nil, nopLogger{})

		req := validCreateRequest()
		req.DurationMinutes = 60

		resp, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 60, resp.DurationMinutes)
	})
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.CreateSlotRequest)
	}{
		{name: "missing category", mutate: func(r *models.CreateSlotRequest) { r.ServiceCategory = "" }},
		{name: "missing address", mutate: func(r *models.CreateSlotRequest) { r.Address = "" }},
		{name: "missing date", mutate: func(r *models.CreateSlotRequest) { r.Date = time.Time{} }},
		{name: "missing time", mutate: func(r *models.CreateSlotRequest) { r.StartTime = "" }},
		{name: "invalid time format", mutate: func(r *models.CreateSlotRequest) { r.StartTime = "25:99" }},
		{name: "duration too short", mutate: func(r *models.CreateSlotRequest) { r.DurationMinutes = 1 }},
		{name: "duration too long", mutate: func(r *models.CreateSlotRequest) { r.DurationMinutes = 1000 }},
		{name: "longitude without latitude", mutate: func(r *models.CreateSlotRequest) { r.Longitude = ptr.Ptr(10.0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeSlotRepo{}, nil, nopLogger{})

			req := validCreateRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestListAvailable(t *testing.T) {
	repo := &fakeSlotRepo{
		listResult: []*domain.Slot{
			{
				ID:              1,
				ServiceCategory: "barber",
				ProviderName:    "Cut&Go",
				Address:         "Main st. 1",
				Date:            time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
				StartTime:       types.TimeString("10:00"),
				Available:       true,
				Longitude:       ptr.Ptr(13.4),
				Latitude:        ptr.Ptr(52.5),
			},
			{
				ID:              2,
				ServiceCategory: "barber",
				ProviderName:    "No Map",
				Address:         "Side st. 2",
				Date:            time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
				StartTime:       types.TimeString("11:00"),
				Available:       true,
			},
		},
	}
	svc := NewService(repo, nil, nopLogger{})

	category := "barber"
	resp, err := svc.ListAvailable(context.Background(), &models.ListSlotsRequest{ServiceCategory: &category})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2)
	assert.NotNil(t, resp.Slots[0].Coordinates)
	// Слот без координат остаётся в списке, но без точки на карте
	assert.Nil(t, resp.Slots[1].Coordinates)

	require.NotNil(t, repo.listFilter)
	assert.Equal(t, "barber", *repo.listFilter.ServiceCategory)
}
