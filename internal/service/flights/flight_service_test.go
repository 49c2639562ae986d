package flights

import (
	"context"
	"errors"
	"testing"

	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBookingCounter struct {
	mock.Mock
}

func (m *MockBookingCounter) CountByFlight(ctx context.Context, flightID int64) (int, error) {
	args := m.Called(ctx, flightID)
	return args.Int(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlights(ctx context.Context, key string) ([]domain.Flight, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetFlights(ctx context.Context, key string, flights []domain.Flight) error {
	args := m.Called(ctx, key, flights)
	return args.Error(0)
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func sampleFlight() *domain.Flight {
	return &domain.Flight{
		ID:             4,
		FlightNumber:   "AI-101",
		Airline:        "Air India",
		DepartureCity:  "Delhi",
		ArrivalCity:    "Mumbai",
		DepartureDate:  "2026-11-02",
		DepartureTime:  "10:00",
		ArrivalTime:    "12:10",
		Duration:       "2h 10m",
		FlightType:     domain.FlightTypeDomestic,
		Status:         domain.FlightStatusOnTime,
		TotalSeats:     150,
		AvailableSeats: 149,
		Price:          domain.Money(500000),
	}
}

func TestFlightService_Search_CacheMiss(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, &MockBookingCounter{}, mockCache)
	ctx := context.Background()

	filter := repository.FlightFilter{DepartureCity: "Delhi", ArrivalCity: "Mumbai", DepartureDate: "2026-11-02", MinSeats: 1}
	flights := []domain.Flight{*sampleFlight()}

	mockCache.On("GetFlights", ctx, filter.CacheKey()).Return(([]domain.Flight)(nil), nil).Once()
	mockRepo.On("List", ctx, filter).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, filter.CacheKey(), flights).Return(nil).Once()

	result, err := service.Search(ctx, SearchInput{DepartureCity: " Delhi ", ArrivalCity: "Mumbai", DepartureDate: "2026-11-02"})

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Search_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, &MockBookingCounter{}, mockCache)
	ctx := context.Background()

	filter := repository.FlightFilter{MinSeats: 3}
	flights := []domain.Flight{*sampleFlight()}
	mockCache.On("GetFlights", ctx, filter.CacheKey()).Return(flights, nil).Once()

	result, err := service.Search(ctx, SearchInput{Passengers: 3})

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	mockCache.AssertNotCalled(t, "SetFlights", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_Search_CacheErrorFallsBack(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, &MockBookingCounter{}, mockCache)
	ctx := context.Background()

	filter := repository.FlightFilter{MinSeats: 1}
	flights := []domain.Flight{*sampleFlight()}
	mockCache.On("GetFlights", ctx, filter.CacheKey()).Return(([]domain.Flight)(nil), errors.New("cache error")).Once()
	mockRepo.On("List", ctx, filter).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, filter.CacheKey(), flights).Return(errors.New("cache error")).Once()

	result, err := service.Search(ctx, SearchInput{})

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Search_BadInput(t *testing.T) {
	service := NewFlightService(&MockFlightRepository{}, &MockBookingCounter{}, nil)

	_, err := service.Search(context.Background(), SearchInput{DepartureDate: "02/11/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = service.Search(context.Background(), SearchInput{Passengers: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestFlightService_List_RepositoryError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, &MockBookingCounter{}, nil)
	ctx := context.Background()

	mockRepo.On("List", ctx, repository.FlightFilter{}).Return([]domain.Flight{}, errors.New("database error")).Once()

	result, err := service.List(ctx)

	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.Nil(t, result)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_GetByID(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, &MockBookingCounter{}, nil)
	ctx := context.Background()

	flight := sampleFlight()
	mockRepo.On("GetByID", ctx, int64(4)).Return(flight, nil).Once()
	mockRepo.On("GetByID", ctx, int64(999)).Return(nil, repository.ErrNotFound).Once()

	result, err := service.GetByID(ctx, 4)
	assert.NoError(t, err)
	assert.Equal(t, flight, result)

	_, err = service.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFlightService_Create_Defaults(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, &MockBookingCounter{}, mockCache)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Flight")).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	f, err := service.Create(ctx, CreateFlightInput{
		FlightNumber:  "6e-777",
		Airline:       "IndiGo",
		DepartureCity: "Pune",
		ArrivalCity:   "Goa",
		DepartureDate: "2026-12-24",
		DepartureTime: "18:05",
		ArrivalTime:   "19:00",
		Duration:      "55m",
		Price:         domain.Money(349900),
	})
	require.NoError(t, err)
	assert.Equal(t, "6E-777", f.FlightNumber)
	assert.Equal(t, domain.DefaultTotalSeats, f.TotalSeats)
	assert.Equal(t, domain.DefaultTotalSeats, f.AvailableSeats)
	assert.Equal(t, domain.FlightTypeDomestic, f.FlightType)
	assert.Equal(t, domain.FlightStatusOnTime, f.Status)
	mockCache.AssertExpectations(t)
}

func TestFlightService_Create_Rejections(t *testing.T) {
	valid := CreateFlightInput{
		FlightNumber: "AI-1", Airline: "Air India", DepartureCity: "Delhi", ArrivalCity: "Chennai",
		DepartureDate: "2026-12-01", DepartureTime: "06:00", ArrivalTime: "08:45", Duration: "2h 45m",
		Price: domain.Money(100),
	}
	tests := []struct {
		name   string
		mutate func(in *CreateFlightInput)
	}{
		{name: "missing airline", mutate: func(in *CreateFlightInput) { in.Airline = " " }},
		{name: "zero price", mutate: func(in *CreateFlightInput) { in.Price = 0 }},
		{name: "bad date", mutate: func(in *CreateFlightInput) { in.DepartureDate = "2026-13-01" }},
		{name: "bad time", mutate: func(in *CreateFlightInput) { in.ArrivalTime = "25:00" }},
		{name: "negative seats", mutate: func(in *CreateFlightInput) { in.TotalSeats = -5 }},
		{name: "bad type", mutate: func(in *CreateFlightInput) { in.FlightType = "charter" }},
		{name: "bad status", mutate: func(in *CreateFlightInput) { in.Status = "boarding" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockFlightRepository{}
			service := NewFlightService(mockRepo, &MockBookingCounter{}, nil)
			in := valid
			tt.mutate(&in)

			_, err := service.Create(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestFlightService_Create_Duplicate(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, &MockBookingCounter{}, nil)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicateFlight).Once()

	_, err := service.Create(ctx, CreateFlightInput{
		FlightNumber: "AI-1", Airline: "Air India", DepartureCity: "Delhi", ArrivalCity: "Chennai",
		DepartureDate: "2026-12-01", DepartureTime: "06:00", ArrivalTime: "08:45", Duration: "2h 45m",
		Price: domain.Money(100),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "already exists")
}

func TestFlightService_Update(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, &MockBookingCounter{}, mockCache)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(4)).Return(sampleFlight(), nil).Once()
	mockRepo.On("Update", ctx, mock.MatchedBy(func(f *domain.Flight) bool {
		return f.Status == domain.FlightStatusDelayed && f.Price == domain.Money(650000) &&
			f.DepartureTime == "10:00" && f.AvailableSeats == 149
	})).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	status := domain.FlightStatusDelayed
	price := domain.Money(650000)
	f, err := service.Update(ctx, 4, UpdateFlightInput{Status: &status, Price: &price})

	require.NoError(t, err)
	assert.Equal(t, domain.FlightStatusDelayed, f.Status)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_Update_Rejections(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, &MockBookingCounter{}, nil)
	ctx := context.Background()

	seats := 10
	_, err := service.Update(ctx, 4, UpdateFlightInput{AvailableSeats: &seats})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	mockRepo.On("GetByID", ctx, int64(4)).Return(sampleFlight(), nil)
	bad := domain.FlightStatus("landed")
	_, err = service.Update(ctx, 4, UpdateFlightInput{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	clock := "9am"
	_, err = service.Update(ctx, 4, UpdateFlightInput{DepartureTime: &clock})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	mockRepo.On("GetByID", ctx, int64(5)).Return(nil, repository.ErrNotFound)
	_, err = service.Update(ctx, 5, UpdateFlightInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestFlightService_Delete(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCounter := &MockBookingCounter{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCounter, mockCache)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(4)).Return(sampleFlight(), nil)
	mockCounter.On("CountByFlight", ctx, int64(4)).Return(3, nil).Once()

	err := service.Delete(ctx, 4)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "3 existing bookings")
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	mockCounter.On("CountByFlight", ctx, int64(4)).Return(0, nil).Once()
	mockRepo.On("Delete", ctx, int64(4)).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	require.NoError(t, service.Delete(ctx, 4))
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}
