package api

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/service/booking"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/service/flights"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*booking.BookingResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.BookingResult), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, input booking.CancelBookingInput) (*booking.CancellationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.CancellationResult), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, id, requesterID int64, policy domain.CancellationPolicy) (*domain.Booking, error) {
	args := m.Called(ctx, id, requesterID, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, input booking.ListBookingsInput) (*booking.BookingPage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.BookingPage), args.Error(1)
}

func (m *MockBookingUseCase) UpdateSpecialRequests(ctx context.Context, id, requesterID int64, text string) (*domain.Booking, error) {
	args := m.Called(ctx, id, requesterID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Search(ctx context.Context, input flights.SearchInput) ([]domain.Flight, error) {
	args := m.Called(ctx, input)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Create(ctx context.Context, input flights.CreateFlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Update(ctx context.Context, id int64, input flights.UpdateFlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestRouter(t *testing.T) (*gin.Engine, *MockFlightUseCase, *MockBookingUseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &MockFlightUseCase{}
	b := &MockBookingUseCase{}
	r := NewRouter(RouterDeps{Flights: f, Bookings: b, Auth: NewAuthenticator(testSecret)})
	return r, f, b
}

func signToken(t *testing.T, secret string, userID int64, role string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}
