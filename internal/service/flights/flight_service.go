package flights

import (
	"context"
	"errors"
	"strings"

	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/logger"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/repository"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/validation"
	"github.com/samber/lo"
)

type FlightUseCase interface {
	Search(ctx context.Context, input SearchInput) ([]domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id int64, input UpdateFlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
}

type FlightCache interface {
	GetFlights(ctx context.Context, key string) ([]domain.Flight, error)
	SetFlights(ctx context.Context, key string, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

// BookingCounter guards flight deletion.
type BookingCounter interface {
	CountByFlight(ctx context.Context, flightID int64) (int, error)
}

type FlightService struct {
	repo     repository.FlightRepository
	bookings BookingCounter
	cache    FlightCache
}

type SearchInput struct {
	DepartureCity string `form:"departureCity" json:"departureCity"`
	ArrivalCity   string `form:"arrivalCity" json:"arrivalCity"`
	DepartureDate string `form:"departureDate" json:"departureDate" binding:"omitempty,datetime=2006-01-02"`
	// Passengers is the minimum number of free seats; zero means one.
	Passengers int `form:"passengers" json:"passengers" binding:"gte=0"`
}

type CreateFlightInput struct {
	FlightNumber  string              `json:"flightNumber" binding:"required"`
	Airline       string              `json:"airline" binding:"required"`
	DepartureCity string              `json:"departureCity" binding:"required"`
	ArrivalCity   string              `json:"arrivalCity" binding:"required"`
	DepartureDate string              `json:"departureDate" binding:"required,datetime=2006-01-02"`
	DepartureTime string              `json:"departureTime" binding:"required,datetime=15:04"`
	ArrivalTime   string              `json:"arrivalTime" binding:"required,datetime=15:04"`
	Duration      string              `json:"duration" binding:"required"`
	FlightType    domain.FlightType   `json:"flightType" binding:"omitempty,oneof=domestic international"`
	Status        domain.FlightStatus `json:"status" binding:"omitempty,oneof=scheduled delayed cancelled ontime"`
	// TotalSeats zero means domain.DefaultTotalSeats.
	TotalSeats int          `json:"totalSeats" binding:"gte=0"`
	Price      domain.Money `json:"price" binding:"gt=0"`
}

// UpdateFlightInput changes only the fields that are set. AvailableSeats is
// accepted on the wire so that it can be refused explicitly.
type UpdateFlightInput struct {
	DepartureTime  *string              `json:"departureTime" binding:"omitempty,datetime=15:04"`
	ArrivalTime    *string              `json:"arrivalTime" binding:"omitempty,datetime=15:04"`
	Price          *domain.Money        `json:"price" binding:"omitempty,gt=0"`
	Status         *domain.FlightStatus `json:"status" binding:"omitempty,oneof=scheduled delayed cancelled ontime"`
	AvailableSeats *int                 `json:"availableSeats"`
}

var fieldMessages = map[string]string{
	"departureDate": "departure date must be YYYY-MM-DD",
	"departureTime": "departure time must be HH:MM",
	"arrivalTime":   "arrival time must be HH:MM",
	"passengers":    "passengers must not be negative",
	"flightType":    "flight type must be domestic or international",
	"status":        "flight status must be scheduled, delayed, cancelled or ontime",
	"totalSeats":    "total seats must be positive",
	"price":         "price must be positive",
}

// invalidInput turns the first violated rule into an InvalidRequest, or nil.
func invalidInput(s any) error {
	errs := validation.Struct(s)
	if len(errs) == 0 {
		return nil
	}
	fe := errs[0]
	if fe.Tag() == "required" {
		return domain.InvalidRequest("all fields are required")
	}
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return domain.InvalidRequest("%s", msg)
	}
	return domain.InvalidRequest("%s is invalid", fe.Field())
}

// NewFlightService wires the catalogue. cache may be nil.
func NewFlightService(repo repository.FlightRepository, bookings BookingCounter, cache FlightCache) *FlightService {
	return &FlightService{repo: repo, bookings: bookings, cache: cache}
}

func (s *FlightService) Search(ctx context.Context, input SearchInput) ([]domain.Flight, error) {
	if err := invalidInput(input); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.FlightFilter{
		DepartureCity: strings.TrimSpace(input.DepartureCity),
		ArrivalCity:   strings.TrimSpace(input.ArrivalCity),
		DepartureDate: input.DepartureDate,
		MinSeats:      max(input.Passengers, 1),
	})
}

// List returns every flight, full or not.
func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.list(ctx, repository.FlightFilter{})
}

func (s *FlightService) list(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	key := filter.CacheKey()
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx, key)
		if err != nil {
			logger.FromContext(ctx).WithError(err).Warn("read flights cache")
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, domain.Internal(err, "list flights")
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, key, flights); err != nil {
			logger.FromContext(ctx).WithError(err).Warn("write flights cache")
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("flight %d not found", id)
		}
		return nil, domain.Internal(err, "load flight")
	}
	return f, nil
}

func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	input.FlightNumber = strings.ToUpper(strings.TrimSpace(input.FlightNumber))
	input.Airline = strings.TrimSpace(input.Airline)
	input.DepartureCity = strings.TrimSpace(input.DepartureCity)
	input.ArrivalCity = strings.TrimSpace(input.ArrivalCity)
	input.DepartureDate = strings.TrimSpace(input.DepartureDate)
	input.DepartureTime = strings.TrimSpace(input.DepartureTime)
	input.ArrivalTime = strings.TrimSpace(input.ArrivalTime)
	input.Duration = strings.TrimSpace(input.Duration)
	if err := invalidInput(input); err != nil {
		return nil, err
	}

	f := &domain.Flight{
		FlightNumber:  input.FlightNumber,
		Airline:       input.Airline,
		DepartureCity: input.DepartureCity,
		ArrivalCity:   input.ArrivalCity,
		DepartureDate: input.DepartureDate,
		DepartureTime: input.DepartureTime,
		ArrivalTime:   input.ArrivalTime,
		Duration:      input.Duration,
		FlightType:    lo.Ternary(input.FlightType == "", domain.FlightTypeDomestic, input.FlightType),
		Status:        lo.Ternary(input.Status == "", domain.FlightStatusOnTime, input.Status),
		TotalSeats:    lo.Ternary(input.TotalSeats == 0, domain.DefaultTotalSeats, input.TotalSeats),
		Price:         input.Price,
	}
	f.AvailableSeats = f.TotalSeats

	if err := s.repo.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrDuplicateFlight) {
			return nil, domain.InvalidRequest("flight number %s already exists", f.FlightNumber)
		}
		return nil, domain.Internal(err, "create flight")
	}
	s.invalidate(ctx)
	return f, nil
}

func (s *FlightService) Update(ctx context.Context, id int64, input UpdateFlightInput) (*domain.Flight, error) {
	if input.AvailableSeats != nil {
		return nil, domain.InvalidRequest("available seats change only through bookings and cancellations")
	}
	if err := invalidInput(input); err != nil {
		return nil, err
	}
	f, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DepartureTime != nil {
		f.DepartureTime = *input.DepartureTime
	}
	if input.ArrivalTime != nil {
		f.ArrivalTime = *input.ArrivalTime
	}
	if input.Price != nil {
		f.Price = *input.Price
	}
	if input.Status != nil {
		f.Status = *input.Status
	}

	if err := s.repo.Update(ctx, f); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("flight %d not found", id)
		}
		return nil, domain.Internal(err, "update flight")
	}
	s.invalidate(ctx)
	return f, nil
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.bookings.CountByFlight(ctx, id)
	if err != nil {
		return domain.Internal(err, "count bookings")
	}
	if n > 0 {
		return domain.InvalidRequest("cannot delete flight with %d existing bookings", n)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NotFound("flight %d not found", id)
		}
		return domain.Internal(err, "delete flight")
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("invalidate flights cache")
	}
}

var _ FlightUseCase = (*FlightService)(nil)
