package flights

import (
	"context"
	"time"

	"github.com/akarpov91/flightbook/internal/domain"
	"github.com/akarpov91/flightbook/internal/repository"
	"github.com/shopspring/decimal"
)

type FlightUseCase interface {
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, input FlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
}

type Cache interface {
	GetSearch(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	SetSearch(ctx context.Context, filter domain.FlightFilter, flights []domain.Flight) error
	InvalidateSearch(ctx context.Context) error
}

type FlightInput struct {
	FlightNumber       string            `json:"flight_number"`
	AircraftID         *int64            `json:"aircraft_id"`
	AirlineID          *int64            `json:"airline_id"`
	DepartureAirportID int64             `json:"departure_airport_id"`
	ArrivalAirportID   int64             `json:"arrival_airport_id"`
	DepartureTime      time.Time         `json:"departure_time"`
	ArrivalTime        time.Time         `json:"arrival_time"`
	BasePrice          decimal.Decimal   `json:"base_price"`
	AvailableSeats     int               `json:"available_seats"`
	FlightType         domain.FlightType `json:"flight_type"`
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
}

func NewFlightService(repo repository.FlightRepository, cache Cache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSearch(ctx, filter); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetSearch(ctx, filter, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, input FlightInput) (*domain.Flight, error) {
	flight, err := flightFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error) {
	flight, err := flightFromInput(input)
	if err != nil {
		return nil, err
	}
	flight.ID = id
	if err := s.repo.Update(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateSearch(ctx)
	}
}

func flightFromInput(input FlightInput) (*domain.Flight, error) {
	if input.FlightNumber == "" {
		return nil, domain.NewValidationError("flight_number", "must not be empty")
	}
	if input.DepartureAirportID == 0 || input.ArrivalAirportID == 0 {
		return nil, domain.NewValidationError("airports", "departure and arrival airports are required")
	}
	if !input.ArrivalTime.After(input.DepartureTime) {
		return nil, domain.NewValidationError("arrival_time", "must be after departure_time")
	}
	if input.AvailableSeats < 0 {
		return nil, domain.NewValidationError("available_seats", "must not be negative")
	}
	if input.BasePrice.IsNegative() {
		return nil, domain.NewValidationError("base_price", "must not be negative")
	}
	flightType := input.FlightType
	if flightType == "" {
		flightType = domain.FlightTypeEconomy
	}
	if !flightType.Valid() {
		return nil, domain.NewValidationError("flight_type", "must be one of economy, business, first_class")
	}

	return &domain.Flight{
		FlightNumber:       input.FlightNumber,
		AircraftID:         input.AircraftID,
		AirlineID:          input.AirlineID,
		DepartureAirportID: input.DepartureAirportID,
		ArrivalAirportID:   input.ArrivalAirportID,
		DepartureTime:      input.DepartureTime,
		ArrivalTime:        input.ArrivalTime,
		BasePrice:          input.BasePrice,
		AvailableSeats:     input.AvailableSeats,
		FlightType:         flightType,
	}, nil
}

var _ FlightUseCase = (*FlightService)(nil)
