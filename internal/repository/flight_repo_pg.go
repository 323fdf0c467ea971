package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/akarpov91/flightbook/internal/domain"
)

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
}

type PGFlightRepository struct {
	db DB
}

func NewFlightRepository(db DB) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightSelect = `SELECT f.id, f.flight_number, f.aircraft_id, f.airline_id, f.departure_airport_id, f.arrival_airport_id,
		f.departure_time, f.arrival_time, f.base_price, f.available_seats, f.flight_type,
		al.name, al.logo_url,
		dep.code, dep.name, dep.city, dep.country,
		arr.code, arr.name, arr.city, arr.country
	FROM flights f
	LEFT JOIN airlines al ON al.id = f.airline_id
	JOIN airports dep ON dep.id = f.departure_airport_id
	JOIN airports arr ON arr.id = f.arrival_airport_id`

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, aircraft_id, airline_id, departure_airport_id, arrival_airport_id, departure_time, arrival_time, base_price, available_seats, flight_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		flight.FlightNumber, flight.AircraftID, flight.AirlineID, flight.DepartureAirportID, flight.ArrivalAirportID,
		flight.DepartureTime, flight.ArrivalTime, flight.BasePrice, flight.AvailableSeats, flight.FlightType).
		Scan(&flight.ID)
	return mapError(err)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, flightSelect+` WHERE f.id=$1`, id)
	f, err := scanFlight(row)
	if err != nil {
		return nil, mapError(err)
	}
	return f, nil
}

// Search composes the supplied filters with AND; airport codes match
// exactly, the date matches the calendar date of departure_time.
func (r *PGFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	query := flightSelect
	var args []any
	var conditions []string

	if filter.DepartureCode != "" {
		args = append(args, filter.DepartureCode)
		conditions = append(conditions, fmt.Sprintf("dep.code = $%d", len(args)))
	}
	if filter.ArrivalCode != "" {
		args = append(args, filter.ArrivalCode)
		conditions = append(conditions, fmt.Sprintf("arr.code = $%d", len(args)))
	}
	if filter.DepartureDate != nil {
		args = append(args, *filter.DepartureDate)
		conditions = append(conditions, fmt.Sprintf("f.departure_time::date = $%d::date", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY f.departure_time, f.id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	cmd, err := r.db.Exec(ctx, `UPDATE flights SET flight_number=$1, aircraft_id=$2, airline_id=$3, departure_airport_id=$4, arrival_airport_id=$5, departure_time=$6, arrival_time=$7, base_price=$8, available_seats=$9, flight_type=$10
		WHERE id=$11`,
		flight.FlightNumber, flight.AircraftID, flight.AirlineID, flight.DepartureAirportID, flight.ArrivalAirportID,
		flight.DepartureTime, flight.ArrivalTime, flight.BasePrice, flight.AvailableSeats, flight.FlightType, flight.ID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanFlight(row rowScanner) (*domain.Flight, error) {
	var f domain.Flight
	var airlineName, airlineLogo *string
	var dep, arr domain.Airport
	err := row.Scan(&f.ID, &f.FlightNumber, &f.AircraftID, &f.AirlineID, &f.DepartureAirportID, &f.ArrivalAirportID,
		&f.DepartureTime, &f.ArrivalTime, &f.BasePrice, &f.AvailableSeats, &f.FlightType,
		&airlineName, &airlineLogo,
		&dep.Code, &dep.Name, &dep.City, &dep.Country,
		&arr.Code, &arr.Name, &arr.City, &arr.Country)
	if err != nil {
		return nil, err
	}
	if f.AirlineID != nil && airlineName != nil {
		al := domain.Airline{ID: *f.AirlineID, Name: *airlineName}
		if airlineLogo != nil {
			al.LogoURL = *airlineLogo
		}
		f.Airline = &al
	}
	dep.ID = f.DepartureAirportID
	arr.ID = f.ArrivalAirportID
	f.DepartureAirport = &dep
	f.ArrivalAirport = &arr
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
