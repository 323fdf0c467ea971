package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FlightType string

const (
	FlightTypeEconomy    FlightType = "economy"
	FlightTypeBusiness   FlightType = "business"
	FlightTypeFirstClass FlightType = "first_class"
)

func (t FlightType) Valid() bool {
	switch t {
	case FlightTypeEconomy, FlightTypeBusiness, FlightTypeFirstClass:
		return true
	}
	return false
}

type Flight struct {
	ID                 int64           `json:"id"`
	FlightNumber       string          `json:"flight_number"`
	AircraftID         *int64          `json:"aircraft_id,omitempty"`
	AirlineID          *int64          `json:"airline_id,omitempty"`
	DepartureAirportID int64           `json:"departure_airport_id"`
	ArrivalAirportID   int64           `json:"arrival_airport_id"`
	DepartureTime      time.Time       `json:"departure_time"`
	ArrivalTime        time.Time       `json:"arrival_time"`
	BasePrice          decimal.Decimal `json:"base_price"`
	AvailableSeats     int             `json:"available_seats"`
	FlightType         FlightType      `json:"flight_type"`

	// Populated on reads that join the referenced rows.
	Airline          *Airline `json:"airline,omitempty"`
	DepartureAirport *Airport `json:"departure_airport,omitempty"`
	ArrivalAirport   *Airport `json:"arrival_airport,omitempty"`
}

// FlightFilter narrows a flight search. Zero values impose no constraint;
// supplied filters compose with AND.
type FlightFilter struct {
	DepartureCode string
	ArrivalCode   string
	DepartureDate *time.Time
}

func (f FlightFilter) Empty() bool {
	return f.DepartureCode == "" && f.ArrivalCode == "" && f.DepartureDate == nil
}
