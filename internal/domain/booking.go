package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

type Booking struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	FlightID    int64           `json:"flight_id"`
	Reference   string          `json:"booking_reference"`
	Status      BookingStatus   `json:"status"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	SeatsBooked int             `json:"seats_booked"`
	BookingDate time.Time       `json:"booking_date"`

	Passengers []Passenger `json:"passengers,omitempty"`
	Flight     *Flight     `json:"flight,omitempty"`
	Payment    *Payment    `json:"payment,omitempty"`
}

type Passenger struct {
	ID             int64     `json:"id"`
	BookingID      int64     `json:"booking_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PassportNumber string    `json:"passport_number,omitempty"`
	DateOfBirth    time.Time `json:"date_of_birth"`
}
