package repository

import (
	"context"
	"errors"
	"time"

	"github.com/akarpov91/flightbook/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	// Create inserts the booking and its passengers and decrements the
	// flight's available seats in a single transaction. Returns
	// domain.ErrSeatsUnavailable when fewer seats remain than requested.
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	Confirm(ctx context.Context, id int64) (*domain.Booking, error)
	// Cancel flips a pending booking to cancelled and returns its seats
	// to the flight, atomically.
	Cancel(ctx context.Context, id int64) (*domain.Booking, error)
	// Delete removes a pending booking with its passengers and payment
	// and returns its seats to the flight, atomically.
	Delete(ctx context.Context, id int64) error
	// CompleteDeparted marks confirmed bookings whose flight has already
	// departed as completed.
	CompleteDeparted(ctx context.Context, now time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `b.id, b.user_id, b.flight_id, b.booking_reference, b.status, b.total_price, b.seats_booked, b.booking_date`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Seat check and decrement are one conditional update, so two
	// concurrent bookings can never both consume the same seats.
	var available int
	err = tx.QueryRow(ctx, `UPDATE flights SET available_seats = available_seats - $2 WHERE id=$1 AND available_seats >= $2 RETURNING available_seats`,
		booking.FlightID, booking.SeatsBooked).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrSeatsUnavailable
		}
		return mapError(err)
	}

	booking.Status = domain.BookingStatusPending
	err = tx.QueryRow(ctx, `INSERT INTO bookings (user_id, flight_id, booking_reference, status, total_price, seats_booked)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, booking_date`,
		booking.UserID, booking.FlightID, booking.Reference, booking.Status, booking.TotalPrice, booking.SeatsBooked).
		Scan(&booking.ID, &booking.BookingDate)
	if err != nil {
		return mapError(err)
	}

	for i := range booking.Passengers {
		p := &booking.Passengers[i]
		p.BookingID = booking.ID
		err = tx.QueryRow(ctx, `INSERT INTO passengers (booking_id, first_name, last_name, passport_number, date_of_birth)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			p.BookingID, p.FirstName, p.LastName, p.PassportNumber, p.DateOfBirth).Scan(&p.ID)
		if err != nil {
			return mapError(err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+`, f.flight_number, f.flight_type
		FROM bookings b JOIN flights f ON f.id = b.flight_id WHERE b.id=$1`, id)
	b, err := scanBookingWithFlight(row)
	if err != nil {
		return nil, mapError(err)
	}

	rows, err := r.db.Query(ctx, `SELECT id, booking_id, first_name, last_name, passport_number, date_of_birth
		FROM passengers WHERE booking_id=$1 ORDER BY id`, id)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.FirstName, &p.LastName, &p.PassportNumber, &p.DateOfBirth); err != nil {
			return nil, err
		}
		b.Passengers = append(b.Passengers, p)
	}
	return b, rows.Err()
}

func (r *PGBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	return r.listWhere(ctx, "", nil)
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return r.listWhere(ctx, " WHERE b.user_id=$1", []any{userID})
}

func (r *PGBookingRepository) listWhere(ctx context.Context, where string, args []any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+`, f.flight_number, f.flight_type
		FROM bookings b JOIN flights f ON f.id = b.flight_id`+where+` ORDER BY b.id`, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBookingWithFlight(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Confirm(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$2 WHERE id=$1 AND status=$3 RETURNING id, user_id, flight_id, booking_reference, status, total_price, seats_booked, booking_date`,
		id, domain.BookingStatusConfirmed, domain.BookingStatusPending)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotPending
		}
		return nil, mapError(err)
	}
	return b, nil
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE bookings SET status=$2 WHERE id=$1 AND status=$3 RETURNING id, user_id, flight_id, booking_reference, status, total_price, seats_booked, booking_date`,
		id, domain.BookingStatusCancelled, domain.BookingStatusPending)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotPending
		}
		return nil, mapError(err)
	}

	if _, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats + $2 WHERE id=$1`,
		b.FlightID, b.SeatsBooked); err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE booking_id=$1`, id); err != nil {
		return mapError(err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM passengers WHERE booking_id=$1`, id); err != nil {
		return mapError(err)
	}

	var flightID int64
	var seats int
	err = tx.QueryRow(ctx, `DELETE FROM bookings WHERE id=$1 AND status=$2 RETURNING flight_id, seats_booked`,
		id, domain.BookingStatusPending).Scan(&flightID, &seats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrBookingNotPending
		}
		return mapError(err)
	}

	if _, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats + $2 WHERE id=$1`, flightID, seats); err != nil {
		return mapError(err)
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) CompleteDeparted(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings b SET status=$1 FROM flights f
		WHERE b.flight_id = f.id AND b.status=$2 AND f.departure_time <= $3
		RETURNING b.id, b.user_id, b.flight_id, b.booking_reference, b.status, b.total_price, b.seats_booked, b.booking_date`,
		domain.BookingStatusCompleted, domain.BookingStatusConfirmed, now)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var completed []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		completed = append(completed, *b)
	}
	return completed, rows.Err()
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.Reference, &b.Status, &b.TotalPrice, &b.SeatsBooked, &b.BookingDate); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBookingWithFlight(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var f domain.Flight
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.Reference, &b.Status, &b.TotalPrice, &b.SeatsBooked, &b.BookingDate,
		&f.FlightNumber, &f.FlightType); err != nil {
		return nil, err
	}
	f.ID = b.FlightID
	b.Flight = &f
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
