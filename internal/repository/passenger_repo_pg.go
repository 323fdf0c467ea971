package repository

import (
	"context"

	"github.com/akarpov91/flightbook/internal/domain"
)

type PassengerRepository interface {
	Create(ctx context.Context, passenger *domain.Passenger) error
	GetByID(ctx context.Context, id int64) (*domain.Passenger, error)
	List(ctx context.Context) ([]domain.Passenger, error)
	Update(ctx context.Context, passenger *domain.Passenger) error
	Delete(ctx context.Context, id int64) error
}

type PGPassengerRepository struct {
	db DB
}

func NewPassengerRepository(db DB) PassengerRepository {
	return &PGPassengerRepository{db: db}
}

func (r *PGPassengerRepository) Create(ctx context.Context, passenger *domain.Passenger) error {
	err := r.db.QueryRow(ctx, `INSERT INTO passengers (booking_id, first_name, last_name, passport_number, date_of_birth)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		passenger.BookingID, passenger.FirstName, passenger.LastName, passenger.PassportNumber, passenger.DateOfBirth).
		Scan(&passenger.ID)
	return mapError(err)
}

func (r *PGPassengerRepository) GetByID(ctx context.Context, id int64) (*domain.Passenger, error) {
	row := r.db.QueryRow(ctx, `SELECT id, booking_id, first_name, last_name, passport_number, date_of_birth FROM passengers WHERE id=$1`, id)
	var p domain.Passenger
	if err := row.Scan(&p.ID, &p.BookingID, &p.FirstName, &p.LastName, &p.PassportNumber, &p.DateOfBirth); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *PGPassengerRepository) List(ctx context.Context) ([]domain.Passenger, error) {
	rows, err := r.db.Query(ctx, `SELECT id, booking_id, first_name, last_name, passport_number, date_of_birth FROM passengers ORDER BY id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	passengers := make([]domain.Passenger, 0)
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.FirstName, &p.LastName, &p.PassportNumber, &p.DateOfBirth); err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}

func (r *PGPassengerRepository) Update(ctx context.Context, passenger *domain.Passenger) error {
	cmd, err := r.db.Exec(ctx, `UPDATE passengers SET first_name=$1, last_name=$2, passport_number=$3, date_of_birth=$4 WHERE id=$5`,
		passenger.FirstName, passenger.LastName, passenger.PassportNumber, passenger.DateOfBirth, passenger.ID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGPassengerRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM passengers WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)
