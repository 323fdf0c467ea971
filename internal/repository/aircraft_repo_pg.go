package repository

import (
	"context"

	"github.com/akarpov91/flightbook/internal/domain"
)

type AircraftRepository interface {
	Create(ctx context.Context, aircraft *domain.Aircraft) error
	GetByID(ctx context.Context, id int64) (*domain.Aircraft, error)
	List(ctx context.Context) ([]domain.Aircraft, error)
	Update(ctx context.Context, aircraft *domain.Aircraft) error
	Delete(ctx context.Context, id int64) error
}

type PGAircraftRepository struct {
	db DB
}

func NewAircraftRepository(db DB) AircraftRepository {
	return &PGAircraftRepository{db: db}
}

func (r *PGAircraftRepository) Create(ctx context.Context, aircraft *domain.Aircraft) error {
	err := r.db.QueryRow(ctx, `INSERT INTO aircraft (airline_id, model, capacity, registration_number)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		aircraft.AirlineID, aircraft.Model, aircraft.Capacity, aircraft.RegistrationNumber).Scan(&aircraft.ID)
	return mapError(err)
}

func (r *PGAircraftRepository) GetByID(ctx context.Context, id int64) (*domain.Aircraft, error) {
	row := r.db.QueryRow(ctx, `SELECT id, airline_id, model, capacity, registration_number FROM aircraft WHERE id=$1`, id)
	var a domain.Aircraft
	if err := row.Scan(&a.ID, &a.AirlineID, &a.Model, &a.Capacity, &a.RegistrationNumber); err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *PGAircraftRepository) List(ctx context.Context) ([]domain.Aircraft, error) {
	rows, err := r.db.Query(ctx, `SELECT id, airline_id, model, capacity, registration_number FROM aircraft ORDER BY id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	aircraft := make([]domain.Aircraft, 0)
	for rows.Next() {
		var a domain.Aircraft
		if err := rows.Scan(&a.ID, &a.AirlineID, &a.Model, &a.Capacity, &a.RegistrationNumber); err != nil {
			return nil, err
		}
		aircraft = append(aircraft, a)
	}
	return aircraft, rows.Err()
}

func (r *PGAircraftRepository) Update(ctx context.Context, aircraft *domain.Aircraft) error {
	cmd, err := r.db.Exec(ctx, `UPDATE aircraft SET airline_id=$1, model=$2, capacity=$3, registration_number=$4 WHERE id=$5`,
		aircraft.AirlineID, aircraft.Model, aircraft.Capacity, aircraft.RegistrationNumber, aircraft.ID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGAircraftRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM aircraft WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ AircraftRepository = (*PGAircraftRepository)(nil)
