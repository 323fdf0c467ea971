package repository

import (
	"context"

	"github.com/akarpov91/flightbook/internal/domain"
)

type AirlineRepository interface {
	Create(ctx context.Context, airline *domain.Airline) error
	GetByID(ctx context.Context, id int64) (*domain.Airline, error)
	List(ctx context.Context) ([]domain.Airline, error)
	Update(ctx context.Context, airline *domain.Airline) error
	Delete(ctx context.Context, id int64) error
}

type PGAirlineRepository struct {
	db DB
}

func NewAirlineRepository(db DB) AirlineRepository {
	return &PGAirlineRepository{db: db}
}

func (r *PGAirlineRepository) Create(ctx context.Context, airline *domain.Airline) error {
	err := r.db.QueryRow(ctx, `INSERT INTO airlines (name, logo_url) VALUES ($1, $2) RETURNING id`,
		airline.Name, airline.LogoURL).Scan(&airline.ID)
	return mapError(err)
}

func (r *PGAirlineRepository) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, logo_url FROM airlines WHERE id=$1`, id)
	var a domain.Airline
	if err := row.Scan(&a.ID, &a.Name, &a.LogoURL); err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *PGAirlineRepository) List(ctx context.Context) ([]domain.Airline, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, logo_url FROM airlines ORDER BY id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	airlines := make([]domain.Airline, 0)
	for rows.Next() {
		var a domain.Airline
		if err := rows.Scan(&a.ID, &a.Name, &a.LogoURL); err != nil {
			return nil, err
		}
		airlines = append(airlines, a)
	}
	return airlines, rows.Err()
}

func (r *PGAirlineRepository) Update(ctx context.Context, airline *domain.Airline) error {
	cmd, err := r.db.Exec(ctx, `UPDATE airlines SET name=$1, logo_url=$2 WHERE id=$3`,
		airline.Name, airline.LogoURL, airline.ID)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGAirlineRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM airlines WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ AirlineRepository = (*PGAirlineRepository)(nil)
