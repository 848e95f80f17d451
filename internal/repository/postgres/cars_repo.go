package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/baharkarakas/rentacar-backend/internal/models"
	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
)

type carsRepo struct{ q querier }

const carColumns = `id, brand, model, year, price_per_day, mileage, seats, doors, transmission,
       location, image, gallery, is_available, status, featured, category,
       ratings_average, ratings_quantity, created_at, updated_at`

func scanCar(s scanner) (models.Car, error) {
	var c models.Car
	err := s.Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.PricePerDay, &c.Mileage, &c.Seats, &c.Doors,
		&c.Transmission, &c.Location, &c.Image, &c.Gallery, &c.IsAvailable, &c.Status, &c.Featured,
		&c.Category, &c.RatingsAverage, &c.RatingsQuantity, &c.CreatedAt, &c.UpdatedAt)
	return c, mapErr(err)
}

func (r *carsRepo) Create(ctx context.Context, c *models.Car) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := r.q.Exec(ctx,
		`INSERT INTO cars (`+carColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
		c.ID, c.Brand, c.Model, c.Year, c.PricePerDay, c.Mileage, c.Seats, c.Doors, c.Transmission,
		c.Location, c.Image, c.Gallery, c.IsAvailable, c.Status, c.Featured, c.Category,
		c.RatingsAverage, c.RatingsQuantity, c.CreatedAt, c.UpdatedAt,
	)
	return mapErr(err)
}

func (r *carsRepo) GetByID(ctx context.Context, id string) (models.Car, error) {
	return scanCar(r.q.QueryRow(ctx, `SELECT `+carColumns+` FROM cars WHERE id=$1`, id))
}

func (r *carsRepo) GetForUpdate(ctx context.Context, id string) (models.Car, error) {
	return scanCar(r.q.QueryRow(ctx, `SELECT `+carColumns+` FROM cars WHERE id=$1 FOR UPDATE`, id))
}

func (r *carsRepo) List(ctx context.Context, f repo.CarFilter) ([]models.Car, error) {
	q := `SELECT ` + carColumns + ` FROM cars WHERE true`
	if f.AvailableOnly {
		q += ` AND is_available AND status='active'`
	}
	if f.FeaturedOnly {
		q += ` AND featured`
	}
	q += ` ORDER BY created_at DESC`
	args := []any{}
	if f.Limit > 0 {
		q += ` LIMIT $1`
		args = append(args, f.Limit)
	}
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []models.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *carsRepo) Update(ctx context.Context, c models.Car) error {
	return mustAffect(r.q.Exec(ctx,
		`UPDATE cars
		    SET brand=$2, model=$3, year=$4, price_per_day=$5, mileage=$6, seats=$7, doors=$8,
		        transmission=$9, location=$10, image=$11, gallery=$12, featured=$13, category=$14,
		        updated_at=now()
		  WHERE id=$1`,
		c.ID, c.Brand, c.Model, c.Year, c.PricePerDay, c.Mileage, c.Seats, c.Doors,
		c.Transmission, c.Location, c.Image, c.Gallery, c.Featured, c.Category,
	))
}

func (r *carsRepo) Reserve(ctx context.Context, id string) error {
	err := mustAffect(r.q.Exec(ctx,
		`UPDATE cars SET is_available=false, updated_at=now()
		  WHERE id=$1 AND is_available AND status='active'`, id))
	if errors.Is(err, repo.ErrNotFound) {
		return repo.ErrConflict
	}
	return err
}

func (r *carsRepo) Release(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE cars SET is_available=true, updated_at=now()
		  WHERE id=$1 AND status<>'removed'`, id)
	return mapErr(err)
}

func (r *carsRepo) Remove(ctx context.Context, id string) (models.Car, error) {
	return scanCar(r.q.QueryRow(ctx,
		`UPDATE cars SET status='removed', is_available=false, updated_at=now()
		  WHERE id=$1
		  RETURNING `+carColumns, id))
}

func (r *carsRepo) SetRating(ctx context.Context, id string, average float64, quantity int) error {
	return mustAffect(r.q.Exec(ctx,
		`UPDATE cars SET ratings_average=$2, ratings_quantity=$3, updated_at=now() WHERE id=$1`,
		id, average, quantity))
}

func (r *carsRepo) CountAvailable(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM cars WHERE is_available AND status='active'`).Scan(&n)
	return n, mapErr(err)
}

func (r *carsRepo) DeleteAll(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `DELETE FROM cars`)
	return mapErr(err)
}
