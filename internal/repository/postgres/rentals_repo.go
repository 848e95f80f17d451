package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/baharkarakas/rentacar-backend/internal/models"
	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
)

type rentalsRepo struct{ q querier }

const rentalColumns = `id, user_id, car_id, start_date, end_date, total_cost, status, created_at, updated_at`

func scanRental(s scanner) (models.Rental, error) {
	var r models.Rental
	err := s.Scan(&r.ID, &r.UserID, &r.CarID, &r.StartDate, &r.EndDate, &r.TotalCost, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, mapErr(err)
}

func (r *rentalsRepo) list(ctx context.Context, q string, args ...any) ([]models.Rental, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []models.Rental{}
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *rentalsRepo) Create(ctx context.Context, rt *models.Rental) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rt.CreatedAt, rt.UpdatedAt = now, now
	_, err := r.q.Exec(ctx,
		`INSERT INTO rentals (`+rentalColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rt.ID, rt.UserID, rt.CarID, rt.StartDate, rt.EndDate, rt.TotalCost, rt.Status, rt.CreatedAt, rt.UpdatedAt,
	)
	return mapErr(err)
}

func (r *rentalsRepo) GetByID(ctx context.Context, id string) (models.Rental, error) {
	return scanRental(r.q.QueryRow(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id=$1`, id))
}

func (r *rentalsRepo) UpdateStatus(ctx context.Context, id string, from, to models.RentalStatus) error {
	err := mustAffect(r.q.Exec(ctx,
		`UPDATE rentals SET status=$3, updated_at=now() WHERE id=$1 AND status=$2`, id, from, to))
	if errors.Is(err, repo.ErrNotFound) {
		return repo.ErrConflict
	}
	return err
}

func (r *rentalsRepo) ListByUser(ctx context.Context, userID string) ([]models.Rental, error) {
	return r.list(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE user_id=$1 ORDER BY start_date DESC`, userID)
}

func (r *rentalsRepo) ListByStatus(ctx context.Context, status models.RentalStatus) ([]models.Rental, error) {
	return r.list(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE status=$1 ORDER BY end_date DESC`, status)
}

func (r *rentalsRepo) All(ctx context.Context) ([]models.Rental, error) {
	return r.list(ctx, `SELECT `+rentalColumns+` FROM rentals ORDER BY start_date`)
}

func (r *rentalsRepo) ExistsCompleted(ctx context.Context, userID, carID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM rentals WHERE user_id=$1 AND car_id=$2 AND status='completed')`,
		userID, carID).Scan(&exists)
	return exists, mapErr(err)
}

func (r *rentalsRepo) CountByStatus(ctx context.Context, status models.RentalStatus) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM rentals WHERE status=$1`, status).Scan(&n)
	return n, mapErr(err)
}

func (r *rentalsRepo) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(sum(total_cost), 0) FROM rentals`).Scan(&total)
	return total, mapErr(err)
}

func (r *rentalsRepo) DeleteAll(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `DELETE FROM rentals`)
	return mapErr(err)
}
