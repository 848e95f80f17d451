package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/baharkarakas/rentacar-backend/internal/models"
)

type reviewsRepo struct{ q querier }

const reviewColumns = `id, user_id, car_id, rating, comment, created_at`

func scanReview(s scanner) (models.Review, error) {
	var rv models.Review
	err := s.Scan(&rv.ID, &rv.UserID, &rv.CarID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	return rv, mapErr(err)
}

func (r *reviewsRepo) list(ctx context.Context, q string, args ...any) ([]models.Review, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []models.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *reviewsRepo) Create(ctx context.Context, rv *models.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = time.Now().UTC()
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO reviews (`+reviewColumns+`) VALUES ($1,$2,$3,$4,$5,$6)`,
		rv.ID, rv.UserID, rv.CarID, rv.Rating, rv.Comment, rv.CreatedAt)
	return mapErr(err)
}

func (r *reviewsRepo) Find(ctx context.Context, userID, carID string) (models.Review, error) {
	return scanReview(r.q.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE user_id=$1 AND car_id=$2`, userID, carID))
}

func (r *reviewsRepo) ListByCar(ctx context.Context, carID string) ([]models.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE car_id=$1 ORDER BY created_at DESC`, carID)
}

func (r *reviewsRepo) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *reviewsRepo) Recent(ctx context.Context, limit int) ([]models.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *reviewsRepo) DeleteAll(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `DELETE FROM reviews`)
	return mapErr(err)
}
