package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/baharkarakas/rentacar-backend/internal/models"
)

type usersRepo struct{ q querier }

const userColumns = `id, name, email, password_hash, role, status, avatar, phone, created_at, updated_at`

func scanUser(s scanner) (models.User, error) {
	var u models.User
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.Avatar, &u.Phone, &u.CreatedAt, &u.UpdatedAt)
	return u, mapErr(err)
}

func (r *usersRepo) list(ctx context.Context, q string, args ...any) ([]models.User, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *usersRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := r.q.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Status, u.Avatar, u.Phone, u.CreatedAt, u.UpdatedAt,
	)
	return mapErr(err)
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
}

func (r *usersRepo) List(ctx context.Context) ([]models.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
}

func (r *usersRepo) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE role=$1 ORDER BY created_at DESC`, role)
}

func (r *usersRepo) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM users WHERE role=$1`, role).Scan(&n)
	return n, mapErr(err)
}

func (r *usersRepo) Update(ctx context.Context, u models.User) error {
	return mustAffect(r.q.Exec(ctx,
		`UPDATE users
		    SET name=$2, email=$3, password_hash=$4, role=$5, status=$6, avatar=$7, phone=$8, updated_at=now()
		  WHERE id=$1`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Status, u.Avatar, u.Phone,
	))
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	return mustAffect(r.q.Exec(ctx, `DELETE FROM users WHERE id=$1`, id))
}

func (r *usersRepo) DeleteAllExcept(ctx context.Context, role models.Role) error {
	_, err := r.q.Exec(ctx, `DELETE FROM users WHERE role<>$1`, role)
	return mapErr(err)
}
