package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baharkarakas/rentacar-backend/internal/models"
	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
)

type usersRepo struct{ col *mongo.Collection }

func (r *usersRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := r.col.InsertOne(ctx, u)
	return mapErr(err)
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	return u, mapErr(err)
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	return u, mapErr(err)
}

func (r *usersRepo) List(ctx context.Context) ([]models.User, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	return decodeAll[models.User](ctx, cur, err)
}

func (r *usersRepo) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	cur, err := r.col.Find(ctx, bson.M{"role": role}, options.Find().SetSort(newestFirst))
	return decodeAll[models.User](ctx, cur, err)
}

func (r *usersRepo) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"role": role})
	return n, mapErr(err)
}

func (r *usersRepo) Update(ctx context.Context, u models.User) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": bson.M{
		"name":          u.Name,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"role":          u.Role,
		"status":        u.Status,
		"avatar":        u.Avatar,
		"phone":         u.Phone,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *usersRepo) DeleteAllExcept(ctx context.Context, role models.Role) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"role": bson.M{"$ne": role}})
	return mapErr(err)
}
