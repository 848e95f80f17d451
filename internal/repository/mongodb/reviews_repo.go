package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baharkarakas/rentacar-backend/internal/models"
)

type reviewsRepo struct{ col *mongo.Collection }

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

func (r *reviewsRepo) Create(ctx context.Context, rv *models.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, rv)
	return mapErr(err)
}

func (r *reviewsRepo) Find(ctx context.Context, userID, carID string) (models.Review, error) {
	var rv models.Review
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "car_id": carID}).Decode(&rv)
	return rv, mapErr(err)
}

func (r *reviewsRepo) ListByCar(ctx context.Context, carID string) ([]models.Review, error) {
	cur, err := r.col.Find(ctx, bson.M{"car_id": carID}, options.Find().SetSort(newestFirst))
	return decodeAll[models.Review](ctx, cur, err)
}

func (r *reviewsRepo) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(newestFirst))
	return decodeAll[models.Review](ctx, cur, err)
}

func (r *reviewsRepo) Recent(ctx context.Context, limit int) ([]models.Review, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(int64(limit)))
	return decodeAll[models.Review](ctx, cur, err)
}

func (r *reviewsRepo) DeleteAll(ctx context.Context) error {
	_, err := r.col.DeleteMany(ctx, bson.M{})
	return mapErr(err)
}
