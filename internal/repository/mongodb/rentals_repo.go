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

type rentalsRepo struct{ col *mongo.Collection }

func (r *rentalsRepo) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.Rental, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(sort))
	return decodeAll[models.Rental](ctx, cur, err)
}

func (r *rentalsRepo) Create(ctx context.Context, rt *models.Rental) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rt.CreatedAt, rt.UpdatedAt = now, now
	_, err := r.col.InsertOne(ctx, rt)
	return mapErr(err)
}

func (r *rentalsRepo) GetByID(ctx context.Context, id string) (models.Rental, error) {
	var rt models.Rental
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rt)
	return rt, mapErr(err)
}

func (r *rentalsRepo) UpdateStatus(ctx context.Context, id string, from, to models.RentalStatus) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return repo.ErrConflict
	}
	return nil
}

func (r *rentalsRepo) ListByUser(ctx context.Context, userID string) ([]models.Rental, error) {
	return r.find(ctx, bson.M{"user_id": userID}, bson.D{{Key: "start_date", Value: -1}})
}

func (r *rentalsRepo) ListByStatus(ctx context.Context, status models.RentalStatus) ([]models.Rental, error) {
	return r.find(ctx, bson.M{"status": status}, bson.D{{Key: "end_date", Value: -1}})
}

func (r *rentalsRepo) All(ctx context.Context) ([]models.Rental, error) {
	return r.find(ctx, bson.M{}, bson.D{{Key: "start_date", Value: 1}})
}

func (r *rentalsRepo) ExistsCompleted(ctx context.Context, userID, carID string) (bool, error) {
	n, err := r.col.CountDocuments(ctx,
		bson.M{"user_id": userID, "car_id": carID, "status": models.RentalCompleted},
		options.Count().SetLimit(1),
	)
	return n > 0, mapErr(err)
}

func (r *rentalsRepo) CountByStatus(ctx context.Context, status models.RentalStatus) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"status": status})
	return n, mapErr(err)
}

func (r *rentalsRepo) TotalRevenue(ctx context.Context) (float64, error) {
	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$total_cost"}}},
		}}},
	})
	if err != nil {
		return 0, mapErr(err)
	}
	defer cur.Close(ctx)

	var out struct {
		Total float64 `bson:"total"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&out); err != nil {
			return 0, err
		}
	}
	return out.Total, mapErr(cur.Err())
}

func (r *rentalsRepo) DeleteAll(ctx context.Context) error {
	_, err := r.col.DeleteMany(ctx, bson.M{})
	return mapErr(err)
}
