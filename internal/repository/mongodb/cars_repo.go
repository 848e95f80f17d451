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

type carsRepo struct{ col *mongo.Collection }

func (r *carsRepo) Create(ctx context.Context, c *models.Car) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := r.col.InsertOne(ctx, c)
	return mapErr(err)
}

func (r *carsRepo) GetByID(ctx context.Context, id string) (models.Car, error) {
	var c models.Car
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	return c, mapErr(err)
}

// GetForUpdate has no row lock to take; concurrent writers are caught by
// Reserve's filter and by the transaction's write-conflict detection.
func (r *carsRepo) GetForUpdate(ctx context.Context, id string) (models.Car, error) {
	return r.GetByID(ctx, id)
}

func (r *carsRepo) List(ctx context.Context, f repo.CarFilter) ([]models.Car, error) {
	filter := bson.M{}
	if f.AvailableOnly {
		filter["is_available"] = true
		filter["status"] = models.CarActive
	}
	if f.FeaturedOnly {
		filter["featured"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cur, err := r.col.Find(ctx, filter, opts)
	return decodeAll[models.Car](ctx, cur, err)
}

func (r *carsRepo) Update(ctx context.Context, c models.Car) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"brand":         c.Brand,
		"model":         c.Model,
		"year":          c.Year,
		"price_per_day": c.PricePerDay,
		"mileage":       c.Mileage,
		"seats":         c.Seats,
		"doors":         c.Doors,
		"transmission":  c.Transmission,
		"location":      c.Location,
		"image":         c.Image,
		"gallery":       c.Gallery,
		"featured":      c.Featured,
		"category":      c.Category,
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

func (r *carsRepo) Reserve(ctx context.Context, id string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "is_available": true, "status": models.CarActive},
		bson.M{"$set": bson.M{"is_available": false, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return repo.ErrConflict
	}
	return nil
}

func (r *carsRepo) Release(ctx context.Context, id string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": models.CarRemoved}},
		bson.M{"$set": bson.M{"is_available": true, "updated_at": time.Now().UTC()}},
	)
	return mapErr(err)
}

func (r *carsRepo) Remove(ctx context.Context, id string) (models.Car, error) {
	var c models.Car
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": models.CarRemoved, "is_available": false, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	return c, mapErr(err)
}

func (r *carsRepo) SetRating(ctx context.Context, id string, average float64, quantity int) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"ratings_average":  average,
		"ratings_quantity": quantity,
		"updated_at":       time.Now().UTC(),
	}})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *carsRepo) CountAvailable(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"is_available": true, "status": models.CarActive})
	return n, mapErr(err)
}

func (r *carsRepo) DeleteAll(ctx context.Context) error {
	_, err := r.col.DeleteMany(ctx, bson.M{})
	return mapErr(err)
}
