// Package mongodb implements the repositories on a MongoDB document store.
// Transactions need a replica set (a single-node one is fine in development).
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
)

const (
	colUsers     = "users"
	colCars      = "cars"
	colRentals   = "rentals"
	colReviews   = "reviews"
	colAuditLogs = "audit_logs"
)

type Store struct {
	client *mongo.Client
	repos  repo.Repositories
}

func NewStore(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client: client,
		repos: repo.Repositories{
			Users:     &usersRepo{db.Collection(colUsers)},
			Cars:      &carsRepo{db.Collection(colCars)},
			Rentals:   &rentalsRepo{db.Collection(colRentals)},
			Reviews:   &reviewsRepo{db.Collection(colReviews)},
			AuditLogs: &auditLogsRepo{db.Collection(colAuditLogs)},
		},
	}
}

func (s *Store) Repos() repo.Repositories { return s.repos }

// WithTx runs fn in a session transaction. The repositories are shared; the
// session travels in the context handed to fn. The commit is attempted once.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, r repo.Repositories) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(context.Background())

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	if err := sess.StartTransaction(txOpts); err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	sc := mongo.NewSessionContext(ctx, sess)
	if err := fn(sc, s.repos); err != nil {
		_ = sess.AbortTransaction(context.Background())
		return err
	}
	if err := sess.CommitTransaction(sc); err != nil {
		return fmt.Errorf("commit tx: %w", mapErr(err))
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repo.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", repo.ErrDuplicate, err)
	}
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorLabel("TransientTransactionError") {
		return fmt.Errorf("%w: %v", repo.ErrConflict, err)
	}
	return err
}

func decodeAll[T any](ctx context.Context, cur *mongo.Cursor, err error) ([]T, error) {
	if err != nil {
		return nil, mapErr(err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}
