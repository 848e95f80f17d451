package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/rentacar-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("repository: not found")
	ErrDuplicate = errors.New("repository: duplicate key")
	// ErrConflict is returned by conditional writes whose precondition no longer holds.
	ErrConflict = errors.New("repository: write conflict")
)

type CarFilter struct {
	AvailableOnly bool
	FeaturedOnly  bool
	Limit         int
}

type Cars interface {
	Create(ctx context.Context, c *models.Car) error
	GetByID(ctx context.Context, id string) (models.Car, error)
	// GetForUpdate reads the car and locks it for the rest of the transaction
	// where the backend supports row locks.
	GetForUpdate(ctx context.Context, id string) (models.Car, error)
	List(ctx context.Context, f CarFilter) ([]models.Car, error)
	Update(ctx context.Context, c models.Car) error
	// Reserve flips isAvailable true→false for an active car; ErrConflict if the
	// car is no longer available.
	Reserve(ctx context.Context, id string) error
	// Release flips isAvailable back to true unless the car is removed.
	Release(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) (models.Car, error)
	SetRating(ctx context.Context, id string, average float64, quantity int) error
	CountAvailable(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

type Rentals interface {
	Create(ctx context.Context, r *models.Rental) error
	GetByID(ctx context.Context, id string) (models.Rental, error)
	// UpdateStatus moves a rental from one status to another; ErrConflict if
	// the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to models.RentalStatus) error
	ListByUser(ctx context.Context, userID string) ([]models.Rental, error)
	ListByStatus(ctx context.Context, status models.RentalStatus) ([]models.Rental, error)
	All(ctx context.Context) ([]models.Rental, error)
	ExistsCompleted(ctx context.Context, userID, carID string) (bool, error)
	CountByStatus(ctx context.Context, status models.RentalStatus) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	DeleteAll(ctx context.Context) error
}

type Reviews interface {
	Create(ctx context.Context, r *models.Review) error
	Find(ctx context.Context, userID, carID string) (models.Review, error)
	ListByCar(ctx context.Context, carID string) ([]models.Review, error)
	ListByUser(ctx context.Context, userID string) ([]models.Review, error)
	Recent(ctx context.Context, limit int) ([]models.Review, error)
	DeleteAll(ctx context.Context) error
}

type Users interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
	Update(ctx context.Context, u models.User) error
	Delete(ctx context.Context, id string) error
	DeleteAllExcept(ctx context.Context, role models.Role) error
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}

// Repositories bundles one backend's repositories. Inside WithTx every member
// is bound to the running transaction.
type Repositories struct {
	Users     Users
	Cars      Cars
	Rentals   Rentals
	Reviews   Reviews
	AuditLogs AuditLogs
}

// Transactor runs fn inside a single database transaction. When fn returns an
// error the transaction is rolled back and that error is returned unchanged.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
}

// Store is a complete persistence backend.
type Store interface {
	Transactor
	Repos() Repositories
	Close(ctx context.Context) error
}
