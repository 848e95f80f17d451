package services

import (
	"context"
	"errors"

	"github.com/baharkarakas/rentacar-backend/internal/apperr"
	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
)

const popularCarsShown = 10

type CarService struct {
	store repo.Store
}

func NewCarService(store repo.Store) *CarService { return &CarService{store: store} }

// Create adds a car to the catalog as active and available.
func (s *CarService) Create(ctx context.Context, id auth.Identity, c models.Car) (models.Car, error) {
	if err := requireStaff(id); err != nil {
		return models.Car{}, err
	}
	c.ID = ""
	c.Status = models.CarActive
	c.IsAvailable = true
	c.RatingsAverage, c.RatingsQuantity = 0, 0
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return models.Car{}, apperr.Validation(err.Error())
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		if err := r.Cars.Create(ctx, &c); err != nil {
			return err
		}
		return audit(ctx, r, id, "car", c.ID, "created", map[string]any{"brand": c.Brand, "model": c.Model})
	})
	if err != nil {
		return models.Car{}, txErr(ctx, "create car", err)
	}
	return c, nil
}

// Update replaces the catalog fields of a car. Availability, status and
// ratings are owned by rentals and reviews and are left as stored.
func (s *CarService) Update(ctx context.Context, id auth.Identity, carID string, c models.Car) (models.Car, error) {
	if err := requireStaff(id); err != nil {
		return models.Car{}, err
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		cur, err := r.Cars.GetForUpdate(ctx, carID)
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.ErrCarNotFound
		}
		if err != nil {
			return err
		}
		c.ID = cur.ID
		c.IsAvailable, c.Status = cur.IsAvailable, cur.Status
		c.RatingsAverage, c.RatingsQuantity = cur.RatingsAverage, cur.RatingsQuantity
		c.CreatedAt = cur.CreatedAt
		c.ApplyDefaults()
		if err := c.Validate(); err != nil {
			return apperr.Validation(err.Error())
		}
		if err := r.Cars.Update(ctx, c); err != nil {
			return err
		}
		return audit(ctx, r, id, "car", c.ID, "updated", nil)
	})
	if err != nil {
		return models.Car{}, txErr(ctx, "update car", err)
	}
	return c, nil
}

// Remove retires a car: it stays in history but can never be rented again.
func (s *CarService) Remove(ctx context.Context, id auth.Identity, carID string) (models.Car, error) {
	if err := requireStaff(id); err != nil {
		return models.Car{}, err
	}
	var car models.Car
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		var err error
		car, err = r.Cars.Remove(ctx, carID)
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.ErrCarNotFound
		}
		if err != nil {
			return err
		}
		return audit(ctx, r, id, "car", carID, "removed", nil)
	})
	if err != nil {
		return models.Car{}, txErr(ctx, "remove car", err)
	}
	return car, nil
}

func (s *CarService) Get(ctx context.Context, carID string) (models.Car, error) {
	c, err := s.store.Repos().Cars.GetByID(ctx, carID)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Car{}, apperr.ErrCarNotFound
	}
	if err != nil {
		return models.Car{}, readErr(ctx, "get car", err)
	}
	return c, nil
}

func (s *CarService) List(ctx context.Context) ([]models.Car, error) {
	return s.list(ctx, repo.CarFilter{})
}

// Available lists cars that can be booked right now.
func (s *CarService) Available(ctx context.Context) ([]models.Car, error) {
	return s.list(ctx, repo.CarFilter{AvailableOnly: true})
}

func (s *CarService) Featured(ctx context.Context) ([]models.Car, error) {
	return s.list(ctx, repo.CarFilter{FeaturedOnly: true})
}

// Popular is the newest additions to the catalog.
func (s *CarService) Popular(ctx context.Context) ([]models.Car, error) {
	return s.list(ctx, repo.CarFilter{Limit: popularCarsShown})
}

func (s *CarService) Categories() []string {
	return append([]string(nil), models.Categories...)
}

func (s *CarService) list(ctx context.Context, f repo.CarFilter) ([]models.Car, error) {
	cars, err := s.store.Repos().Cars.List(ctx, f)
	if err != nil {
		return nil, readErr(ctx, "list cars", err)
	}
	return cars, nil
}
