package services

import (
	"context"
	"errors"
	"time"

	"github.com/baharkarakas/rentacar-backend/internal/apperr"
	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/events"
	"github.com/baharkarakas/rentacar-backend/internal/metrics"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
)

type CreateRentalRequest struct {
	CarID     string
	StartDate time.Time
	EndDate   time.Time
}

type RentalService struct {
	store repo.Store
	ev    events.Emitter
}

func NewRentalService(store repo.Store, ev events.Emitter) *RentalService {
	return &RentalService{store: store, ev: ev}
}

// Create books an available car: the rental is inserted as active and the car
// is marked unavailable in the same transaction.
func (s *RentalService) Create(ctx context.Context, id auth.Identity, req CreateRentalRequest) (models.Rental, error) {
	return s.open(ctx, id, req, models.RentalActive)
}

// Request records a pending rental for a manager to approve. The car stays
// available until approval.
func (s *RentalService) Request(ctx context.Context, id auth.Identity, req CreateRentalRequest) (models.Rental, error) {
	return s.open(ctx, id, req, models.RentalPending)
}

func (s *RentalService) open(ctx context.Context, id auth.Identity, req CreateRentalRequest, status models.RentalStatus) (models.Rental, error) {
	if !req.StartDate.Before(req.EndDate) {
		return models.Rental{}, s.fail(apperr.ErrInvalidDates)
	}

	var rental models.Rental
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		car, err := r.Cars.GetForUpdate(ctx, req.CarID)
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.ErrNotAvailable
		}
		if err != nil {
			return err
		}
		if !car.Rentable() {
			return apperr.ErrNotAvailable
		}

		rental = models.Rental{
			UserID:    id.UserID,
			CarID:     car.ID,
			StartDate: req.StartDate.UTC(),
			EndDate:   req.EndDate.UTC(),
			TotalCost: models.RentalCost(req.StartDate, req.EndDate, car.PricePerDay),
			Status:    status,
		}
		if err := r.Rentals.Create(ctx, &rental); err != nil {
			return err
		}
		if status.Holding() {
			if err := reserve(ctx, r, car.ID); err != nil {
				return err
			}
		}
		return audit(ctx, r, id, "rental", rental.ID, "created", map[string]any{
			"car_id":     car.ID,
			"status":     string(status),
			"total_cost": rental.TotalCost,
		})
	})
	if err != nil {
		return models.Rental{}, s.fail(txErr(ctx, "create rental", err))
	}

	metrics.RentalsTotal.WithLabelValues(string(status)).Inc()
	evType := events.RentalCreated
	if status == models.RentalPending {
		evType = events.RentalRequested
	}
	s.ev.Emit(events.Event{Type: evType, EntityID: rental.ID, ActorID: id.UserID, Data: map[string]any{"carId": rental.CarID}})
	return rental, nil
}

// Return completes the caller's own rental and returns the id of the car it
// released.
func (s *RentalService) Return(ctx context.Context, id auth.Identity, rentalID string) (string, error) {
	return s.complete(ctx, id, rentalID, func(rt models.Rental) error {
		if rt.UserID != id.UserID {
			return apperr.ErrForbidden
		}
		return nil
	})
}

// Process is the operator variant of Return, without the ownership check.
func (s *RentalService) Process(ctx context.Context, id auth.Identity, rentalID string) (string, error) {
	if err := requireStaff(id); err != nil {
		return "", s.fail(err)
	}
	return s.complete(ctx, id, rentalID, func(models.Rental) error { return nil })
}

func (s *RentalService) complete(ctx context.Context, id auth.Identity, rentalID string, allow func(models.Rental) error) (string, error) {
	var carID string
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		rt, err := getRental(ctx, r, rentalID)
		if err != nil {
			return err
		}
		if err := allow(rt); err != nil {
			return err
		}
		if !rt.Status.Holding() {
			return apperr.ErrRentalNotActive
		}
		carID = rt.CarID
		return finish(ctx, r, id, rt, models.RentalCompleted)
	})
	if err != nil {
		return "", s.fail(txErr(ctx, "return rental", err))
	}

	metrics.RentalsTotal.WithLabelValues(string(models.RentalCompleted)).Inc()
	s.ev.Emit(events.Event{Type: events.RentalCompleted, EntityID: rentalID, ActorID: id.UserID, Data: map[string]any{"carId": carID}})
	return carID, nil
}

// Approve moves a pending rental to approved and takes the car.
func (s *RentalService) Approve(ctx context.Context, id auth.Identity, rentalID string) (models.Rental, error) {
	if err := requireStaff(id); err != nil {
		return models.Rental{}, s.fail(err)
	}

	var rt models.Rental
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		var err error
		if rt, err = getRental(ctx, r, rentalID); err != nil {
			return err
		}
		if rt.Status != models.RentalPending {
			return apperr.ErrRentalNotPending
		}

		car, err := r.Cars.GetForUpdate(ctx, rt.CarID)
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.ErrNotAvailable
		}
		if err != nil {
			return err
		}
		if !car.Rentable() {
			return apperr.ErrNotAvailable
		}

		if err := r.Rentals.UpdateStatus(ctx, rt.ID, models.RentalPending, models.RentalApproved); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return apperr.ErrRentalNotPending
			}
			return err
		}
		if err := reserve(ctx, r, car.ID); err != nil {
			return err
		}
		rt.Status = models.RentalApproved
		return audit(ctx, r, id, "rental", rt.ID, "approved", map[string]any{"car_id": car.ID})
	})
	if err != nil {
		return models.Rental{}, s.fail(txErr(ctx, "approve rental", err))
	}

	metrics.RentalsTotal.WithLabelValues(string(models.RentalApproved)).Inc()
	s.ev.Emit(events.Event{Type: events.RentalApproved, EntityID: rt.ID, ActorID: id.UserID, Data: map[string]any{"carId": rt.CarID}})
	return rt, nil
}

// Cancel lets the owner withdraw a pending request, and staff cancel any
// rental that has not finished. A held car is released.
func (s *RentalService) Cancel(ctx context.Context, id auth.Identity, rentalID string) (models.Rental, error) {
	var rt models.Rental
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		var err error
		if rt, err = getRental(ctx, r, rentalID); err != nil {
			return err
		}
		if !id.Staff() {
			if rt.UserID != id.UserID {
				return apperr.ErrForbidden
			}
			if rt.Status != models.RentalPending {
				return apperr.ErrRentalNotPending
			}
		}
		if err := finish(ctx, r, id, rt, models.RentalCancelled); err != nil {
			return err
		}
		rt.Status = models.RentalCancelled
		return nil
	})
	if err != nil {
		return models.Rental{}, s.fail(txErr(ctx, "cancel rental", err))
	}

	metrics.RentalsTotal.WithLabelValues(string(models.RentalCancelled)).Inc()
	s.ev.Emit(events.Event{Type: events.RentalCancelled, EntityID: rt.ID, ActorID: id.UserID, Data: map[string]any{"carId": rt.CarID}})
	return rt, nil
}

// ListForUser is a renter's history, newest start first.
func (s *RentalService) ListForUser(ctx context.Context, id auth.Identity, userID string) ([]models.RentalView, error) {
	if !id.Owns(userID) {
		return nil, apperr.ErrForbidden
	}
	r := s.store.Repos()
	rentals, err := r.Rentals.ListByUser(ctx, userID)
	if err != nil {
		return nil, readErr(ctx, "list rentals", err)
	}
	return s.views(ctx, r, rentals, false)
}

func (s *RentalService) ListPending(ctx context.Context, id auth.Identity) ([]models.RentalView, error) {
	return s.listByStatus(ctx, id, models.RentalPending)
}

// ListReturned lists completed rentals, latest end date first.
func (s *RentalService) ListReturned(ctx context.Context, id auth.Identity) ([]models.RentalView, error) {
	return s.listByStatus(ctx, id, models.RentalCompleted)
}

func (s *RentalService) listByStatus(ctx context.Context, id auth.Identity, status models.RentalStatus) ([]models.RentalView, error) {
	if err := requireStaff(id); err != nil {
		return nil, err
	}
	r := s.store.Repos()
	rentals, err := r.Rentals.ListByStatus(ctx, status)
	if err != nil {
		return nil, readErr(ctx, "list rentals", err)
	}
	return s.views(ctx, r, rentals, true)
}

func (s *RentalService) views(ctx context.Context, r repo.Repositories, rentals []models.Rental, withUser bool) ([]models.RentalView, error) {
	l := newLookup(r)
	out := make([]models.RentalView, 0, len(rentals))
	for _, rt := range rentals {
		v := models.RentalView{Rental: rt}
		var err error
		if v.Car, err = l.carSummary(ctx, rt.CarID); err != nil {
			return nil, readErr(ctx, "join car", err)
		}
		if withUser {
			if v.User, err = l.userSummary(ctx, rt.UserID); err != nil {
				return nil, readErr(ctx, "join user", err)
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *RentalService) fail(err error) error {
	metrics.RentalFailures.WithLabelValues(string(apperr.From(err).Code)).Inc()
	return err
}

func getRental(ctx context.Context, r repo.Repositories, id string) (models.Rental, error) {
	rt, err := r.Rentals.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Rental{}, apperr.ErrRentalNotFound
	}
	return rt, err
}

func reserve(ctx context.Context, r repo.Repositories, carID string) error {
	err := r.Cars.Reserve(ctx, carID)
	if errors.Is(err, repo.ErrConflict) {
		return apperr.ErrNotAvailable
	}
	return err
}

// finish moves rt to a terminal status. A car held by rt becomes available
// again unless it has been removed from the catalog.
func finish(ctx context.Context, r repo.Repositories, actor auth.Identity, rt models.Rental, to models.RentalStatus) error {
	if !rt.Status.CanTransition(to) {
		return apperr.ErrInvalidTransition
	}
	if err := r.Rentals.UpdateStatus(ctx, rt.ID, rt.Status, to); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return apperr.ErrInvalidTransition
		}
		return err
	}

	released := false
	if rt.Status.Holding() {
		car, err := r.Cars.GetForUpdate(ctx, rt.CarID)
		switch {
		case errors.Is(err, repo.ErrNotFound):
		case err != nil:
			return err
		case car.Status != models.CarRemoved:
			if err := r.Cars.Release(ctx, car.ID); err != nil {
				return err
			}
			released = true
		}
	}
	return audit(ctx, r, actor, "rental", rt.ID, string(to), map[string]any{
		"from":         string(rt.Status),
		"car_id":       rt.CarID,
		"car_released": released,
	})
}
