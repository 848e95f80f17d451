package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/baharkarakas/rentacar-backend/internal/apperr"
	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/events"
	"github.com/baharkarakas/rentacar-backend/internal/metrics"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
)

const recentReviews = 10

type SubmitReviewRequest struct {
	CarID   string
	Rating  int
	Comment string
}

type ReviewService struct {
	store repo.Store
	ev    events.Emitter
}

func NewReviewService(store repo.Store, ev events.Emitter) *ReviewService {
	return &ReviewService{store: store, ev: ev}
}

// checkReview validates the input fields, in the order the rejections are
// reported.
func checkReview(rating int, comment string) (string, error) {
	if rating < models.MinRating || rating > models.MaxRating {
		return "", apperr.ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	n := utf8.RuneCountInString(comment)
	if n < models.MinCommentLength {
		return "", apperr.ErrCommentTooShort
	}
	if n > models.MaxCommentLength {
		return "", apperr.ErrCommentTooLong
	}
	return comment, nil
}

// Submit accepts one review per (user, car), and only after that user has
// completed a rental of that car. The review and the car's rating move
// together. A repeated review is reported as a duplicate before its fields
// are validated.
func (s *ReviewService) Submit(ctx context.Context, id auth.Identity, req SubmitReviewRequest) (models.Review, error) {
	if err := s.rejectDuplicate(ctx, s.store.Repos(), id.UserID, req.CarID); err != nil {
		return models.Review{}, readErr(ctx, "submit review", err)
	}
	comment, err := checkReview(req.Rating, req.Comment)
	if err != nil {
		return models.Review{}, err
	}

	rv := models.Review{UserID: id.UserID, CarID: req.CarID, Rating: req.Rating, Comment: comment}
	err = s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		ok, err := r.Rentals.ExistsCompleted(ctx, id.UserID, req.CarID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrRentalNotCompleted
		}

		if err := s.rejectDuplicate(ctx, r, id.UserID, req.CarID); err != nil {
			return err
		}

		car, err := r.Cars.GetForUpdate(ctx, req.CarID)
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.ErrCarNotFound
		}
		if err != nil {
			return err
		}

		if err := r.Reviews.Create(ctx, &rv); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return apperr.ErrDuplicateReview
			}
			return err
		}
		car.AddRating(rv.Rating)
		if err := r.Cars.SetRating(ctx, car.ID, car.RatingsAverage, car.RatingsQuantity); err != nil {
			return err
		}
		return audit(ctx, r, id, "review", rv.ID, "created", map[string]any{
			"car_id":          car.ID,
			"rating":          rv.Rating,
			"ratings_average": car.RatingsAverage,
		})
	})
	if err != nil {
		return models.Review{}, txErr(ctx, "submit review", err)
	}

	metrics.ReviewsTotal.Inc()
	s.ev.Emit(events.Event{Type: events.ReviewCreated, EntityID: rv.ID, ActorID: id.UserID, Data: map[string]any{"carId": rv.CarID, "rating": rv.Rating}})
	return rv, nil
}

func (s *ReviewService) rejectDuplicate(ctx context.Context, r repo.Repositories, userID, carID string) error {
	_, err := r.Reviews.Find(ctx, userID, carID)
	switch {
	case err == nil:
		return apperr.ErrDuplicateReview
	case errors.Is(err, repo.ErrNotFound):
		return nil
	}
	return err
}

// ListForCar returns a car's reviews newest first, with the reviewer.
func (s *ReviewService) ListForCar(ctx context.Context, carID string) ([]models.ReviewView, error) {
	r := s.store.Repos()
	reviews, err := r.Reviews.ListByCar(ctx, carID)
	if err != nil {
		return nil, readErr(ctx, "list reviews", err)
	}
	return reviewViews(ctx, r, reviews, false, true)
}

// ListForUser returns a user's reviews newest first, with the car.
func (s *ReviewService) ListForUser(ctx context.Context, userID string) ([]models.ReviewView, error) {
	r := s.store.Repos()
	reviews, err := r.Reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, readErr(ctx, "list reviews", err)
	}
	return reviewViews(ctx, r, reviews, true, false)
}

func (s *ReviewService) Recent(ctx context.Context) ([]models.ReviewView, error) {
	r := s.store.Repos()
	reviews, err := r.Reviews.Recent(ctx, recentReviews)
	if err != nil {
		return nil, readErr(ctx, "recent reviews", err)
	}
	return reviewViews(ctx, r, reviews, true, true)
}

func reviewViews(ctx context.Context, r repo.Repositories, reviews []models.Review, withCar, withUser bool) ([]models.ReviewView, error) {
	l := newLookup(r)
	out := make([]models.ReviewView, 0, len(reviews))
	for _, rv := range reviews {
		v := models.ReviewView{Review: rv}
		var err error
		if withCar {
			if v.Car, err = l.carSummary(ctx, rv.CarID); err != nil {
				return nil, readErr(ctx, "join car", err)
			}
		}
		if withUser {
			if v.User, err = l.userSummary(ctx, rv.UserID); err != nil {
				return nil, readErr(ctx, "join user", err)
			}
		}
		out = append(out, v)
	}
	return out, nil
}
