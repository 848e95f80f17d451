package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/rentacar-backend/internal/apperr"
	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/events"
	"github.com/baharkarakas/rentacar-backend/internal/repository/repotest"
)

const goodComment = "Great car, smooth ride"

type reviewFixture struct {
	store   *repotest.Store
	rentals *RentalService
	reviews *ReviewService
	ev      *recorder
}

func newReviewFixture(t *testing.T) reviewFixture {
	t.Helper()
	store := repotest.New()
	ev := &recorder{}
	return reviewFixture{store: store, rentals: NewRentalService(store, ev), reviews: NewReviewService(store, ev), ev: ev}
}

// completeRental books and returns car for id.
func (f reviewFixture) completeRental(t *testing.T, id auth.Identity, carID string) {
	t.Helper()
	ctx := context.Background()
	rt, err := f.rentals.Create(ctx, id, march(carID))
	require.NoError(t, err)
	_, err = f.rentals.Return(ctx, id, rt.ID)
	require.NoError(t, err)
}

func TestSubmitReviewWithoutCompletedRental(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	car := seedCar(t, f.store, "Toyota", "Corolla", 40)

	_, err := f.reviews.Submit(ctx, renter, SubmitReviewRequest{CarID: car.ID, Rating: 4, Comment: goodComment})
	assert.ErrorIs(t, err, apperr.ErrRentalNotCompleted)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// An active rental is not enough.
	_, err = f.rentals.Create(ctx, renter, march(car.ID))
	require.NoError(t, err)
	_, err = f.reviews.Submit(ctx, renter, SubmitReviewRequest{CarID: car.ID, Rating: 4, Comment: goodComment})
	assert.ErrorIs(t, err, apperr.ErrRentalNotCompleted)
}

func TestSubmitReviewNeedsExactPair(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	a := seedCar(t, f.store, "Toyota", "Corolla", 40)
	b := seedCar(t, f.store, "BMW", "X5", 90)
	f.completeRental(t, renter, a.ID)

	_, err := f.reviews.Submit(ctx, renter, SubmitReviewRequest{CarID: b.ID, Rating: 4, Comment: goodComment})
	assert.ErrorIs(t, err, apperr.ErrRentalNotCompleted)

	_, err = f.reviews.Submit(ctx, other, SubmitReviewRequest{CarID: a.ID, Rating: 4, Comment: goodComment})
	assert.ErrorIs(t, err, apperr.ErrRentalNotCompleted)
}

func TestSubmitReviewValidationOrder(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	car := seedCar(t, f.store, "Toyota", "Corolla", 40)

	tests := []struct {
		name    string
		rating  int
		comment string
		want    error
	}{
		{"rating checked before comment", 0, "short", apperr.ErrInvalidRating},
		{"rating above range", 6, goodComment, apperr.ErrInvalidRating},
		{"comment too short", 5, "too short", apperr.ErrCommentTooShort},
		{"comment short after trim", 5, "   nine ch   ", apperr.ErrCommentTooShort},
		{"comment too long", 5, strings.Repeat("a", 501), apperr.ErrCommentTooLong},
		{"validation before eligibility", 3, "meh", apperr.ErrCommentTooShort},
		{"valid input still needs rental", 1, "exactly10!", apperr.ErrRentalNotCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.reviews.Submit(ctx, renter, SubmitReviewRequest{CarID: car.ID, Rating: tt.rating, Comment: tt.comment})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSubmitReviewUpdatesRating(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	car := seedCar(t, f.store, "Toyota", "Corolla", 40)
	require.NoError(t, f.store.Repos().Cars.SetRating(ctx, car.ID, 4.0, 2))
	f.completeRental(t, renter, car.ID)

	rv, err := f.reviews.Submit(ctx, renter, SubmitReviewRequest{CarID: car.ID, Rating: 5, Comment: "  " + goodComment + "  "})
	require.NoError(t, err)
	assert.Equal(t, goodComment, rv.Comment)
	assert.NotEmpty(t, rv.ID)

	got := getCar(t, f.store, car.ID)
	assert.InDelta(t, 13.0/3.0, got.RatingsAverage, 1e-9)
	assert.Equal(t, 3, got.RatingsQuantity)
	assert.Contains(t, f.ev.types(), events.ReviewCreated)
}

func TestSubmitReviewFirstRatingOnUnratedCar(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	car := seedCar(t, f.store, "Toyota", "Corolla", 40)
	f.completeRental(t, renter, car.ID)

	_, err := f.reviews.Submit(ctx, renter, SubmitReviewRequest{CarID: car.ID, Rating: 3, Comment: goodComment})
	require.NoError(t, err)
	got := getCar(t, f.store, car.ID)
	assert.Equal(t, 3.0, got.RatingsAverage)
	assert.Equal(t, 1, got.RatingsQuantity)
}

func TestSecondReviewAlwaysConflicts(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	car := seedCar(t, f.store, "Toyota", "Corolla", 40)
	f.completeRental(t, renter, car.ID)

	_, err := f.reviews.Submit(ctx, renter, SubmitReviewRequest{CarID: car.ID, Rating: 4, Comment: goodComment})
	require.NoError(t, err)

	for _, req := range []SubmitReviewRequest{
		{CarID: car.ID, Rating: 5, Comment: "Even better the second time"},
		{CarID: car.ID, Rating: 9, Comment: goodComment},
		{CarID: car.ID, Rating: 2, Comment: "bad"},
	} {
		_, err := f.reviews.Submit(ctx, renter, req)
		assert.ErrorIs(t, err, apperr.ErrDuplicateReview)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	}
	assert.Equal(t, 1, getCar(t, f.store, car.ID).RatingsQuantity)
}

func TestSubmitReviewIsAtomic(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	car := seedCar(t, f.store, "Toyota", "Corolla", 40)
	f.completeRental(t, renter, car.ID)
	f.store.Fail("cars.SetRating", errors.New("write timeout"))

	_, err := f.reviews.Submit(ctx, renter, SubmitReviewRequest{CarID: car.ID, Rating: 4, Comment: goodComment})
	require.ErrorIs(t, err, apperr.ErrTransactionFailed)

	_, err = f.store.Repos().Reviews.Find(ctx, renter.UserID, car.ID)
	assert.Error(t, err)
	assert.Equal(t, 0, getCar(t, f.store, car.ID).RatingsQuantity)

	_, err = f.reviews.Submit(ctx, renter, SubmitReviewRequest{CarID: car.ID, Rating: 4, Comment: goodComment})
	assert.NoError(t, err)
}

func TestReviewListings(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture(t)
	seedUser(t, f.store, renter, "renter@example.com")
	car := seedCar(t, f.store, "Toyota", "Corolla", 40)
	f.completeRental(t, renter, car.ID)
	_, err := f.reviews.Submit(ctx, renter, SubmitReviewRequest{CarID: car.ID, Rating: 4, Comment: goodComment})
	require.NoError(t, err)

	byCar, err := f.reviews.ListForCar(ctx, car.ID)
	require.NoError(t, err)
	require.Len(t, byCar, 1)
	require.NotNil(t, byCar[0].User)
	assert.Equal(t, "renter@example.com", byCar[0].User.Name)
	assert.Nil(t, byCar[0].Car)

	byUser, err := f.reviews.ListForUser(ctx, renter.UserID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	require.NotNil(t, byUser[0].Car)
	assert.Equal(t, "Corolla", byUser[0].Car.Model)

	recent, err := f.reviews.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.NotNil(t, recent[0].Car)
	assert.NotNil(t, recent[0].User)
}
