package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/rentacar-backend/internal/apperr"
	"github.com/baharkarakas/rentacar-backend/internal/events"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	"github.com/baharkarakas/rentacar-backend/internal/repository/repotest"
)

func TestCreateCarAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	store := repotest.New()
	svc := NewCarService(store)

	_, err := svc.Create(ctx, renter, models.Car{Brand: "Kia", Model: "Rio", Year: 2021, PricePerDay: 35})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	c, err := svc.Create(ctx, manager, models.Car{
		Brand: "Kia", Model: "Rio", Year: 2021, PricePerDay: 35,
		Status: models.CarRemoved, RatingsAverage: 5, RatingsQuantity: 100,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.True(t, c.IsAvailable)
	assert.Equal(t, models.CarActive, c.Status)
	assert.Equal(t, 5, c.Seats)
	assert.Equal(t, 5, c.Doors)
	assert.Equal(t, "Manual", c.Transmission)
	assert.Equal(t, "Main Branch", c.Location)
	assert.Equal(t, "Economy", c.Category)
	assert.Zero(t, c.RatingsQuantity)
	assert.Equal(t, c, getCar(t, store, c.ID))
}

func TestCreateCarValidation(t *testing.T) {
	svc := NewCarService(repotest.New())

	for name, c := range map[string]models.Car{
		"missing brand": {Model: "Rio", Year: 2021, PricePerDay: 35},
		"missing year":  {Brand: "Kia", Model: "Rio", PricePerDay: 35},
		"zero price":    {Brand: "Kia", Model: "Rio", Year: 2021},
		"neg mileage":   {Brand: "Kia", Model: "Rio", Year: 2021, PricePerDay: 35, Mileage: -1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), manager, c)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestUpdateCarLeavesAvailabilityAlone(t *testing.T) {
	ctx := context.Background()
	store := repotest.New()
	svc := NewCarService(store)
	car := seedCar(t, store, "Toyota", "Corolla", 40)
	_, err := NewRentalService(store, events.Noop{}).Create(ctx, renter, march(car.ID))
	require.NoError(t, err)

	upd, err := svc.Update(ctx, manager, car.ID, models.Car{
		Brand: "Toyota", Model: "Corolla Hybrid", Year: 2023, PricePerDay: 45, IsAvailable: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Corolla Hybrid", upd.Model)

	got := getCar(t, store, car.ID)
	assert.Equal(t, "Corolla Hybrid", got.Model)
	assert.Equal(t, 45.0, got.PricePerDay)
	assert.False(t, got.IsAvailable)

	_, err = svc.Update(ctx, manager, "missing", models.Car{Brand: "A", Model: "B", Year: 2020, PricePerDay: 1})
	assert.ErrorIs(t, err, apperr.ErrCarNotFound)
}

func TestCatalogListings(t *testing.T) {
	ctx := context.Background()
	store := repotest.New()
	svc := NewCarService(store)
	a := seedCar(t, store, "Toyota", "Corolla", 40)
	b := seedCar(t, store, "BMW", "X5", 90)
	b.Featured = true
	require.NoError(t, store.Repos().Cars.Update(ctx, b))

	removed, err := svc.Remove(ctx, manager, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CarRemoved, removed.Status)
	assert.False(t, removed.IsAvailable)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	avail, err := svc.Available(ctx)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, b.ID, avail[0].ID)

	featured, err := svc.Featured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, b.ID, featured[0].ID)

	popular, err := svc.Popular(ctx)
	require.NoError(t, err)
	assert.Len(t, popular, 2)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrCarNotFound)
	_, err = svc.Remove(ctx, manager, "missing")
	assert.ErrorIs(t, err, apperr.ErrCarNotFound)

	cats := svc.Categories()
	assert.Equal(t, []string{"Economy", "SUV", "Luxury", "Convertible", "Van"}, cats)
	cats[0] = "changed"
	assert.Equal(t, "Economy", svc.Categories()[0])
}
