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

// seedActivity leaves one completed, one active and one pending rental.
func seedActivity(t *testing.T) (*ReportService, *repotest.Store) {
	t.Helper()
	ctx := context.Background()
	store := repotest.New()
	rentals := NewRentalService(store, events.Noop{})
	seedUser(t, store, renter, "renter@example.com")
	seedUser(t, store, other, "other@example.com")
	seedUser(t, store, manager, "manager@example.com")

	a := seedCar(t, store, "Toyota", "Corolla", 40)
	b := seedCar(t, store, "BMW", "X5", 90)
	c := seedCar(t, store, "Audi", "A4", 60)
	_, err := store.Repos().Cars.Remove(ctx, c.ID)
	require.NoError(t, err)
	seedCar(t, store, "Fiat", "500", 25)

	done, err := rentals.Create(ctx, renter, march(a.ID)) // 120
	require.NoError(t, err)
	_, err = rentals.Return(ctx, renter, done.ID)
	require.NoError(t, err)
	_, err = rentals.Create(ctx, other, CreateRentalRequest{CarID: b.ID, StartDate: day("2024-04-10"), EndDate: day("2024-04-12")}) // 180
	require.NoError(t, err)
	_, err = rentals.Request(ctx, renter, CreateRentalRequest{CarID: a.ID, StartDate: day("2024-04-01"), EndDate: day("2024-04-02")}) // 40
	require.NoError(t, err)

	return NewReportService(store), store
}

func TestDashboard(t *testing.T) {
	svc, _ := seedActivity(t)

	_, err := svc.Dashboard(context.Background(), renter)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	got, err := svc.Dashboard(context.Background(), manager)
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{
		TotalRevenue:     340,
		AvailableCars:    2,
		CompletedRentals: 1,
		PendingRequests:  1,
		MonthlyRevenue: []models.MonthlyRevenue{
			{Month: "2024-03", Revenue: 120, Count: 1},
			{Month: "2024-04", Revenue: 220, Count: 2},
		},
	}, got)
}

func TestStats(t *testing.T) {
	svc, _ := seedActivity(t)

	got, err := svc.Stats(context.Background(), boss)
	require.NoError(t, err)
	require.Len(t, got.PopularCars, 2)
	assert.Equal(t, "Toyota", got.PopularCars[0].Brand)
	assert.Equal(t, 2, got.PopularCars[0].Count)
	require.Len(t, got.UserActivity, 2)
	assert.Equal(t, "renter@example.com", got.UserActivity[0].User)
	assert.Equal(t, 160.0, got.UserActivity[0].Spending)
	assert.Len(t, got.MonthlyRevenue, 2)
}

func TestFinancialReport(t *testing.T) {
	svc, _ := seedActivity(t)

	_, err := svc.FinancialReport(context.Background(), manager)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	got, err := svc.FinancialReport(context.Background(), boss)
	require.NoError(t, err)
	assert.Equal(t, 340.0, got.TotalRevenue)
	assert.Equal(t, 3, got.TotalRentals)
	assert.EqualValues(t, 1, got.ActiveManagers)
	assert.Equal(t, []models.CarEarnings{
		{Car: "BMW X5", TotalEarnings: 180, RentalCount: 1},
		{Car: "Toyota Corolla", TotalEarnings: 160, RentalCount: 2},
	}, got.Details)
}
