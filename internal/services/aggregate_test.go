package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/baharkarakas/rentacar-backend/internal/models"
)

func rental(userID, carID, start string, cost float64) models.Rental {
	return models.Rental{UserID: userID, CarID: carID, StartDate: day(start), EndDate: day(start).Add(24 * time.Hour), TotalCost: cost}
}

func TestMonthlyRevenue(t *testing.T) {
	rentals := []models.Rental{
		rental("u1", "c1", "2024-02-01", 30),
		rental("u1", "c1", "2024-01-05", 100),
		rental("u2", "c2", "2024-01-20", 50),
	}

	assert.Equal(t, []models.MonthlyRevenue{
		{Month: "2024-01", Revenue: 150, Count: 2},
		{Month: "2024-02", Revenue: 30, Count: 1},
	}, MonthlyRevenue(rentals))
}

func TestMonthlyRevenueUsesUTCAndSortsAcrossYears(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	rentals := []models.Rental{
		{StartDate: time.Date(2024, 1, 31, 22, 0, 0, 0, est), TotalCost: 10},
		{StartDate: time.Date(2023, 12, 3, 0, 0, 0, 0, time.UTC), TotalCost: 5},
		{StartDate: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), TotalCost: 7},
	}

	got := MonthlyRevenue(rentals)
	assert.Equal(t, []string{"2023-12", "2024-02", "2024-10"}, []string{got[0].Month, got[1].Month, got[2].Month})
}

func TestMonthlyRevenueEmpty(t *testing.T) {
	got := MonthlyRevenue(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPopularCars(t *testing.T) {
	cars := map[string]models.Car{
		"c1": {ID: "c1", Brand: "Toyota", Model: "Corolla"},
		"c2": {ID: "c2", Brand: "BMW", Model: "X5"},
		"c3": {ID: "c3", Brand: "Audi", Model: "A4"},
	}
	rentals := []models.Rental{
		rental("u1", "c1", "2024-01-01", 40),
		rental("u2", "c1", "2024-01-02", 40),
		rental("u1", "c2", "2024-01-03", 90),
		rental("u2", "c2", "2024-01-04", 90),
		rental("u1", "c3", "2024-01-05", 60),
		rental("u1", "gone", "2024-01-06", 999),
		rental("u1", "gone", "2024-01-07", 999),
		rental("u1", "gone", "2024-01-08", 999),
	}

	got := PopularCars(rentals, cars, 5)
	assert.Equal(t, []models.PopularCar{
		{CarID: "c2", Brand: "BMW", Model: "X5", Count: 2, TotalRevenue: 180},
		{CarID: "c1", Brand: "Toyota", Model: "Corolla", Count: 2, TotalRevenue: 80},
		{CarID: "c3", Brand: "Audi", Model: "A4", Count: 1, TotalRevenue: 60},
	}, got)

	assert.Len(t, PopularCars(rentals, cars, 1), 1)
	assert.Len(t, PopularCars(rentals, cars, 0), 3)
}

func TestUserActivity(t *testing.T) {
	users := map[string]models.User{
		"u1": {ID: "u1", Email: "a@example.com"},
		"u2": {ID: "u2", Email: "b@example.com"},
	}
	rentals := []models.Rental{
		rental("u2", "c1", "2024-01-01", 10),
		rental("u1", "c1", "2024-01-02", 40),
		rental("u1", "c2", "2024-01-03", 60),
		rental("ghost", "c2", "2024-01-04", 500),
	}

	assert.Equal(t, []models.UserActivity{
		{UserID: "u1", User: "a@example.com", Rentals: 2, Spending: 100},
		{UserID: "u2", User: "b@example.com", Rentals: 1, Spending: 10},
	}, UserActivity(rentals, users, 10))
}

func TestUserActivityLimit(t *testing.T) {
	users := map[string]models.User{}
	var rentals []models.Rental
	for i := 0; i < 12; i++ {
		id := string(rune('a' + i))
		users[id] = models.User{ID: id, Email: id + "@example.com"}
		rentals = append(rentals, rental(id, "c1", "2024-01-01", float64(i)))
	}

	got := UserActivity(rentals, users, userActivityLimit)
	assert.Len(t, got, 10)
	assert.Equal(t, "l@example.com", got[0].User)
}

func TestCarEarnings(t *testing.T) {
	cars := map[string]models.Car{"c1": {ID: "c1", Brand: "Toyota", Model: "Corolla"}}
	rentals := []models.Rental{
		rental("u1", "c1", "2024-01-01", 40),
		rental("u1", "gone", "2024-01-02", 100),
		rental("u2", "c1", "2024-01-03", 40),
	}

	assert.Equal(t, []models.CarEarnings{
		{Car: "Unknown Car", TotalEarnings: 100, RentalCount: 1},
		{Car: "Toyota Corolla", TotalEarnings: 80, RentalCount: 2},
	}, CarEarnings(rentals, cars))
	assert.Equal(t, 180.0, TotalRevenue(rentals))
}
