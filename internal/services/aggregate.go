package services

import (
	"fmt"
	"sort"

	"github.com/baharkarakas/rentacar-backend/internal/models"
)

const (
	popularCarsLimit  = 5
	userActivityLimit = 10
	unknownCar        = "Unknown Car"
)

// MonthlyRevenue buckets rentals by the UTC year and month of their start
// date, oldest month first.
func MonthlyRevenue(rentals []models.Rental) []models.MonthlyRevenue {
	buckets := map[string]*models.MonthlyRevenue{}
	for _, rt := range rentals {
		start := rt.StartDate.UTC()
		key := fmt.Sprintf("%04d-%02d", start.Year(), int(start.Month()))
		b, ok := buckets[key]
		if !ok {
			b = &models.MonthlyRevenue{Month: key}
			buckets[key] = b
		}
		b.Revenue += rt.TotalCost
		b.Count++
	}

	out := make([]models.MonthlyRevenue, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// PopularCars ranks cars by rental count, then revenue. Rentals of cars missing
// from cars are left out. limit <= 0 keeps every car.
func PopularCars(rentals []models.Rental, cars map[string]models.Car, limit int) []models.PopularCar {
	byCar := map[string]*models.PopularCar{}
	for _, rt := range rentals {
		car, ok := cars[rt.CarID]
		if !ok {
			continue
		}
		p, ok := byCar[rt.CarID]
		if !ok {
			p = &models.PopularCar{CarID: car.ID, Brand: car.Brand, Model: car.Model}
			byCar[rt.CarID] = p
		}
		p.Count++
		p.TotalRevenue += rt.TotalCost
	}

	out := make([]models.PopularCar, 0, len(byCar))
	for _, p := range byCar {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Count != b.Count:
			return a.Count > b.Count
		case a.TotalRevenue != b.TotalRevenue:
			return a.TotalRevenue > b.TotalRevenue
		case a.Brand != b.Brand:
			return a.Brand < b.Brand
		case a.Model != b.Model:
			return a.Model < b.Model
		}
		return a.CarID < b.CarID
	})
	return head(out, limit)
}

// UserActivity ranks renters by rental count, then spending, labelled by email.
// Rentals of users missing from users are left out.
func UserActivity(rentals []models.Rental, users map[string]models.User, limit int) []models.UserActivity {
	byUser := map[string]*models.UserActivity{}
	for _, rt := range rentals {
		u, ok := users[rt.UserID]
		if !ok {
			continue
		}
		a, ok := byUser[rt.UserID]
		if !ok {
			a = &models.UserActivity{UserID: u.ID, User: u.Email}
			byUser[rt.UserID] = a
		}
		a.Rentals++
		a.Spending += rt.TotalCost
	}

	out := make([]models.UserActivity, 0, len(byUser))
	for _, a := range byUser {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Rentals != b.Rentals:
			return a.Rentals > b.Rentals
		case a.Spending != b.Spending:
			return a.Spending > b.Spending
		case a.User != b.User:
			return a.User < b.User
		}
		return a.UserID < b.UserID
	})
	return head(out, limit)
}

// CarEarnings totals revenue per car, highest first.
func CarEarnings(rentals []models.Rental, cars map[string]models.Car) []models.CarEarnings {
	type acc struct {
		label string
		total float64
		count int
	}
	byCar := map[string]*acc{}
	for _, rt := range rentals {
		a, ok := byCar[rt.CarID]
		if !ok {
			a = &acc{label: unknownCar}
			if car, found := cars[rt.CarID]; found {
				a.label = car.Title()
			}
			byCar[rt.CarID] = a
		}
		a.total += rt.TotalCost
		a.count++
	}

	ids := make([]string, 0, len(byCar))
	for id := range byCar {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := byCar[ids[i]], byCar[ids[j]]
		switch {
		case a.total != b.total:
			return a.total > b.total
		case a.label != b.label:
			return a.label < b.label
		}
		return ids[i] < ids[j]
	})

	out := make([]models.CarEarnings, 0, len(ids))
	for _, id := range ids {
		a := byCar[id]
		out = append(out, models.CarEarnings{Car: a.label, TotalEarnings: a.total, RentalCount: a.count})
	}
	return out
}

func TotalRevenue(rentals []models.Rental) float64 {
	var total float64
	for _, rt := range rentals {
		total += rt.TotalCost
	}
	return total
}

func head[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
