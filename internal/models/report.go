package models

type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

type PopularCar struct {
	CarID        string  `json:"-"`
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	Count        int     `json:"count"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type UserActivity struct {
	UserID   string  `json:"-"`
	User     string  `json:"user"`
	Rentals  int     `json:"rentals"`
	Spending float64 `json:"spending"`
}

type Stats struct {
	MonthlyRevenue []MonthlyRevenue `json:"monthlyRevenue"`
	PopularCars    []PopularCar     `json:"popularCars"`
	UserActivity   []UserActivity   `json:"userActivity"`
}

type DashboardStats struct {
	TotalRevenue     float64          `json:"totalRevenue"`
	AvailableCars    int64            `json:"availableCars"`
	CompletedRentals int64            `json:"completedRentals"`
	PendingRequests  int64            `json:"pendingRequests"`
	MonthlyRevenue   []MonthlyRevenue `json:"monthlyRevenue"`
}

type CarEarnings struct {
	Car           string  `json:"car"`
	TotalEarnings float64 `json:"totalEarnings"`
	RentalCount   int     `json:"rentalCount"`
}

type FinancialReport struct {
	TotalRevenue   float64       `json:"totalRevenue"`
	TotalRentals   int           `json:"totalRentals"`
	Details        []CarEarnings `json:"details"`
	ActiveManagers int64         `json:"activeManagers"`
}
