package services

import (
	"context"

	"github.com/baharkarakas/rentacar-backend/internal/apperr"
	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
)

// ReportService computes statistics on demand by scanning rentals.
type ReportService struct {
	store repo.Store
}

func NewReportService(store repo.Store) *ReportService { return &ReportService{store: store} }

func (s *ReportService) Stats(ctx context.Context, id auth.Identity) (models.Stats, error) {
	if err := requireStaff(id); err != nil {
		return models.Stats{}, err
	}
	r := s.store.Repos()
	rentals, err := r.Rentals.All(ctx)
	if err != nil {
		return models.Stats{}, readErr(ctx, "stats rentals", err)
	}
	cars, err := carIndex(ctx, r)
	if err != nil {
		return models.Stats{}, readErr(ctx, "stats cars", err)
	}
	users, err := userIndex(ctx, r)
	if err != nil {
		return models.Stats{}, readErr(ctx, "stats users", err)
	}
	return models.Stats{
		MonthlyRevenue: MonthlyRevenue(rentals),
		PopularCars:    PopularCars(rentals, cars, popularCarsLimit),
		UserActivity:   UserActivity(rentals, users, userActivityLimit),
	}, nil
}

func (s *ReportService) Dashboard(ctx context.Context, id auth.Identity) (models.DashboardStats, error) {
	if err := requireStaff(id); err != nil {
		return models.DashboardStats{}, err
	}
	r := s.store.Repos()

	var (
		out models.DashboardStats
		err error
	)
	if out.CompletedRentals, err = r.Rentals.CountByStatus(ctx, models.RentalCompleted); err != nil {
		return models.DashboardStats{}, readErr(ctx, "dashboard", err)
	}
	if out.PendingRequests, err = r.Rentals.CountByStatus(ctx, models.RentalPending); err != nil {
		return models.DashboardStats{}, readErr(ctx, "dashboard", err)
	}
	if out.AvailableCars, err = r.Cars.CountAvailable(ctx); err != nil {
		return models.DashboardStats{}, readErr(ctx, "dashboard", err)
	}
	if out.TotalRevenue, err = r.Rentals.TotalRevenue(ctx); err != nil {
		return models.DashboardStats{}, readErr(ctx, "dashboard", err)
	}
	rentals, err := r.Rentals.All(ctx)
	if err != nil {
		return models.DashboardStats{}, readErr(ctx, "dashboard", err)
	}
	out.MonthlyRevenue = MonthlyRevenue(rentals)
	return out, nil
}

func (s *ReportService) FinancialReport(ctx context.Context, id auth.Identity) (models.FinancialReport, error) {
	if !id.HasRole(models.RoleBoss, models.RoleAdmin) {
		return models.FinancialReport{}, apperr.ErrForbidden
	}
	r := s.store.Repos()
	rentals, err := r.Rentals.All(ctx)
	if err != nil {
		return models.FinancialReport{}, readErr(ctx, "financial report", err)
	}
	cars, err := carIndex(ctx, r)
	if err != nil {
		return models.FinancialReport{}, readErr(ctx, "financial report", err)
	}
	managers, err := r.Users.CountByRole(ctx, models.RoleManager)
	if err != nil {
		return models.FinancialReport{}, readErr(ctx, "financial report", err)
	}
	return models.FinancialReport{
		TotalRevenue:   TotalRevenue(rentals),
		TotalRentals:   len(rentals),
		Details:        CarEarnings(rentals, cars),
		ActiveManagers: managers,
	}, nil
}

func carIndex(ctx context.Context, r repo.Repositories) (map[string]models.Car, error) {
	cars, err := r.Cars.List(ctx, repo.CarFilter{})
	if err != nil {
		return nil, err
	}
	idx := make(map[string]models.Car, len(cars))
	for _, c := range cars {
		idx[c.ID] = c
	}
	return idx, nil
}

func userIndex(ctx context.Context, r repo.Repositories) (map[string]models.User, error) {
	users, err := r.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]models.User, len(users))
	for _, u := range users {
		idx[u.ID] = u
	}
	return idx, nil
}
