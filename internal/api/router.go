package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/rentacar-backend/internal/api/handlers"
	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/config"
	"github.com/baharkarakas/rentacar-backend/internal/metrics"
	"github.com/baharkarakas/rentacar-backend/internal/middleware"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	"github.com/baharkarakas/rentacar-backend/internal/services"
)

type RouterDeps struct {
	Cfg       config.Config
	Tokens    *auth.TokenManager
	Accounts  middleware.UserLookup
	UserSvc   *services.UserService
	StaffSvc  *services.StaffService
	CarSvc    *services.CarService
	RentalSvc *services.RentalService
	ReviewSvc *services.ReviewService
	ReportSvc *services.ReportService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	authH := handlers.NewAuthHandler(d.UserSvc)
	carH := handlers.NewCarHandler(d.CarSvc)
	rentalH := handlers.NewRentalHandler(d.RentalSvc, d.ReportSvc)
	reviewH := handlers.NewReviewHandler(d.ReviewSvc)
	reportH := handlers.NewReportHandler(d.ReportSvc)
	userH := handlers.NewUserHandler(d.UserSvc, d.StaffSvc)
	staffH := handlers.NewStaffHandler(d.StaffSvc)

	authn := middleware.NewAuthMiddleware(d.Tokens, d.Accounts).Auth
	staff := middleware.RequireRoles(middleware.Staff...)
	bossOrAdmin := middleware.RequireRoles(middleware.BossOrAdmin...)
	admin := middleware.RequireRoles(models.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- public ----------
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/refresh", authH.Refresh)

		r.Get("/cars", carH.List)
		r.Get("/cars/available", carH.Available)
		r.Get("/cars/featured", carH.Featured)
		r.Get("/cars/popular", carH.Popular)
		r.Get("/cars/categories", carH.Categories)
		r.Get("/cars/{id}", carH.Get)

		r.Get("/reviews/car/{carId}", reviewH.ForCar)
		r.Get("/reviews/user/{userId}", reviewH.ForUser)
		r.Get("/reviews/recent", reviewH.Recent)

		// ---------- authenticated ----------
		r.Group(func(r chi.Router) {
			r.Use(authn)

			r.Post("/auth/logout", authH.Logout)
			r.Get("/users/profile", userH.Profile)
			r.Put("/users/profile", userH.UpdateProfile)

			r.Post("/rentals", rentalH.Create)
			r.Post("/rentals/requests", rentalH.Request)
			r.Get("/rentals/user/{userId}", rentalH.ListForUser)
			r.Put("/rentals/{id}/return", rentalH.Return)
			r.Put("/rentals/{id}/cancel", rentalH.Cancel)

			r.Post("/reviews", reviewH.Submit)

			// ---------- manager+ ----------
			r.Group(func(r chi.Router) {
				r.Use(staff)

				r.Post("/cars", carH.Create)
				r.Put("/cars/{id}", carH.Update)
				r.Delete("/cars/{id}", carH.Remove)

				r.Get("/rentals/pending", rentalH.Pending)
				r.Get("/rentals/returned", rentalH.Returned)
				r.Get("/rentals/stats", rentalH.Dashboard)
				r.Put("/rentals/{id}/approve", rentalH.Approve)
				r.Put("/rentals/{id}/process", rentalH.Process)

				r.Get("/stats", reportH.Stats)
				r.Get("/users", userH.List)
				r.Put("/users/{id}/status", userH.ToggleStatus)
			})

			// ---------- boss+ ----------
			r.Group(func(r chi.Router) {
				r.Use(bossOrAdmin)
				r.Get("/boss/financial-report", reportH.Financial)
				r.Put("/boss/managers", staffH.SetManager)
			})

			// ---------- admin ----------
			r.Route("/admin", func(r chi.Router) {
				r.Use(admin)
				r.Get("/bosses", staffH.ListBosses)
				r.Post("/bosses", staffH.PromoteBoss)
				r.Put("/bosses/{id}/demote", staffH.DemoteBoss)
				r.Post("/users", staffH.CreateUser)
				r.Delete("/users/{id}", staffH.DeleteUser)
				r.Post("/reset", staffH.Reset)
			})
		})
	})

	return r
}
