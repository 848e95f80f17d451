package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/rentacar-backend/internal/api/httpx"
	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	"github.com/baharkarakas/rentacar-backend/internal/services"
)

type RentalHandler struct {
	Rentals *services.RentalService
	Reports *services.ReportService
}

func NewRentalHandler(rs *services.RentalService, reports *services.ReportService) *RentalHandler {
	return &RentalHandler{Rentals: rs, Reports: reports}
}

type rentalReq struct {
	CarID     string `json:"carId" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

func (q rentalReq) parse() (services.CreateRentalRequest, error) {
	start, err := parseDate("startDate", q.StartDate)
	if err != nil {
		return services.CreateRentalRequest{}, err
	}
	end, err := parseDate("endDate", q.EndDate)
	if err != nil {
		return services.CreateRentalRequest{}, err
	}
	return services.CreateRentalRequest{CarID: q.CarID, StartDate: start, EndDate: end}, nil
}

type returnResp struct {
	Message string `json:"message"`
	CarID   string `json:"carId"`
}

type openFunc func(context.Context, auth.Identity, services.CreateRentalRequest) (models.Rental, error)

// Create books a car immediately (status active).
func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.open(w, r, h.Rentals.Create)
}

// Request files a pending rental for staff approval.
func (h *RentalHandler) Request(w http.ResponseWriter, r *http.Request) {
	h.open(w, r, h.Rentals.Request)
}

func (h *RentalHandler) open(w http.ResponseWriter, r *http.Request, open openFunc) {
	var req rentalReq
	if !bind(w, r, &req) {
		return
	}
	in, err := req.parse()
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	rt, err := open(r.Context(), caller(r), in)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	created(w, rt)
}

func (h *RentalHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	views, err := h.Rentals.ListForUser(r.Context(), caller(r), chi.URLParam(r, "userId"))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, views)
}

func (h *RentalHandler) Pending(w http.ResponseWriter, r *http.Request) {
	views, err := h.Rentals.ListPending(r.Context(), caller(r))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, views)
}

func (h *RentalHandler) Returned(w http.ResponseWriter, r *http.Request) {
	views, err := h.Rentals.ListReturned(r.Context(), caller(r))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, views)
}

func (h *RentalHandler) Return(w http.ResponseWriter, r *http.Request) {
	carID, err := h.Rentals.Return(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, returnResp{Message: "Car returned successfully", CarID: carID})
}

func (h *RentalHandler) Process(w http.ResponseWriter, r *http.Request) {
	carID, err := h.Rentals.Process(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, returnResp{Message: "Return processed", CarID: carID})
}

func (h *RentalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	rt, err := h.Rentals.Approve(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, rt)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	rt, err := h.Rentals.Cancel(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, rt)
}

func (h *RentalHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Reports.Dashboard(r.Context(), caller(r))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, stats)
}
