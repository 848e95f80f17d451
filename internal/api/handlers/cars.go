package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/rentacar-backend/internal/api/httpx"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	"github.com/baharkarakas/rentacar-backend/internal/services"
)

type CarHandler struct {
	Cars *services.CarService
}

func NewCarHandler(cs *services.CarService) *CarHandler { return &CarHandler{Cars: cs} }

type carReq struct {
	Brand        string   `json:"brand" validate:"required"`
	Model        string   `json:"model" validate:"required"`
	Year         int      `json:"year" validate:"gt=1885"`
	PricePerDay  float64  `json:"pricePerDay" validate:"gt=0"`
	Mileage      int      `json:"mileage" validate:"gte=0"`
	Seats        int      `json:"seats" validate:"gte=0,lte=20"`
	Doors        int      `json:"doors" validate:"gte=0,lte=10"`
	Transmission string   `json:"transmission"`
	Location     string   `json:"location"`
	Image        string   `json:"image"`
	Gallery      []string `json:"gallery"`
	Featured     bool     `json:"featured"`
	Category     string   `json:"category" validate:"omitempty,oneof=Economy SUV Luxury Convertible Van"`
}

func (c carReq) car() models.Car {
	return models.Car{
		Brand:        c.Brand,
		Model:        c.Model,
		Year:         c.Year,
		PricePerDay:  c.PricePerDay,
		Mileage:      c.Mileage,
		Seats:        c.Seats,
		Doors:        c.Doors,
		Transmission: c.Transmission,
		Location:     c.Location,
		Image:        c.Image,
		Gallery:      c.Gallery,
		Featured:     c.Featured,
		Category:     c.Category,
	}
}

func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Cars.List)
}

func (h *CarHandler) Available(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Cars.Available)
}

func (h *CarHandler) Featured(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Cars.Featured)
}

func (h *CarHandler) Popular(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Cars.Popular)
}

func (h *CarHandler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]models.Car, error)) {
	cars, err := fetch(r.Context())
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, cars)
}

func (h *CarHandler) Categories(w http.ResponseWriter, _ *http.Request) {
	ok(w, h.Cars.Categories())
}

func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	car, err := h.Cars.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, car)
}

func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req carReq
	if !bind(w, r, &req) {
		return
	}
	car, err := h.Cars.Create(r.Context(), caller(r), req.car())
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	created(w, car)
}

func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req carReq
	if !bind(w, r, &req) {
		return
	}
	car, err := h.Cars.Update(r.Context(), caller(r), chi.URLParam(r, "id"), req.car())
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, car)
}

func (h *CarHandler) Remove(w http.ResponseWriter, r *http.Request) {
	car, err := h.Cars.Remove(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, car)
}
