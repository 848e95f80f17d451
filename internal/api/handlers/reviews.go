package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/rentacar-backend/internal/api/httpx"
	"github.com/baharkarakas/rentacar-backend/internal/services"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

func NewReviewHandler(rs *services.ReviewService) *ReviewHandler { return &ReviewHandler{Reviews: rs} }

// Rating and comment bounds are enforced by the service so clients get the
// specific INVALID_RATING / COMMENT_TOO_* codes.
type reviewReq struct {
	CarID   string `json:"carId" validate:"required"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req reviewReq
	if !bind(w, r, &req) {
		return
	}
	rv, err := h.Reviews.Submit(r.Context(), caller(r), services.SubmitReviewRequest{
		CarID:   req.CarID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	created(w, rv)
}

func (h *ReviewHandler) ForCar(w http.ResponseWriter, r *http.Request) {
	views, err := h.Reviews.ListForCar(r.Context(), chi.URLParam(r, "carId"))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, views)
}

func (h *ReviewHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	views, err := h.Reviews.ListForUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, views)
}

func (h *ReviewHandler) Recent(w http.ResponseWriter, r *http.Request) {
	views, err := h.Reviews.Recent(r.Context())
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, views)
}
