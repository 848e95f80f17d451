package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/rentacar-backend/internal/api/httpx"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	"github.com/baharkarakas/rentacar-backend/internal/services"
)

type StaffHandler struct {
	Staff *services.StaffService
}

func NewStaffHandler(ss *services.StaffService) *StaffHandler { return &StaffHandler{Staff: ss} }

type managerReq struct {
	Email  string `json:"email" validate:"required_without=UserID"`
	UserID string `json:"userId" validate:"required_without=Email"`
	Action string `json:"action" validate:"required,oneof=promote demote"`
}

type bossReq struct {
	Email string `json:"email" validate:"required,email"`
}

type createUserReq struct {
	Name     string      `json:"name" validate:"required,max=100"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role" validate:"required,oneof=user manager boss admin"`
}

func (h *StaffHandler) SetManager(w http.ResponseWriter, r *http.Request) {
	var req managerReq
	if !bind(w, r, &req) {
		return
	}
	u, err := h.Staff.SetManager(r.Context(), caller(r), req.Email, req.UserID, req.Action == "promote")
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, u)
}

func (h *StaffHandler) ListBosses(w http.ResponseWriter, r *http.Request) {
	users, err := h.Staff.ListBosses(r.Context(), caller(r))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, users)
}

func (h *StaffHandler) PromoteBoss(w http.ResponseWriter, r *http.Request) {
	var req bossReq
	if !bind(w, r, &req) {
		return
	}
	u, err := h.Staff.PromoteBoss(r.Context(), caller(r), req.Email)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, u)
}

func (h *StaffHandler) DemoteBoss(w http.ResponseWriter, r *http.Request) {
	u, err := h.Staff.DemoteBoss(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, u)
}

func (h *StaffHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if !bind(w, r, &req) {
		return
	}
	u, err := h.Staff.CreateUser(r.Context(), caller(r), services.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	created(w, u)
}

func (h *StaffHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Staff.DeleteUser(r.Context(), caller(r), chi.URLParam(r, "id")); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, message{Message: "User deleted"})
}

// Reset wipes rentals, reviews, cars and every non-admin account.
func (h *StaffHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Staff.Reset(r.Context(), caller(r)); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, message{Message: "System reset complete"})
}
