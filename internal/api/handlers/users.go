package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/rentacar-backend/internal/api/httpx"
	"github.com/baharkarakas/rentacar-backend/internal/services"
)

type UserHandler struct {
	Users *services.UserService
	Staff *services.StaffService
}

func NewUserHandler(us *services.UserService, ss *services.StaffService) *UserHandler {
	return &UserHandler{Users: us, Staff: ss}
}

// Absent fields are left unchanged.
type profileReq struct {
	Name   *string `json:"name" validate:"omitempty,max=100"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Phone  *string `json:"phone" validate:"omitempty,max=32"`
	Avatar *string `json:"avatar"`
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Profile(r.Context(), caller(r))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, u)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileReq
	if !bind(w, r, &req) {
		return
	}
	u, err := h.Users.UpdateProfile(r.Context(), caller(r), services.ProfileUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Avatar: req.Avatar,
	})
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, u)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Staff.ListUsers(r.Context(), caller(r))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, users)
}

// ToggleStatus locks an active account or unlocks a locked one.
func (h *UserHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	u, err := h.Staff.ToggleLock(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, u)
}
