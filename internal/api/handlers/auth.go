package handlers

import (
	"net/http"
	"time"

	"github.com/baharkarakas/rentacar-backend/internal/api/httpx"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	"github.com/baharkarakas/rentacar-backend/internal/services"
)

type AuthHandler struct {
	Users *services.UserService
}

func NewAuthHandler(us *services.UserService) *AuthHandler {
	return &AuthHandler{Users: us}
}

type registerReq struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type tokenResp struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int64       `json:"expiresIn"` // seconds until the access token expires
}

func session(s services.Session) tokenResp {
	return tokenResp{
		User:         s.User,
		AccessToken:  s.Tokens.AccessToken,
		RefreshToken: s.Tokens.RefreshToken,
		ExpiresIn:    int64(time.Until(s.Tokens.AccessExp).Truncate(time.Second).Seconds()),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if !bind(w, r, &req) {
		return
	}
	s, err := h.Users.Register(r.Context(), services.RegisterRequest{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	created(w, session(s))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !bind(w, r, &req) {
		return
	}
	s, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, session(s))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if !bind(w, r, &req) {
		return
	}
	s, err := h.Users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, session(s))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if !bind(w, r, &req) {
		return
	}
	if err := h.Users.Logout(r.Context(), caller(r), req.RefreshToken); err != nil {
		httpx.WriteErr(w, r, err)
		return
	}
	ok(w, message{Message: "Logged out"})
}
