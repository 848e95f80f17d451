package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/baharkarakas/rentacar-backend/internal/api/httpx"
	"github.com/baharkarakas/rentacar-backend/internal/api/validate"
	"github.com/baharkarakas/rentacar-backend/internal/apperr"
	"github.com/baharkarakas/rentacar-backend/internal/auth"
)

// bind decodes the JSON body into dst and runs its validate tags. On failure
// it writes the error response and reports false.
func bind(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := httpx.Decode(r, dst); err != nil {
		httpx.WriteErr(w, r, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		httpx.WriteErr(w, r, err)
		return false
	}
	return true
}

// caller is the identity the Auth middleware stored. Public routes get the
// zero Identity.
func caller(r *http.Request) auth.Identity {
	id, _ := auth.IdentityFrom(r.Context())
	return id
}

const dateOnly = "2006-01-02"

// parseDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date (UTC midnight).
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.ErrInvalidDates.WithMsg(field + " must be RFC 3339 or YYYY-MM-DD")
}

type message struct {
	Message string `json:"message"`
}

func ok(w http.ResponseWriter, v interface{}) { httpx.WriteJSON(w, http.StatusOK, v) }

func created(w http.ResponseWriter, v interface{}) { httpx.WriteJSON(w, http.StatusCreated, v) }
