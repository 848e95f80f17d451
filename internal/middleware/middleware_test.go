package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/logger"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
)

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestAuthAndRoles(t *testing.T) {
	tm := auth.NewTokenManager("a", "r", time.Minute, time.Hour)
	h := NewAuthMiddleware(tm, nil).Auth(RequireRoles(Staff...)(http.HandlerFunc(okHandler)))

	call := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := call("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, rec))

	user, err := tm.GeneratePair("u1", models.RoleUser)
	require.NoError(t, err)
	rec = call(user.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec))

	// refresh tokens are not accepted as access tokens
	rec = call(user.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	mgr, err := tm.GeneratePair("m1", models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, call(mgr.AccessToken).Code)
}

func TestRequireRolesWithoutIdentity(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireRoles(models.RoleAdmin)(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL", errorCode(t, rec))
}

type fakeUsers map[string]models.User

func (f fakeUsers) GetByID(_ context.Context, id string) (models.User, error) {
	u, ok := f[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func TestAuthReloadsAccount(t *testing.T) {
	tm := auth.NewTokenManager("a", "r", time.Minute, time.Hour)
	users := fakeUsers{
		"m1": {ID: "m1", Role: models.RoleUser, Status: models.UserActive}, // demoted since login
		"m2": {ID: "m2", Role: models.RoleManager, Status: models.UserLocked},
		"m3": {ID: "m3", Role: models.RoleManager, Status: models.UserActive},
	}
	h := NewAuthMiddleware(tm, users).Auth(RequireRoles(Staff...)(http.HandlerFunc(okHandler)))

	call := func(userID string) *httptest.ResponseRecorder {
		pair, err := tm.GeneratePair(userID, models.RoleManager)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := call("m1")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec))

	rec = call("m2")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ACCOUNT_LOCKED", errorCode(t, rec))

	rec = call("gone")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, rec))

	assert.Equal(t, http.StatusNoContent, call("m3").Code)
}
