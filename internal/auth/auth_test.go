package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/rentacar-backend/internal/models"
)

func TestGeneratePairRoundTrip(t *testing.T) {
	tm := NewTokenManager("a-secret", "r-secret", time.Minute, time.Hour)

	p, err := tm.GeneratePair("u1", models.RoleManager)
	require.NoError(t, err)
	assert.NotEmpty(t, p.RefreshID)
	assert.Equal(t, time.Hour, p.RefreshTTL)

	acc, err := tm.ParseAccess(p.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "u1", Role: models.RoleManager}, acc.Identity())

	ref, err := tm.ParseRefresh(p.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, p.RefreshID, ref.ID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	tm := NewTokenManager("a-secret", "r-secret", time.Minute, time.Hour)
	p, err := tm.GeneratePair("u1", models.RoleUser)
	require.NoError(t, err)

	_, err = tm.ParseAccess(p.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tm.ParseRefresh(p.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	tm := NewTokenManager("a-secret", "r-secret", -time.Minute, time.Hour)
	p, err := tm.GeneratePair("u1", models.RoleUser)
	require.NoError(t, err)

	_, err = tm.ParseAccess(p.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	tm := NewTokenManager("a-secret", "r-secret", time.Minute, time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID:           "u1",
		Type:             TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	}).SignedString([]byte("a-secret"))
	require.NoError(t, err)

	_, err = tm.ParseAccess(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NoError(t, VerifyPassword("s3cret-pass", h))
	assert.Error(t, VerifyPassword("wrong", h))
}

func TestIdentity(t *testing.T) {
	user := Identity{UserID: "u1", Role: models.RoleUser}
	boss := Identity{UserID: "b1", Role: models.RoleBoss}

	assert.True(t, user.Owns("u1"))
	assert.False(t, user.Owns("u2"))
	assert.True(t, boss.Owns("u2"))
	assert.True(t, boss.HasRole(models.RoleBoss, models.RoleAdmin))
	assert.False(t, user.HasRole(models.RoleManager))

	ctx := WithIdentity(context.Background(), user)
	got, ok := IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)

	_, ok = IdentityFrom(context.Background())
	assert.False(t, ok)
}

func TestRedisSessionsWithoutClient(t *testing.T) {
	s := NewRedisSessions(nil)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "u1", "t1", time.Minute))
	ok, err := s.Active(ctx, "u1", "t1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, s.Revoke(ctx, "u1", "t1"))
	assert.NoError(t, s.RevokeAll(ctx, "u1"))
}
