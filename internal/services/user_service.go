package services

import (
	"context"
	"errors"
	"strings"

	"github.com/baharkarakas/rentacar-backend/internal/apperr"
	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/logger"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
)

const minPasswordLength = 6

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

type ProfileUpdate struct {
	Name   *string
	Email  *string
	Phone  *string
	Avatar *string
}

// Session is what a successful login or refresh hands back.
type Session struct {
	User   models.User
	Tokens auth.Pair
}

// UserService covers self-service account operations.
type UserService struct {
	store    repo.Store
	tokens   *auth.TokenManager
	sessions auth.Sessions
}

func NewUserService(store repo.Store, tm *auth.TokenManager, sessions auth.Sessions) *UserService {
	return &UserService{store: store, tokens: tm, sessions: sessions}
}

// Register creates a renter account. The role is always user.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	if len(req.Password) < minPasswordLength {
		return Session{}, apperr.Validation("password must be at least 6 characters")
	}
	u := models.User{Name: req.Name, Email: req.Email, Role: models.RoleUser}
	if err := u.Validate(); err != nil {
		return Session{}, apperr.Validation(err.Error())
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return Session{}, apperr.Internal(err)
	}
	u.PasswordHash = hash

	if err := createUser(ctx, s.store, auth.Identity{}, &u); err != nil {
		return Session{}, err
	}
	return s.issue(ctx, u)
}

func (s *UserService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.store.Repos().Users.GetByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return Session{}, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, readErr(ctx, "login", err)
	}
	if auth.VerifyPassword(password, u.PasswordHash) != nil {
		return Session{}, apperr.ErrInvalidCredentials
	}
	if u.Status == models.UserLocked {
		return Session{}, apperr.ErrAccountLocked
	}
	return s.issue(ctx, u)
}

// Refresh trades a live refresh token for a new pair; the old one is revoked.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return Session{}, apperr.ErrInvalidToken
	}
	ok, err := s.sessions.Active(ctx, claims.UserID, claims.ID)
	if err != nil {
		return Session{}, readErr(ctx, "session lookup", err)
	}
	if !ok {
		return Session{}, apperr.ErrInvalidToken
	}

	u, err := s.store.Repos().Users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return Session{}, apperr.ErrInvalidToken
	}
	if err != nil {
		return Session{}, readErr(ctx, "refresh", err)
	}
	if u.Status == models.UserLocked {
		return Session{}, apperr.ErrAccountLocked
	}
	if err := s.sessions.Revoke(ctx, claims.UserID, claims.ID); err != nil {
		return Session{}, readErr(ctx, "session revoke", err)
	}
	return s.issue(ctx, u)
}

// Logout revokes the given refresh token. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, id auth.Identity, refreshToken string) error {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil || claims.UserID != id.UserID {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.UserID, claims.ID); err != nil {
		return readErr(ctx, "session revoke", err)
	}
	return nil
}

func (s *UserService) Profile(ctx context.Context, id auth.Identity) (models.User, error) {
	return getUser(ctx, s.store.Repos(), id.UserID)
}

// UpdateProfile edits the caller's own contact fields. The role cannot be
// changed here.
func (s *UserService) UpdateProfile(ctx context.Context, id auth.Identity, upd ProfileUpdate) (models.User, error) {
	var u models.User
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		var err error
		if u, err = getUser(ctx, r, id.UserID); err != nil {
			return err
		}
		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.Email != nil {
			u.Email = *upd.Email
		}
		if upd.Phone != nil {
			u.Phone = strings.TrimSpace(*upd.Phone)
		}
		if upd.Avatar != nil {
			u.Avatar = strings.TrimSpace(*upd.Avatar)
		}
		if err := u.Validate(); err != nil {
			return apperr.Validation(err.Error())
		}
		if err := r.Users.Update(ctx, u); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return apperr.ErrUserExists
			}
			return err
		}
		return audit(ctx, r, id, "user", u.ID, "profile_updated", nil)
	})
	if err != nil {
		return models.User{}, txErr(ctx, "update profile", err)
	}
	return u, nil
}

func (s *UserService) issue(ctx context.Context, u models.User) (Session, error) {
	pair, err := s.tokens.GeneratePair(u.ID, u.Role)
	if err != nil {
		return Session{}, apperr.Internal(err)
	}
	if err := s.sessions.Save(ctx, u.ID, pair.RefreshID, pair.RefreshTTL); err != nil {
		logger.FromContext(ctx).Error("session save failed", "user_id", u.ID, "err", err)
		return Session{}, apperr.Internal(err)
	}
	return Session{User: u, Tokens: pair}, nil
}

func getUser(ctx context.Context, r repo.Repositories, id string) (models.User, error) {
	u, err := r.Users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, apperr.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, readErr(ctx, "get user", err)
	}
	return u, nil
}

func createUser(ctx context.Context, store repo.Transactor, actor auth.Identity, u *models.User) error {
	err := store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		if err := r.Users.Create(ctx, u); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return apperr.ErrUserExists
			}
			return err
		}
		if actor.UserID == "" {
			actor.UserID = u.ID
		}
		return audit(ctx, r, actor, "user", u.ID, "created", map[string]any{"role": string(u.Role)})
	})
	return txErr(ctx, "create user", err)
}
