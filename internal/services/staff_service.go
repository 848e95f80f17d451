package services

import (
	"context"
	"errors"

	"github.com/baharkarakas/rentacar-backend/internal/apperr"
	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
)

type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// StaffService holds the manager, boss and admin account operations.
type StaffService struct {
	store    repo.Store
	sessions auth.Sessions
}

func NewStaffService(store repo.Store, sessions auth.Sessions) *StaffService {
	return &StaffService{store: store, sessions: sessions}
}

func (s *StaffService) ListUsers(ctx context.Context, id auth.Identity) ([]models.User, error) {
	if err := requireStaff(id); err != nil {
		return nil, err
	}
	users, err := s.store.Repos().Users.List(ctx)
	if err != nil {
		return nil, readErr(ctx, "list users", err)
	}
	return users, nil
}

// ToggleLock flips a user between active and locked. Locking revokes the
// user's refresh sessions.
func (s *StaffService) ToggleLock(ctx context.Context, id auth.Identity, userID string) (models.User, error) {
	if err := requireStaff(id); err != nil {
		return models.User{}, err
	}
	u, err := s.mutate(ctx, id, userID, "status_changed", func(u *models.User) error {
		if u.Role == models.RoleAdmin {
			return apperr.ErrForbidden
		}
		if u.Status == models.UserActive {
			u.Status = models.UserLocked
		} else {
			u.Status = models.UserActive
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	if u.Status == models.UserLocked {
		if err := s.sessions.RevokeAll(ctx, u.ID); err != nil {
			return models.User{}, readErr(ctx, "revoke sessions", err)
		}
	}
	return u, nil
}

// SetManager promotes a renter to manager or demotes a manager back to user.
// The target is looked up by email when given, otherwise by id.
func (s *StaffService) SetManager(ctx context.Context, id auth.Identity, email, userID string, promote bool) (models.User, error) {
	if !id.HasRole(models.RoleBoss, models.RoleAdmin) {
		return models.User{}, apperr.ErrForbidden
	}
	target, err := s.resolve(ctx, email, userID)
	if err != nil {
		return models.User{}, err
	}
	from, to := models.RoleUser, models.RoleManager
	if !promote {
		from, to = models.RoleManager, models.RoleUser
	}
	return s.changeRole(ctx, id, target.ID, from, to)
}

func (s *StaffService) ListBosses(ctx context.Context, id auth.Identity) ([]models.User, error) {
	if !id.HasRole(models.RoleAdmin) {
		return nil, apperr.ErrForbidden
	}
	users, err := s.store.Repos().Users.ListByRole(ctx, models.RoleBoss)
	if err != nil {
		return nil, readErr(ctx, "list bosses", err)
	}
	return users, nil
}

func (s *StaffService) PromoteBoss(ctx context.Context, id auth.Identity, email string) (models.User, error) {
	if !id.HasRole(models.RoleAdmin) {
		return models.User{}, apperr.ErrForbidden
	}
	target, err := s.resolve(ctx, email, "")
	if err != nil {
		return models.User{}, err
	}
	return s.mutate(ctx, id, target.ID, "promoted_boss", func(u *models.User) error {
		if u.Role == models.RoleAdmin {
			return apperr.ErrForbidden
		}
		u.Role = models.RoleBoss
		return nil
	})
}

func (s *StaffService) DemoteBoss(ctx context.Context, id auth.Identity, userID string) (models.User, error) {
	if !id.HasRole(models.RoleAdmin) {
		return models.User{}, apperr.ErrForbidden
	}
	return s.changeRole(ctx, id, userID, models.RoleBoss, models.RoleUser)
}

// CreateUser lets an admin open an account with any role.
func (s *StaffService) CreateUser(ctx context.Context, id auth.Identity, req CreateUserRequest) (models.User, error) {
	if !id.HasRole(models.RoleAdmin) {
		return models.User{}, apperr.ErrForbidden
	}
	if len(req.Password) < minPasswordLength {
		return models.User{}, apperr.Validation("password must be at least 6 characters")
	}
	u := models.User{Name: req.Name, Email: req.Email, Role: req.Role}
	if err := u.Validate(); err != nil {
		return models.User{}, apperr.Validation(err.Error())
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}
	u.PasswordHash = hash
	if err := createUser(ctx, s.store, id, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *StaffService) DeleteUser(ctx context.Context, id auth.Identity, userID string) error {
	if !id.HasRole(models.RoleAdmin) {
		return apperr.ErrForbidden
	}
	if userID == id.UserID {
		return apperr.ErrForbidden.WithMsg("You cannot delete your own account")
	}
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		// Open rentals are cancelled first so held cars go back on the market.
		rentals, err := r.Rentals.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, rt := range rentals {
			if rt.Status.Terminal() {
				continue
			}
			if err := finish(ctx, r, id, rt, models.RentalCancelled); err != nil {
				return err
			}
		}
		if err := r.Users.Delete(ctx, userID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return apperr.ErrUserNotFound
			}
			return err
		}
		return audit(ctx, r, id, "user", userID, "deleted", nil)
	})
	if err != nil {
		return txErr(ctx, "delete user", err)
	}
	if err := s.sessions.RevokeAll(ctx, userID); err != nil {
		return readErr(ctx, "revoke sessions", err)
	}
	return nil
}

// Reset wipes rentals, reviews, cars and every account except admins.
func (s *StaffService) Reset(ctx context.Context, id auth.Identity) error {
	if !id.HasRole(models.RoleAdmin) {
		return apperr.ErrForbidden
	}
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		if err := r.Reviews.DeleteAll(ctx); err != nil {
			return err
		}
		if err := r.Rentals.DeleteAll(ctx); err != nil {
			return err
		}
		if err := r.Cars.DeleteAll(ctx); err != nil {
			return err
		}
		if err := r.Users.DeleteAllExcept(ctx, models.RoleAdmin); err != nil {
			return err
		}
		return audit(ctx, r, id, "system", "all", "reset", nil)
	})
	return txErr(ctx, "reset system", err)
}

func (s *StaffService) resolve(ctx context.Context, email, userID string) (models.User, error) {
	r := s.store.Repos()
	if email != "" {
		u, err := r.Users.GetByEmail(ctx, models.NormalizeEmail(email))
		if errors.Is(err, repo.ErrNotFound) {
			return models.User{}, apperr.ErrUserNotFound
		}
		if err != nil {
			return models.User{}, readErr(ctx, "get user", err)
		}
		return u, nil
	}
	if userID == "" {
		return models.User{}, apperr.Validation("email or userId is required")
	}
	return getUser(ctx, r, userID)
}

func (s *StaffService) changeRole(ctx context.Context, id auth.Identity, userID string, from, to models.Role) (models.User, error) {
	return s.mutate(ctx, id, userID, "role_changed", func(u *models.User) error {
		if u.Role != from {
			return apperr.ErrForbidden.WithMsg("User is not a " + string(from))
		}
		u.Role = to
		return nil
	})
}

func (s *StaffService) mutate(ctx context.Context, id auth.Identity, userID, action string, change func(*models.User) error) (models.User, error) {
	var u models.User
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		var err error
		if u, err = getUser(ctx, r, userID); err != nil {
			return err
		}
		before := u
		if err := change(&u); err != nil {
			return err
		}
		if err := r.Users.Update(ctx, u); err != nil {
			return err
		}
		return audit(ctx, r, id, "user", u.ID, action, map[string]any{
			"role":   string(u.Role),
			"status": string(u.Status),
			"was":    string(before.Role) + "/" + string(before.Status),
		})
	})
	if err != nil {
		return models.User{}, txErr(ctx, "update user", err)
	}
	return u, nil
}

// SeedAdmin creates the bootstrap admin account unless the email is already
// registered. It reports whether an account was created.
func (s *StaffService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.store.Repos().Users.GetByEmail(ctx, models.NormalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return false, readErr(ctx, "seed admin", err)
	}
	system := auth.Identity{Role: models.RoleAdmin}
	_, err = s.CreateUser(ctx, system, CreateUserRequest{Name: "Administrator", Email: email, Password: password, Role: models.RoleAdmin})
	if err != nil {
		return false, err
	}
	return true, nil
}
