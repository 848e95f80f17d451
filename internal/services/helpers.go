package services

import (
	"context"
	"errors"

	"github.com/baharkarakas/rentacar-backend/internal/apperr"
	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/logger"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
)

// txErr classifies an error that escaped WithTx. Domain rejections pass
// through; anything else aborted the transaction.
func txErr(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	logger.FromContext(ctx).Error(op+" failed", "err", err)
	return apperr.TxFailed(err)
}

// readErr maps a failed read outside a transaction.
func readErr(ctx context.Context, op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	logger.FromContext(ctx).Error(op+" failed", "err", err)
	return apperr.Internal(err)
}

func audit(ctx context.Context, r repo.Repositories, actor auth.Identity, entityType, entityID, action string, details map[string]any) error {
	return r.AuditLogs.Create(ctx, models.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actor.UserID,
		Details:    details,
	})
}

func requireStaff(id auth.Identity) error {
	if !id.Staff() {
		return apperr.ErrForbidden
	}
	return nil
}

// lookup memoizes the car and user joins of one listing.
type lookup struct {
	r     repo.Repositories
	cars  map[string]*models.Car
	users map[string]*models.User
}

func newLookup(r repo.Repositories) *lookup {
	return &lookup{r: r, cars: map[string]*models.Car{}, users: map[string]*models.User{}}
}

// car returns nil for a car that no longer exists.
func (l *lookup) car(ctx context.Context, id string) (*models.Car, error) {
	if c, ok := l.cars[id]; ok {
		return c, nil
	}
	c, err := l.r.Cars.GetByID(ctx, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		l.cars[id] = nil
		return nil, nil
	case err != nil:
		return nil, err
	}
	l.cars[id] = &c
	return &c, nil
}

func (l *lookup) user(ctx context.Context, id string) (*models.User, error) {
	if u, ok := l.users[id]; ok {
		return u, nil
	}
	u, err := l.r.Users.GetByID(ctx, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		l.users[id] = nil
		return nil, nil
	case err != nil:
		return nil, err
	}
	l.users[id] = &u
	return &u, nil
}

func (l *lookup) carSummary(ctx context.Context, id string) (*models.CarSummary, error) {
	c, err := l.car(ctx, id)
	if c == nil || err != nil {
		return nil, err
	}
	return c.Summary(), nil
}

func (l *lookup) userSummary(ctx context.Context, id string) (*models.UserSummary, error) {
	u, err := l.user(ctx, id)
	if u == nil || err != nil {
		return nil, err
	}
	return u.Summary(), nil
}
