package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/events"
	"github.com/baharkarakas/rentacar-backend/internal/models"
	"github.com/baharkarakas/rentacar-backend/internal/repository/repotest"
)

type recorder struct {
	mu  sync.Mutex
	got []events.Event
}

func (r *recorder) Emit(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, ev)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.got))
	for _, ev := range r.got {
		out = append(out, ev.Type)
	}
	return out
}

// memSessions is an in-process auth.Sessions.
type memSessions struct {
	mu   sync.Mutex
	live map[string]bool
}

func newMemSessions() *memSessions { return &memSessions{live: map[string]bool{}} }

func (m *memSessions) Save(_ context.Context, userID, tokenID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live[userID+"/"+tokenID] = true
	return nil
}

func (m *memSessions) Active(_ context.Context, userID, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live[userID+"/"+tokenID], nil
}

func (m *memSessions) Revoke(_ context.Context, userID, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, userID+"/"+tokenID)
	return nil
}

func (m *memSessions) RevokeAll(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.live {
		if len(k) > len(userID) && k[:len(userID)+1] == userID+"/" {
			delete(m.live, k)
		}
	}
	return nil
}

func (m *memSessions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

var (
	renter  = auth.Identity{UserID: "user-1", Role: models.RoleUser}
	other   = auth.Identity{UserID: "user-2", Role: models.RoleUser}
	manager = auth.Identity{UserID: "manager-1", Role: models.RoleManager}
	boss    = auth.Identity{UserID: "boss-1", Role: models.RoleBoss}
	admin   = auth.Identity{UserID: "admin-1", Role: models.RoleAdmin}
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedCar(t *testing.T, store *repotest.Store, brand, model string, price float64) models.Car {
	t.Helper()
	c := models.Car{
		Brand:       brand,
		Model:       model,
		Year:        2022,
		PricePerDay: price,
		IsAvailable: true,
	}
	c.ApplyDefaults()
	require.NoError(t, store.Repos().Cars.Create(context.Background(), &c))
	return c
}

func seedUser(t *testing.T, store *repotest.Store, id auth.Identity, email string) models.User {
	t.Helper()
	u := models.User{ID: id.UserID, Name: email, Email: email, Role: id.Role, Status: models.UserActive}
	require.NoError(t, store.Repos().Users.Create(context.Background(), &u))
	return u
}

func getCar(t *testing.T, store *repotest.Store, id string) models.Car {
	t.Helper()
	c, err := store.Repos().Cars.GetByID(context.Background(), id)
	require.NoError(t, err)
	return c
}

func getRentalByID(t *testing.T, store *repotest.Store, id string) models.Rental {
	t.Helper()
	rt, err := store.Repos().Rentals.GetByID(context.Background(), id)
	require.NoError(t, err)
	return rt
}
