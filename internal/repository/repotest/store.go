// Package repotest provides an in-memory repository.Store for service and
// handler tests. Transactions run one at a time against a private copy of
// the data that is swapped in only when fn succeeds.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baharkarakas/rentacar-backend/internal/models"
	repo "github.com/baharkarakas/rentacar-backend/internal/repository"
)

type state struct {
	mu      sync.RWMutex
	faults  *faults
	users   map[string]models.User
	cars    map[string]models.Car
	rentals map[string]models.Rental
	reviews map[string]models.Review
	audit   []models.AuditLog
}

func newState(f *faults) *state {
	return &state{
		faults:  f,
		users:   map[string]models.User{},
		cars:    map[string]models.Car{},
		rentals: map[string]models.Rental{},
		reviews: map[string]models.Review{},
	}
}

func (s *state) clone() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := newState(s.faults)
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.cars {
		v.Gallery = append([]string(nil), v.Gallery...)
		c.cars[k] = v
	}
	for k, v := range s.rentals {
		c.rentals[k] = v
	}
	for k, v := range s.reviews {
		c.reviews[k] = v
	}
	c.audit = append([]models.AuditLog(nil), s.audit...)
	return c
}

func (s *state) replace(from *state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.cars, s.rentals, s.reviews, s.audit = from.users, from.cars, from.rentals, from.reviews, from.audit
}

type faults struct {
	mu  sync.Mutex
	ops map[string]error
}

// check returns the error injected for op, consuming it.
func (f *faults) check(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err, ok := f.ops[op]
	if ok {
		delete(f.ops, op)
	}
	return err
}

type Store struct {
	txMu   sync.Mutex
	live   *state
	faults *faults
}

func New() *Store {
	f := &faults{ops: map[string]error{}}
	return &Store{live: newState(f), faults: f}
}

// Fail makes the next call of op (for example "rentals.Create") return err.
func (s *Store) Fail(op string, err error) {
	s.faults.mu.Lock()
	defer s.faults.mu.Unlock()
	s.faults.ops[op] = err
}

func (s *Store) Repos() repo.Repositories { return bind(s.live) }

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, r repo.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	work := s.live.clone()
	if err := fn(ctx, bind(work)); err != nil {
		return err
	}
	if err := s.faults.check("commit"); err != nil {
		return err
	}
	s.live.replace(work)
	return nil
}

func (s *Store) Close(context.Context) error { return nil }

// AuditLogs returns every committed audit entry in insertion order.
func (s *Store) AuditLogs() []models.AuditLog {
	s.live.mu.RLock()
	defer s.live.mu.RUnlock()
	return append([]models.AuditLog(nil), s.live.audit...)
}

func bind(st *state) repo.Repositories {
	return repo.Repositories{
		Users:     usersRepo{st},
		Cars:      carsRepo{st},
		Rentals:   rentalsRepo{st},
		Reviews:   reviewsRepo{st},
		AuditLogs: auditLogsRepo{st},
	}
}

func stamp(id *string, created, updated *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

func newestFirst[T any](items []T, at func(T) time.Time, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		ai, aj := at(items[i]), at(items[j])
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return id(items[i]) < id(items[j])
	})
}

type carsRepo struct{ st *state }

func (r carsRepo) Create(_ context.Context, c *models.Car) error {
	if err := r.st.faults.check("cars.Create"); err != nil {
		return err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if _, ok := r.st.cars[c.ID]; ok {
		return repo.ErrDuplicate
	}
	r.st.cars[c.ID] = *c
	return nil
}

func (r carsRepo) GetByID(_ context.Context, id string) (models.Car, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	c, ok := r.st.cars[id]
	if !ok {
		return models.Car{}, repo.ErrNotFound
	}
	return c, nil
}

func (r carsRepo) GetForUpdate(ctx context.Context, id string) (models.Car, error) {
	return r.GetByID(ctx, id)
}

func (r carsRepo) List(_ context.Context, f repo.CarFilter) ([]models.Car, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	out := []models.Car{}
	for _, c := range r.st.cars {
		if f.AvailableOnly && !c.Rentable() {
			continue
		}
		if f.FeaturedOnly && !c.Featured {
			continue
		}
		out = append(out, c)
	}
	newestFirst(out, func(c models.Car) time.Time { return c.CreatedAt }, func(c models.Car) string { return c.ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r carsRepo) Update(_ context.Context, c models.Car) error {
	if err := r.st.faults.check("cars.Update"); err != nil {
		return err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	cur, ok := r.st.cars[c.ID]
	if !ok {
		return repo.ErrNotFound
	}
	c.IsAvailable, c.Status = cur.IsAvailable, cur.Status
	c.RatingsAverage, c.RatingsQuantity = cur.RatingsAverage, cur.RatingsQuantity
	c.CreatedAt, c.UpdatedAt = cur.CreatedAt, time.Now().UTC()
	r.st.cars[c.ID] = c
	return nil
}

func (r carsRepo) Reserve(_ context.Context, id string) error {
	if err := r.st.faults.check("cars.Reserve"); err != nil {
		return err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c, ok := r.st.cars[id]
	if !ok || !c.Rentable() {
		return repo.ErrConflict
	}
	c.IsAvailable = false
	r.st.cars[id] = c
	return nil
}

func (r carsRepo) Release(_ context.Context, id string) error {
	if err := r.st.faults.check("cars.Release"); err != nil {
		return err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c, ok := r.st.cars[id]
	if !ok || c.Status == models.CarRemoved {
		return nil
	}
	c.IsAvailable = true
	r.st.cars[id] = c
	return nil
}

func (r carsRepo) Remove(_ context.Context, id string) (models.Car, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c, ok := r.st.cars[id]
	if !ok {
		return models.Car{}, repo.ErrNotFound
	}
	c.Status, c.IsAvailable = models.CarRemoved, false
	r.st.cars[id] = c
	return c, nil
}

func (r carsRepo) SetRating(_ context.Context, id string, average float64, quantity int) error {
	if err := r.st.faults.check("cars.SetRating"); err != nil {
		return err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c, ok := r.st.cars[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.RatingsAverage, c.RatingsQuantity = average, quantity
	r.st.cars[id] = c
	return nil
}

func (r carsRepo) CountAvailable(_ context.Context) (int64, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	var n int64
	for _, c := range r.st.cars {
		if c.Rentable() {
			n++
		}
	}
	return n, nil
}

func (r carsRepo) DeleteAll(context.Context) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.cars = map[string]models.Car{}
	return nil
}

type rentalsRepo struct{ st *state }

func (r rentalsRepo) filter(keep func(models.Rental) bool) []models.Rental {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	out := []models.Rental{}
	for _, rt := range r.st.rentals {
		if keep(rt) {
			out = append(out, rt)
		}
	}
	return out
}

func (r rentalsRepo) Create(_ context.Context, rt *models.Rental) error {
	if err := r.st.faults.check("rentals.Create"); err != nil {
		return err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	stamp(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
	r.st.rentals[rt.ID] = *rt
	return nil
}

func (r rentalsRepo) GetByID(_ context.Context, id string) (models.Rental, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	rt, ok := r.st.rentals[id]
	if !ok {
		return models.Rental{}, repo.ErrNotFound
	}
	return rt, nil
}

func (r rentalsRepo) UpdateStatus(_ context.Context, id string, from, to models.RentalStatus) error {
	if err := r.st.faults.check("rentals.UpdateStatus"); err != nil {
		return err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	rt, ok := r.st.rentals[id]
	if !ok || rt.Status != from {
		return repo.ErrConflict
	}
	rt.Status, rt.UpdatedAt = to, time.Now().UTC()
	r.st.rentals[id] = rt
	return nil
}

func (r rentalsRepo) ListByUser(_ context.Context, userID string) ([]models.Rental, error) {
	out := r.filter(func(rt models.Rental) bool { return rt.UserID == userID })
	newestFirst(out, func(rt models.Rental) time.Time { return rt.StartDate }, func(rt models.Rental) string { return rt.ID })
	return out, nil
}

func (r rentalsRepo) ListByStatus(_ context.Context, status models.RentalStatus) ([]models.Rental, error) {
	out := r.filter(func(rt models.Rental) bool { return rt.Status == status })
	newestFirst(out, func(rt models.Rental) time.Time { return rt.EndDate }, func(rt models.Rental) string { return rt.ID })
	return out, nil
}

func (r rentalsRepo) All(_ context.Context) ([]models.Rental, error) {
	out := r.filter(func(models.Rental) bool { return true })
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r rentalsRepo) ExistsCompleted(_ context.Context, userID, carID string) (bool, error) {
	out := r.filter(func(rt models.Rental) bool {
		return rt.UserID == userID && rt.CarID == carID && rt.Status == models.RentalCompleted
	})
	return len(out) > 0, nil
}

func (r rentalsRepo) CountByStatus(_ context.Context, status models.RentalStatus) (int64, error) {
	return int64(len(r.filter(func(rt models.Rental) bool { return rt.Status == status }))), nil
}

func (r rentalsRepo) TotalRevenue(_ context.Context) (float64, error) {
	var total float64
	for _, rt := range r.filter(func(models.Rental) bool { return true }) {
		total += rt.TotalCost
	}
	return total, nil
}

func (r rentalsRepo) DeleteAll(context.Context) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.rentals = map[string]models.Rental{}
	return nil
}

type reviewsRepo struct{ st *state }

func (r reviewsRepo) sorted(keep func(models.Review) bool) []models.Review {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	out := []models.Review{}
	for _, rv := range r.st.reviews {
		if keep(rv) {
			out = append(out, rv)
		}
	}
	newestFirst(out, func(rv models.Review) time.Time { return rv.CreatedAt }, func(rv models.Review) string { return rv.ID })
	return out
}

func (r reviewsRepo) Create(_ context.Context, rv *models.Review) error {
	if err := r.st.faults.check("reviews.Create"); err != nil {
		return err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, existing := range r.st.reviews {
		if existing.UserID == rv.UserID && existing.CarID == rv.CarID {
			return repo.ErrDuplicate
		}
	}
	stamp(&rv.ID, &rv.CreatedAt, nil)
	r.st.reviews[rv.ID] = *rv
	return nil
}

func (r reviewsRepo) Find(_ context.Context, userID, carID string) (models.Review, error) {
	out := r.sorted(func(rv models.Review) bool { return rv.UserID == userID && rv.CarID == carID })
	if len(out) == 0 {
		return models.Review{}, repo.ErrNotFound
	}
	return out[0], nil
}

func (r reviewsRepo) ListByCar(_ context.Context, carID string) ([]models.Review, error) {
	return r.sorted(func(rv models.Review) bool { return rv.CarID == carID }), nil
}

func (r reviewsRepo) ListByUser(_ context.Context, userID string) ([]models.Review, error) {
	return r.sorted(func(rv models.Review) bool { return rv.UserID == userID }), nil
}

func (r reviewsRepo) Recent(_ context.Context, limit int) ([]models.Review, error) {
	out := r.sorted(func(models.Review) bool { return true })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r reviewsRepo) DeleteAll(context.Context) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.reviews = map[string]models.Review{}
	return nil
}

type usersRepo struct{ st *state }

func (r usersRepo) sorted(keep func(models.User) bool) []models.User {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	out := []models.User{}
	for _, u := range r.st.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	newestFirst(out, func(u models.User) time.Time { return u.CreatedAt }, func(u models.User) string { return u.ID })
	return out
}

func (r usersRepo) Create(_ context.Context, u *models.User) error {
	if err := r.st.faults.check("users.Create"); err != nil {
		return err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, existing := range r.st.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	stamp(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	r.st.users[u.ID] = *u
	return nil
}

func (r usersRepo) GetByID(_ context.Context, id string) (models.User, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	u, ok := r.st.users[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r usersRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	out := r.sorted(func(u models.User) bool { return u.Email == email })
	if len(out) == 0 {
		return models.User{}, repo.ErrNotFound
	}
	return out[0], nil
}

func (r usersRepo) List(_ context.Context) ([]models.User, error) {
	return r.sorted(func(models.User) bool { return true }), nil
}

func (r usersRepo) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	return r.sorted(func(u models.User) bool { return u.Role == role }), nil
}

func (r usersRepo) CountByRole(_ context.Context, role models.Role) (int64, error) {
	return int64(len(r.sorted(func(u models.User) bool { return u.Role == role }))), nil
}

func (r usersRepo) Update(_ context.Context, u models.User) error {
	if err := r.st.faults.check("users.Update"); err != nil {
		return err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	cur, ok := r.st.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	for _, existing := range r.st.users {
		if existing.ID != u.ID && existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	u.CreatedAt, u.UpdatedAt = cur.CreatedAt, time.Now().UTC()
	r.st.users[u.ID] = u
	return nil
}

func (r usersRepo) Delete(_ context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.st.users, id)
	return nil
}

func (r usersRepo) DeleteAllExcept(_ context.Context, role models.Role) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for id, u := range r.st.users {
		if u.Role != role {
			delete(r.st.users, id)
		}
	}
	return nil
}

type auditLogsRepo struct{ st *state }

func (r auditLogsRepo) Create(_ context.Context, l models.AuditLog) error {
	if err := r.st.faults.check("audit_logs.Create"); err != nil {
		return err
	}
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	stamp(&l.ID, &l.CreatedAt, nil)
	r.st.audit = append(r.st.audit, l)
	return nil
}
