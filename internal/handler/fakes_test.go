package handler

import (
	"context"
	"errors"
	"sync"

	"github.com/chargehub/chargehub-go/internal/model"
	"github.com/chargehub/chargehub-go/internal/repository"
)

type memUserRepo struct {
	mu    sync.Mutex
	users []model.User
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email })
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ID == id })
}

func (r *memUserRepo) find(match func(model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type memStationRepo struct {
	mu       sync.Mutex
	stations []model.Station
	err      error
}

func (r *memStationRepo) Create(ctx context.Context, s *model.Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.stations = append(r.stations, *s)
	return nil
}

func (r *memStationRepo) List(ctx context.Context, filter model.StationFilter) ([]model.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []model.Station{}
	for _, s := range r.stations {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.ConnectorType != "" && s.ConnectorType != filter.ConnectorType {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *memStationRepo) GetByID(ctx context.Context, id string) (*model.Station, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range r.stations {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, repository.ErrStationNotFound
}

func (r *memStationRepo) Update(ctx context.Context, s *model.Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for i := range r.stations {
		if r.stations[i].ID == s.ID {
			owner := r.stations[i].OwnerID
			r.stations[i] = *s
			r.stations[i].OwnerID = owner
		}
	}
	return nil
}

func (r *memStationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for i := range r.stations {
		if r.stations[i].ID == id {
			r.stations = append(r.stations[:i], r.stations[i+1:]...)
			return nil
		}
	}
	return repository.ErrStationNotFound
}

func (r *memStationRepo) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(ctx context.Context) error { return p.err }

var errDatabaseDown = errors.New("database down")
