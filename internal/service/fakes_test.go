package service

import (
	"context"
	"sync"

	"github.com/chargehub/chargehub-go/internal/model"
	"github.com/chargehub/chargehub-go/internal/repository"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]model.User
	err   error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]model.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
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
			owner, created := r.stations[i].OwnerID, r.stations[i].CreatedAt
			r.stations[i] = *s
			r.stations[i].OwnerID, r.stations[i].CreatedAt = owner, created
			return nil
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

func (r *memStationRepo) get(id string) (model.Station, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stations {
		if s.ID == id {
			return s, true
		}
	}
	return model.Station{}, false
}
