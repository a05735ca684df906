package localstore

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// usersキーの保存形（email → 本体）
type userRecord struct {
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

func (s *Store) readUsersLocked() (map[string]userRecord, error) {
	users := map[string]userRecord{}
	if _, err := s.getLocked(usersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) findUserLocked(email string) (model.User, error) {
	users, err := s.readUsersLocked()
	if err != nil {
		return model.User{}, err
	}
	rec, ok := users[email]
	if !ok {
		return model.User{}, repo.ErrNotFound
	}
	return model.User{
		Email:       email,
		DisplayName: rec.DisplayName,
		Password:    rec.Password,
	}, nil
}

func (s *Store) createUserLocked(u model.User) (model.User, error) {
	users, err := s.readUsersLocked()
	if err != nil {
		return model.User{}, err
	}
	users[u.Email] = userRecord{
		DisplayName: u.DisplayName,
		Password:    u.Password,
	}
	if err := s.setLocked(usersKey, users); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// UserLocalRepository は直接利用（Txの外）向けのロック付き実装。
type UserLocalRepository struct {
	s *Store
}

func NewUserLocalRepository(s *Store) *UserLocalRepository {
	return &UserLocalRepository{s: s}
}

func (r *UserLocalRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.findUserLocked(email)
}

func (r *UserLocalRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	created, err := r.s.createUserLocked(u)
	if err != nil {
		return model.User{}, err
	}
	if err := r.s.flushLocked(); err != nil {
		return model.User{}, err
	}
	return created, nil
}
