package localstore

import "context"

// SessionLocalRepository は current_user キーの読み書き。
// 未ログインはキー自体を消す（元アプリのremoveItemと同じ）。
type SessionLocalRepository struct {
	s *Store
}

func NewSessionLocalRepository(s *Store) *SessionLocalRepository {
	return &SessionLocalRepository{s: s}
}

func (r *SessionLocalRepository) Current(ctx context.Context) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var userID string
	if _, err := r.s.getLocked(currentUserKey, &userID); err != nil {
		return "", err
	}
	return userID, nil
}

func (r *SessionLocalRepository) SetCurrent(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.setLocked(currentUserKey, userID); err != nil {
		return err
	}
	return r.s.flushLocked()
}

func (r *SessionLocalRepository) Clear(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.data, currentUserKey)
	return r.s.flushLocked()
}
