package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

// セッションは1行だけ使う
const sessionRowID int64 = 1

type SessionGormRepository struct {
	db *gorm.DB
}

// DI
func NewSessionGormRepository(db *gorm.DB) *SessionGormRepository {
	return &SessionGormRepository{db: db}
}

// 現在のユーザーID。未ログインなら空文字。
func (r *SessionGormRepository) Current(ctx context.Context) (string, error) {
	var s model.Session

	err := r.db.WithContext(ctx).
		Where("id = ?", sessionRowID).
		First(&s).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.UserID, nil
}

func (r *SessionGormRepository) SetCurrent(ctx context.Context, userID string) error {
	s := model.Session{ID: sessionRowID, UserID: userID}
	return r.db.WithContext(ctx).Save(&s).Error
}

func (r *SessionGormRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("id = ?", sessionRowID).
		Delete(&model.Session{}).Error
}
