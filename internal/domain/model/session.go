package model

// 現在ログイン中のユーザーID（1行だけ持つ）。
// 空文字は未ログイン。
type Session struct {
	ID     int64  `gorm:"primaryKey" json:"-"`
	UserID string `gorm:"type:varchar(64);not null" json:"user_id"`
}
