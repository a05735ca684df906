package model

import "time"

// Userはログインキーのemailで識別する。
// パスワードは周辺アプリの設計どおり平文で保持・比較する。
type User struct {
	Email       string    `gorm:"primaryKey;type:varchar(255)" json:"email"`
	DisplayName string    `gorm:"type:varchar(255);not null" json:"display_name"`
	Password    string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
