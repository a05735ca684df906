package repository

import "context"

// 現在ログイン中のユーザーIDを1つだけ保持する。
type SessionRepository interface {
	// 未ログインなら空文字
	Current(ctx context.Context) (string, error)
	SetCurrent(ctx context.Context, userID string) error
	Clear(ctx context.Context) error
}
