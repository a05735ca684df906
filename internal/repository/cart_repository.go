package repository

import (
	"context"

	"app/internal/domain/model"
)

// カートの読み書き。検証はしない（不変条件はCartUsecaseが守ってから渡す）。
// userIDが空のときは匿名バケット（ログイン前のみ到達）。
type CartRepository interface {
	// 保存が無ければ空スライスを返す
	Load(ctx context.Context, userID string) ([]model.CartLine, error)
	// カート全体を並び順ごと置き換える
	Save(ctx context.Context, userID string, lines []model.CartLine) error
}
