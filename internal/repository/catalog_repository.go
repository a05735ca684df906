package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 在庫が要求量に足りない
var ErrInsufficientStock = errors.New("insufficient stock")

// 商品と在庫の永続化（保存・取得・在庫増減）だけを約束。
// 在庫の非負はDecrementStockが守る。所有者チェックや新値の検証は呼び出し側。
type CatalogRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	FindByName(ctx context.Context, name string) (model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)

	// 現在在庫を返す。商品が無い・値が読めない場合は0。
	GetStock(ctx context.Context, name string) (int64, error)

	// amount > 現在在庫 なら ErrInsufficientStock。成功時は新しい在庫を返す。
	DecrementStock(ctx context.Context, name string, amount int64) (int64, error)

	// 在庫戻し。商品が既に無い場合は ErrNotFound。
	IncrementStock(ctx context.Context, name string, amount int64) error

	// 在庫の現在値を設定
	SetStock(ctx context.Context, name string, newStock int64) error
}
