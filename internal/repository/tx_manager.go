package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Catalog() CatalogRepository
	Carts() CartRepository
	Users() UserRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// 1回のエンジン操作はこの中で完結させる（カート保存と在庫更新を一緒に確定する）。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
