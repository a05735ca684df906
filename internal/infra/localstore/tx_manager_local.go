package localstore

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// Tx内で使うロック無し実装。外側のWithinTxがロックとflushを持つ。
type catalogTx struct{ s *Store }

func (r catalogTx) List(ctx context.Context) ([]model.Product, error) {
	return r.s.listProductsLocked()
}
func (r catalogTx) FindByName(ctx context.Context, name string) (model.Product, error) {
	return r.s.findProductLocked(name)
}
func (r catalogTx) Create(ctx context.Context, p model.Product) (model.Product, error) {
	return r.s.createProductLocked(p)
}
func (r catalogTx) GetStock(ctx context.Context, name string) (int64, error) {
	return r.s.getStockLocked(name)
}
func (r catalogTx) DecrementStock(ctx context.Context, name string, amount int64) (int64, error) {
	return r.s.decrementStockLocked(name, amount)
}
func (r catalogTx) IncrementStock(ctx context.Context, name string, amount int64) error {
	return r.s.incrementStockLocked(name, amount)
}
func (r catalogTx) SetStock(ctx context.Context, name string, newStock int64) error {
	return r.s.setStockLocked(name, newStock)
}

type cartTx struct{ s *Store }

func (r cartTx) Load(ctx context.Context, userID string) ([]model.CartLine, error) {
	return r.s.loadCartLocked(userID)
}
func (r cartTx) Save(ctx context.Context, userID string, lines []model.CartLine) error {
	return r.s.saveCartLocked(userID, lines)
}

type userTx struct{ s *Store }

func (r userTx) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.s.findUserLocked(email)
}
func (r userTx) Create(ctx context.Context, u model.User) (model.User, error) {
	return r.s.createUserLocked(u)
}

type txReposLocal struct{ s *Store }

func (r *txReposLocal) Catalog() repo.CatalogRepository { return catalogTx{s: r.s} }
func (r *txReposLocal) Carts() repo.CartRepository      { return cartTx{s: r.s} }
func (r *txReposLocal) Users() repo.UserRepository      { return userTx{s: r.s} }

// TxManagerLocal はデータのスナップショットで全置換スタイルのTxを実現する。
// fnがエラーならスナップショットへ戻し、ファイルへは書かない。
type TxManagerLocal struct {
	s *Store
}

func NewTxManagerLocal(s *Store) *TxManagerLocal {
	return &TxManagerLocal{s: s}
}

func (tm *TxManagerLocal) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	tm.s.mu.Lock()
	defer tm.s.mu.Unlock()

	snapshot := tm.s.cloneDataLocked()

	if err := fn(&txReposLocal{s: tm.s}); err != nil {
		tm.s.data = snapshot
		return err
	}
	return tm.s.flushLocked()
}
