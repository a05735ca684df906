package localstore

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// 保存形。stockは生JSONのまま持ち、読めない値は0として扱う。
type productRecord struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	SellerID   string          `json:"seller_id"`
	SellerName string          `json:"seller_name"`
	ImageURL   string          `json:"image_url"`
	Stock      json.RawMessage `json:"stock"`
}

// stockを整数として読む。数値でも "3" のような文字列でも受け、読めなければ0。
func stockValue(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		// 先頭の数字部分だけ拾う（"3 em estoque" のような値も救う）
		end := 0
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		if end > 0 {
			if n, err := strconv.ParseInt(s[:end], 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

func rawStock(n int64) json.RawMessage {
	return json.RawMessage(strconv.FormatInt(n, 10))
}

func (rec productRecord) toModel() model.Product {
	return model.Product{
		ID:         rec.ID,
		Name:       rec.Name,
		Price:      rec.Price,
		SellerID:   rec.SellerID,
		SellerName: rec.SellerName,
		ImageURL:   rec.ImageURL,
		Stock:      stockValue(rec.Stock),
	}
}

func toRecord(p model.Product) productRecord {
	return productRecord{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		SellerID:   p.SellerID,
		SellerName: p.SellerName,
		ImageURL:   p.ImageURL,
		Stock:      rawStock(p.Stock),
	}
}

func (s *Store) readProductsLocked() ([]productRecord, error) {
	var recs []productRecord
	if _, err := s.getLocked(productsKey, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *Store) writeProductsLocked(recs []productRecord) error {
	return s.setLocked(productsKey, recs)
}

func (s *Store) listProductsLocked() ([]model.Product, error) {
	recs, err := s.readProductsLocked()
	if err != nil {
		return nil, err
	}
	out := make([]model.Product, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toModel())
	}
	return out, nil
}

func (s *Store) findProductLocked(name string) (model.Product, error) {
	recs, err := s.readProductsLocked()
	if err != nil {
		return model.Product{}, err
	}
	for _, rec := range recs {
		if rec.Name == name {
			return rec.toModel(), nil
		}
	}
	return model.Product{}, repo.ErrNotFound
}

func (s *Store) createProductLocked(p model.Product) (model.Product, error) {
	recs, err := s.readProductsLocked()
	if err != nil {
		return model.Product{}, err
	}
	recs = append(recs, toRecord(p))
	if err := s.writeProductsLocked(recs); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (s *Store) getStockLocked(name string) (int64, error) {
	recs, err := s.readProductsLocked()
	if err != nil {
		return 0, err
	}
	for _, rec := range recs {
		if rec.Name == name {
			return stockValue(rec.Stock), nil
		}
	}
	// 商品が無いときは0扱い
	return 0, nil
}

// fnで現在在庫から新在庫を決めて書き戻す
func (s *Store) updateStockLocked(name string, fn func(current int64) (int64, error)) (int64, error) {
	recs, err := s.readProductsLocked()
	if err != nil {
		return 0, err
	}
	for i, rec := range recs {
		if rec.Name != name {
			continue
		}
		next, err := fn(stockValue(rec.Stock))
		if err != nil {
			return 0, err
		}
		recs[i].Stock = rawStock(next)
		if err := s.writeProductsLocked(recs); err != nil {
			return 0, err
		}
		return next, nil
	}
	return 0, repo.ErrNotFound
}

func (s *Store) decrementStockLocked(name string, amount int64) (int64, error) {
	return s.updateStockLocked(name, func(current int64) (int64, error) {
		if amount > current {
			return 0, repo.ErrInsufficientStock
		}
		return current - amount, nil
	})
}

func (s *Store) incrementStockLocked(name string, amount int64) error {
	_, err := s.updateStockLocked(name, func(current int64) (int64, error) {
		return current + amount, nil
	})
	return err
}

func (s *Store) setStockLocked(name string, newStock int64) error {
	_, err := s.updateStockLocked(name, func(int64) (int64, error) {
		return newStock, nil
	})
	return err
}

// CatalogLocalRepository は直接利用（Txの外）向けのロック付き実装。
type CatalogLocalRepository struct {
	s *Store
}

func NewCatalogLocalRepository(s *Store) *CatalogLocalRepository {
	return &CatalogLocalRepository{s: s}
}

func (r *CatalogLocalRepository) List(ctx context.Context) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.listProductsLocked()
}

func (r *CatalogLocalRepository) FindByName(ctx context.Context, name string) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.findProductLocked(name)
}

func (r *CatalogLocalRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	created, err := r.s.createProductLocked(p)
	if err != nil {
		return model.Product{}, err
	}
	if err := r.s.flushLocked(); err != nil {
		return model.Product{}, err
	}
	return created, nil
}

func (r *CatalogLocalRepository) GetStock(ctx context.Context, name string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.getStockLocked(name)
}

func (r *CatalogLocalRepository) DecrementStock(ctx context.Context, name string, amount int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	next, err := r.s.decrementStockLocked(name, amount)
	if err != nil {
		return 0, err
	}
	if err := r.s.flushLocked(); err != nil {
		return 0, err
	}
	return next, nil
}

func (r *CatalogLocalRepository) IncrementStock(ctx context.Context, name string, amount int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.incrementStockLocked(name, amount); err != nil {
		return err
	}
	return r.s.flushLocked()
}

func (r *CatalogLocalRepository) SetStock(ctx context.Context, name string, newStock int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.setStockLocked(name, newStock); err != nil {
		return err
	}
	return r.s.flushLocked()
}
