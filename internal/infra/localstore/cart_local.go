package localstore

import (
	"context"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

// カート明細の保存形（元アプリのカート配列と同じ並び・同じ情報）
type cartLineRecord struct {
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Seller      string          `json:"seller"`
	ImageRef    string          `json:"image_ref"`
	Quantity    int64           `json:"quantity"`
}

func (s *Store) loadCartLocked(userID string) ([]model.CartLine, error) {
	var recs []cartLineRecord
	if _, err := s.getLocked(cartKeyFor(userID), &recs); err != nil {
		return nil, err
	}

	lines := make([]model.CartLine, 0, len(recs))
	for i, rec := range recs {
		lines = append(lines, model.CartLine{
			Position:    i,
			ProductName: rec.ProductName,
			UnitPrice:   rec.UnitPrice,
			Seller:      rec.Seller,
			ImageRef:    rec.ImageRef,
			Quantity:    rec.Quantity,
		})
	}
	return lines, nil
}

func (s *Store) saveCartLocked(userID string, lines []model.CartLine) error {
	recs := make([]cartLineRecord, 0, len(lines))
	for _, ln := range lines {
		recs = append(recs, cartLineRecord{
			ProductName: ln.ProductName,
			UnitPrice:   ln.UnitPrice,
			Seller:      ln.Seller,
			ImageRef:    ln.ImageRef,
			Quantity:    ln.Quantity,
		})
	}
	return s.setLocked(cartKeyFor(userID), recs)
}

// CartLocalRepository は直接利用（Txの外）向けのロック付き実装。
type CartLocalRepository struct {
	s *Store
}

func NewCartLocalRepository(s *Store) *CartLocalRepository {
	return &CartLocalRepository{s: s}
}

func (r *CartLocalRepository) Load(ctx context.Context, userID string) ([]model.CartLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.loadCartLocked(userID)
}

func (r *CartLocalRepository) Save(ctx context.Context, userID string, lines []model.CartLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.saveCartLocked(userID, lines); err != nil {
		return err
	}
	return r.s.flushLocked()
}
