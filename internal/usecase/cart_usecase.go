package usecase

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	"app/internal/money"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は在庫とカートの整合を守るエンジン。
// 1回の操作はTxの中で完結し、カート保存と在庫更新は必ず一緒に確定する。
type CartUsecase struct {
	tx repo.TransactionManager
}

// DI
func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

type CartLineOutput struct {
	ProductName string `json:"product_name"`
	Seller      string `json:"seller"`
	ImageRef    string `json:"image_ref"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int64  `json:"quantity"`
}

type CartOutput struct {
	Items []CartLineOutput `json:"items"`
	Total string           `json:"total"`
}

// カート追加の結果。カートと新しい在庫の両方を返す。
type AddToCartOutput struct {
	Cart        CartOutput `json:"cart"`
	Stock       int64      `json:"stock"`
	Purchasable bool       `json:"purchasable"`
}

type PurchaseSingleOutput struct {
	ProductName string `json:"product_name"`
	Stock       int64  `json:"stock"`
	Purchasable bool   `json:"purchasable"`
}

// 一括購入の明細ごとの結果
type LineOutcomeReason string

const (
	OutcomePurchased         LineOutcomeReason = "purchased"
	OutcomeProductNotFound   LineOutcomeReason = "product_not_found"
	OutcomeInsufficientStock LineOutcomeReason = "insufficient_stock"
)

type FailedLine struct {
	ProductName string            `json:"product_name"`
	Quantity    int64             `json:"quantity"`
	Reason      LineOutcomeReason `json:"reason"`
	// InsufficientStockのときだけ、その時点の在庫
	Available *int64 `json:"available,omitempty"`
}

type PurchaseAllOutput struct {
	FullSuccess bool             `json:"full_success"`
	Purchased   []CartLineOutput `json:"purchased"`
	Failed      []FailedLine     `json:"failed"`
}

// AddToCart はカートに1個追加し、在庫を1減らす。
// 未ログインなら ErrNotAuthenticated、在庫0なら ErrOutOfStock（どちらも無変更）。
// 同じ商品の明細があれば数量+1、無ければ追加時点の価格・出品者・画像を
// スナップショットした数量1の明細を末尾に足す。
func (u *CartUsecase) AddToCart(ctx context.Context, userID string, productName string) (AddToCartOutput, error) {
	if strings.TrimSpace(userID) == "" {
		return AddToCartOutput{}, ErrNotAuthenticated
	}

	var out AddToCartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		stock, err := r.Catalog().GetStock(ctx, productName)
		if err != nil {
			return err
		}
		if stock <= 0 {
			return ErrOutOfStock
		}

		//スナップショット用に商品本体を取る
		p, err := r.Catalog().FindByName(ctx, productName)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		lines, err := r.Carts().Load(ctx, userID)
		if err != nil {
			return err
		}

		found := false
		for i := range lines {
			if lines[i].ProductName == productName {
				lines[i].Quantity++
				found = true
				break
			}
		}
		if !found {
			lines = append(lines, model.CartLine{
				ProductName: p.Name,
				UnitPrice:   p.Price,
				Seller:      p.SellerName,
				ImageRef:    p.ImageURL,
				Quantity:    1,
			})
		}

		newStock, err := r.Catalog().DecrementStock(ctx, productName, 1)
		if errors.Is(err, repo.ErrInsufficientStock) {
			return ErrOutOfStock
		}
		if err != nil {
			return err
		}

		if err := r.Carts().Save(ctx, userID, lines); err != nil {
			return err
		}

		out = AddToCartOutput{
			Cart:        toCartOutput(lines),
			Stock:       newStock,
			Purchasable: newStock > 0,
		}
		return nil
	})

	if err != nil {
		return AddToCartOutput{}, err
	}
	return out, nil
}

// RemoveLine は明細を1個分減らす。数量1の明細は丸ごと消す。
// 減らした1個は在庫へ戻す（商品がカタログから消えていたら戻しはしない）。
func (u *CartUsecase) RemoveLine(ctx context.Context, userID string, index int) (CartOutput, error) {
	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := r.Carts().Load(ctx, userID)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(lines) {
			return ErrInvalidValue
		}

		name := lines[index].ProductName
		if lines[index].Quantity > 1 {
			lines[index].Quantity--
		} else {
			lines = append(lines[:index], lines[index+1:]...)
		}

		if err := r.Catalog().IncrementStock(ctx, name, 1); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		if err := r.Carts().Save(ctx, userID, lines); err != nil {
			return err
		}

		out = toCartOutput(lines)
		return nil
	})

	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// EmptyCart は全明細の数量分を在庫へ戻してからカートを空にする。
func (u *CartUsecase) EmptyCart(ctx context.Context, userID string) (CartOutput, error) {
	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := r.Carts().Load(ctx, userID)
		if err != nil {
			return err
		}

		for _, ln := range lines {
			if err := r.Catalog().IncrementStock(ctx, ln.ProductName, ln.Quantity); err != nil && !errors.Is(err, repo.ErrNotFound) {
				return err
			}
		}

		if err := r.Carts().Save(ctx, userID, []model.CartLine{}); err != nil {
			return err
		}

		out = toCartOutput(nil)
		return nil
	})

	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// GetCart はカートの現在の中身を返す（変更なし）。
func (u *CartUsecase) GetCart(ctx context.Context, userID string) (CartOutput, error) {
	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := r.Carts().Load(ctx, userID)
		if err != nil {
			return err
		}
		out = toCartOutput(lines)
		return nil
	})

	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// PurchaseSingle はカートを介さない1個の即時購入。在庫を1減らすだけ。
// 確認ステップは呼び出し側の前提条件で、呼ばれたら無条件に実行する。
func (u *CartUsecase) PurchaseSingle(ctx context.Context, productName string) (PurchaseSingleOutput, error) {
	var out PurchaseSingleOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		stock, err := r.Catalog().GetStock(ctx, productName)
		if err != nil {
			return err
		}
		if stock <= 0 {
			return ErrOutOfStock
		}

		newStock, err := r.Catalog().DecrementStock(ctx, productName, 1)
		if errors.Is(err, repo.ErrInsufficientStock) {
			return ErrOutOfStock
		}
		if err != nil {
			return err
		}

		out = PurchaseSingleOutput{
			ProductName: productName,
			Stock:       newStock,
			Purchasable: newStock > 0,
		}
		return nil
	})

	if err != nil {
		return PurchaseSingleOutput{}, err
	}
	return out, nil
}

// PurchaseAll はカートの全明細をカート順に購入する。
// 明細ごとに判定する: 商品が無い→ProductNotFound、在庫が数量に満たない→
// InsufficientStock（その時点の在庫を添える）、足りれば数量分を減らしてPurchased。
// 一度減らした在庫は後の明細が失敗しても戻さない。
//
// 注意: 失敗が混ざってもカートは必ず空になる。失敗した明細は戻り値の
// Failedにしか残らないので、買い直しは利用者がもう一度追加するしかない。
// 元アプリの仕様をそのまま残した挙動であり、テストでも固定している。
func (u *CartUsecase) PurchaseAll(ctx context.Context, userID string) (PurchaseAllOutput, error) {
	var out PurchaseAllOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := r.Carts().Load(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		purchased := make([]CartLineOutput, 0, len(lines))
		failed := make([]FailedLine, 0)

		for _, ln := range lines {
			if _, err := r.Catalog().FindByName(ctx, ln.ProductName); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					failed = append(failed, FailedLine{
						ProductName: ln.ProductName,
						Quantity:    ln.Quantity,
						Reason:      OutcomeProductNotFound,
					})
					continue
				}
				return err
			}

			stock, err := r.Catalog().GetStock(ctx, ln.ProductName)
			if err != nil {
				return err
			}
			if stock < ln.Quantity {
				available := stock
				failed = append(failed, FailedLine{
					ProductName: ln.ProductName,
					Quantity:    ln.Quantity,
					Reason:      OutcomeInsufficientStock,
					Available:   &available,
				})
				continue
			}

			if _, err := r.Catalog().DecrementStock(ctx, ln.ProductName, ln.Quantity); err != nil {
				return err
			}
			purchased = append(purchased, toLineOutput(ln))
		}

		//成否に関わらずカートは空にする
		if err := r.Carts().Save(ctx, userID, []model.CartLine{}); err != nil {
			return err
		}

		out = PurchaseAllOutput{
			FullSuccess: len(failed) == 0,
			Purchased:   purchased,
			Failed:      failed,
		}
		return nil
	})

	if err != nil {
		return PurchaseAllOutput{}, err
	}
	return out, nil
}

func toLineOutput(ln model.CartLine) CartLineOutput {
	return CartLineOutput{
		ProductName: ln.ProductName,
		Seller:      ln.Seller,
		ImageRef:    ln.ImageRef,
		UnitPrice:   money.FormatBRL(ln.UnitPrice),
		Quantity:    ln.Quantity,
	}
}

func toCartOutput(lines []model.CartLine) CartOutput {
	items := make([]CartLineOutput, 0, len(lines))
	total := decimal.Zero

	for _, ln := range lines {
		items = append(items, toLineOutput(ln))
		total = total.Add(ln.UnitPrice.Mul(decimal.NewFromInt(ln.Quantity)))
	}

	return CartOutput{Items: items, Total: money.FormatBRL(total)}
}
