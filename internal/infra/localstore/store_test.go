package localstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"app/internal/domain/model"
	"app/internal/infra/localstore"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *localstore.Store {
	t.Helper()
	s, err := localstore.Open(path)
	require.NoError(t, err)
	return s
}

// Test: ファイルが無くても空のストアとして開ける
func TestStore_Open_MissingFile(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "store.json"))
	ctx := context.Background()

	products, err := localstore.NewCatalogLocalRepository(s).List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, products)

	lines, err := localstore.NewCartLocalRepository(s).Load(ctx, "maria@example.com")
	assert.NoError(t, err)
	assert.Empty(t, lines)

	current, err := localstore.NewSessionLocalRepository(s).Current(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "", current)
}

// Test: 書き込みは同じファイルを開き直しても見える
func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	catalog := localstore.NewCatalogLocalRepository(openStore(t, path))
	_, err := catalog.Create(ctx, model.Product{
		ID: "id-1", Name: "Caneca", Price: decimal.RequireFromString("10.50"),
		SellerID: "loja@example.com", SellerName: "Loja", Stock: 2,
	})
	require.NoError(t, err)

	reopened := localstore.NewCatalogLocalRepository(openStore(t, path))
	p, err := reopened.FindByName(ctx, "Caneca")
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.Stock)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("10.50")))
}

// Test: stockが文字列や壊れた値でも読める（読めない値は0）
func TestStore_TolerantStockValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	raw := `{
	  "products": [
	    {"id": "a", "name": "Numero", "price": "10.5", "stock": 3},
	    {"id": "b", "name": "Texto", "price": "5", "stock": "4"},
	    {"id": "c", "name": "Sujo", "price": "5", "stock": "3 em estoque"},
	    {"id": "d", "name": "Quebrado", "price": "5", "stock": "abc"},
	    {"id": "e", "name": "Negativo", "price": "5", "stock": -2},
	    {"id": "f", "name": "Ausente", "price": "5"}
	  ]
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	catalog := localstore.NewCatalogLocalRepository(openStore(t, path))
	ctx := context.Background()

	for name, want := range map[string]int64{
		"Numero":   3,
		"Texto":    4,
		"Sujo":     3,
		"Quebrado": 0,
		"Negativo": 0,
		"Ausente":  0,
	} {
		stock, err := catalog.GetStock(ctx, name)
		assert.NoError(t, err, name)
		assert.Equal(t, want, stock, name)
	}

	// カタログに無い商品も0扱い
	stock, err := catalog.GetStock(ctx, "Fantasma")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), stock)
}

// Test: 在庫が足りない減算は拒否し、何も変えない
func TestCatalogLocal_DecrementStock_Insufficient(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "store.json"))
	catalog := localstore.NewCatalogLocalRepository(s)
	ctx := context.Background()

	_, err := catalog.Create(ctx, model.Product{ID: "id-1", Name: "Caneca", Stock: 1})
	require.NoError(t, err)

	_, err = catalog.DecrementStock(ctx, "Caneca", 2)
	assert.ErrorIs(t, err, repo.ErrInsufficientStock)

	stock, _ := catalog.GetStock(ctx, "Caneca")
	assert.Equal(t, int64(1), stock)

	next, err := catalog.DecrementStock(ctx, "Caneca", 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), next)
}

// Test: 消えた商品への在庫加算はErrNotFound
func TestCatalogLocal_IncrementStock_Missing(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "store.json"))
	catalog := localstore.NewCatalogLocalRepository(s)

	err := catalog.IncrementStock(context.Background(), "Fantasma", 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// Test: カートはユーザーごとのキーに保存され、未ログインはanonの箱に入る
func TestCartLocal_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	carts := localstore.NewCartLocalRepository(openStore(t, path))
	ctx := context.Background()

	lines := []model.CartLine{
		{ProductName: "Caneca", UnitPrice: decimal.RequireFromString("10.50"), Seller: "Loja", Quantity: 2},
	}
	require.NoError(t, carts.Save(ctx, "maria@example.com", lines))
	require.NoError(t, carts.Save(ctx, "", []model.CartLine{
		{ProductName: "Camiseta", UnitPrice: decimal.RequireFromString("39.90"), Quantity: 1},
	}))

	got, err := carts.Load(ctx, "maria@example.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Caneca", got[0].ProductName)
	assert.Equal(t, int64(2), got[0].Quantity)

	anon, err := carts.Load(ctx, "")
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.Equal(t, "Camiseta", anon[0].ProductName)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"cart_maria@example.com"`)
	assert.Contains(t, string(raw), `"cart_anon"`)
}

// Test: セッションはcurrent_userキーの出し入れ
func TestSessionLocal_SetCurrentClear(t *testing.T) {
	sessions := localstore.NewSessionLocalRepository(openStore(t, filepath.Join(t.TempDir(), "store.json")))
	ctx := context.Background()

	require.NoError(t, sessions.SetCurrent(ctx, "maria@example.com"))
	current, err := sessions.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", current)

	require.NoError(t, sessions.Clear(ctx))
	current, err = sessions.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", current)
}

// Test: Tx内でエラーが出たら変更はスナップショットへ巻き戻り、ファイルにも残らない
func TestTxManagerLocal_RollbackOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s := openStore(t, path)
	catalog := localstore.NewCatalogLocalRepository(s)
	tm := localstore.NewTxManagerLocal(s)
	ctx := context.Background()

	_, err := catalog.Create(ctx, model.Product{ID: "id-1", Name: "Caneca", Stock: 5})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tm.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Catalog().DecrementStock(ctx, "Caneca", 3); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stock, _ := catalog.GetStock(ctx, "Caneca")
	assert.Equal(t, int64(5), stock)

	// 開き直しても減っていない
	reopened := localstore.NewCatalogLocalRepository(openStore(t, path))
	stock, _ = reopened.GetStock(ctx, "Caneca")
	assert.Equal(t, int64(5), stock)
}

// Test: Txが成功したら変更はまとめてファイルへ落ちる
func TestTxManagerLocal_CommitFlushes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s := openStore(t, path)
	catalog := localstore.NewCatalogLocalRepository(s)
	tm := localstore.NewTxManagerLocal(s)
	ctx := context.Background()

	_, err := catalog.Create(ctx, model.Product{ID: "id-1", Name: "Caneca", Stock: 5})
	require.NoError(t, err)

	err = tm.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Catalog().DecrementStock(ctx, "Caneca", 2); err != nil {
			return err
		}
		return r.Carts().Save(ctx, "maria@example.com", []model.CartLine{
			{ProductName: "Caneca", Quantity: 2},
		})
	})
	require.NoError(t, err)

	reopened := openStore(t, path)
	stock, _ := localstore.NewCatalogLocalRepository(reopened).GetStock(ctx, "Caneca")
	assert.Equal(t, int64(3), stock)
	lines, err := localstore.NewCartLocalRepository(reopened).Load(ctx, "maria@example.com")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].Quantity)
}
