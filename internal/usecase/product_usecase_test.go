package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type CatalogRepoMock struct{ mock.Mock }

func (m *CatalogRepoMock) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *CatalogRepoMock) FindByName(ctx context.Context, name string) (model.Product, error) {
	args := m.Called(ctx, name)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CatalogRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *CatalogRepoMock) GetStock(ctx context.Context, name string) (int64, error) {
	panic("not used in ProductUsecase tests")
}

func (m *CatalogRepoMock) DecrementStock(ctx context.Context, name string, amount int64) (int64, error) {
	panic("not used in ProductUsecase tests")
}

func (m *CatalogRepoMock) IncrementStock(ctx context.Context, name string, amount int64) error {
	panic("not used in ProductUsecase tests")
}

func (m *CatalogRepoMock) SetStock(ctx context.Context, name string, newStock int64) error {
	args := m.Called(ctx, name, newStock)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, u model.User) (model.User, error) {
	panic("not used in ProductUsecase tests")
}

type fixedIDGen struct{ id string }

func (g fixedIDGen) NewID() string { return g.id }

func newProductUC(cRepo *CatalogRepoMock, uRepo *UserRepoMock) *usecase.ProductUsecase {
	return usecase.NewProductUsecase(cRepo, uRepo, fixedIDGen{id: "id-1"})
}

// =====================
// List
// =====================

func TestProductUsecase_List_FormatsPrice(t *testing.T) {
	cRepo := new(CatalogRepoMock)
	uc := newProductUC(cRepo, new(UserRepoMock))

	cRepo.On("List", mock.Anything).Return([]model.Product{
		{ID: "id-1", Name: "Caneca", Price: decimal.RequireFromString("10.5"), SellerName: "Loja", Stock: 2},
		{ID: "id-2", Name: "Camiseta", Price: decimal.RequireFromString("39.9"), SellerName: "Loja", Stock: 0},
	}, nil)

	out, err := uc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, "R$ 10,50", out.Items[0].Price)
	assert.True(t, out.Items[0].Purchasable)
	assert.Equal(t, "R$ 39,90", out.Items[1].Price)
	assert.False(t, out.Items[1].Purchasable)

	cRepo.AssertExpectations(t)
}

// =====================
// Create
// =====================

func TestProductUsecase_Create_NotAuthenticated(t *testing.T) {
	uc := newProductUC(new(CatalogRepoMock), new(UserRepoMock))

	_, err := uc.Create(context.Background(), "", usecase.CreateProductInput{
		Name: "Caneca", Price: "10,50", ImageURL: "https://x/p.png", Stock: 1,
	})
	assert.ErrorIs(t, err, usecase.ErrNotAuthenticated)
}

func TestProductUsecase_Create_Validation(t *testing.T) {
	uc := newProductUC(new(CatalogRepoMock), new(UserRepoMock))
	ctx := context.Background()

	// 名前なし
	_, err := uc.Create(ctx, "loja@example.com", usecase.CreateProductInput{
		Name: "  ", Price: "10,50", ImageURL: "https://x/p.png", Stock: 1,
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidValue)

	// 画像URLがhttp(s)でない
	_, err = uc.Create(ctx, "loja@example.com", usecase.CreateProductInput{
		Name: "Caneca", Price: "10,50", ImageURL: "ftp://x/p.png", Stock: 1,
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidValue)

	// 在庫が負
	_, err = uc.Create(ctx, "loja@example.com", usecase.CreateProductInput{
		Name: "Caneca", Price: "10,50", ImageURL: "https://x/p.png", Stock: -1,
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidValue)

	// 価格が読めない
	_, err = uc.Create(ctx, "loja@example.com", usecase.CreateProductInput{
		Name: "Caneca", Price: "caro", ImageURL: "https://x/p.png", Stock: 1,
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidValue)
}

func TestProductUsecase_Create_DuplicateName(t *testing.T) {
	cRepo := new(CatalogRepoMock)
	uRepo := new(UserRepoMock)
	uc := newProductUC(cRepo, uRepo)

	uRepo.On("FindByEmail", mock.Anything, "loja@example.com").
		Return(model.User{Email: "loja@example.com", DisplayName: "Loja"}, nil)
	cRepo.On("FindByName", mock.Anything, "Caneca").Return(model.Product{Name: "Caneca"}, nil)

	_, err := uc.Create(context.Background(), "loja@example.com", usecase.CreateProductInput{
		Name: "Caneca", Price: "10,50", ImageURL: "https://x/p.png", Stock: 1,
	})
	assert.ErrorIs(t, err, usecase.ErrProductExists)
}

func TestProductUsecase_Create_Success(t *testing.T) {
	cRepo := new(CatalogRepoMock)
	uRepo := new(UserRepoMock)
	uc := newProductUC(cRepo, uRepo)

	uRepo.On("FindByEmail", mock.Anything, "loja@example.com").
		Return(model.User{Email: "loja@example.com", DisplayName: "Loja"}, nil)
	cRepo.On("FindByName", mock.Anything, "Caneca").Return(model.Product{}, repo.ErrNotFound)

	// 出品者はIDと表示名の両方をスナップショット
	cRepo.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == "id-1" &&
			p.Name == "Caneca" &&
			p.SellerID == "loja@example.com" &&
			p.SellerName == "Loja" &&
			p.Price.Equal(decimal.RequireFromString("10.50")) &&
			p.Stock == 3
	})).Return(model.Product{
		ID: "id-1", Name: "Caneca", Price: decimal.RequireFromString("10.50"),
		SellerID: "loja@example.com", SellerName: "Loja", Stock: 3,
	}, nil)

	out, err := uc.Create(context.Background(), "loja@example.com", usecase.CreateProductInput{
		Name: " Caneca ", Price: "R$ 10,50", ImageURL: "https://x/p.png", Stock: 3,
	})
	assert.NoError(t, err)
	assert.Equal(t, "R$ 10,50", out.Price)
	assert.Equal(t, "Loja", out.Seller)
	assert.True(t, out.Purchasable)

	cRepo.AssertExpectations(t)
	uRepo.AssertExpectations(t)
}

// =====================
// SetStock
// =====================

func TestProductUsecase_SetStock_NegativeStock(t *testing.T) {
	uc := newProductUC(new(CatalogRepoMock), new(UserRepoMock))

	_, err := uc.SetStock(context.Background(), "loja@example.com", "Caneca", -1)
	assert.ErrorIs(t, err, usecase.ErrInvalidValue)
}

func TestProductUsecase_SetStock_ProductNotFound(t *testing.T) {
	cRepo := new(CatalogRepoMock)
	uc := newProductUC(cRepo, new(UserRepoMock))

	cRepo.On("FindByName", mock.Anything, "Fantasma").Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.SetStock(context.Background(), "loja@example.com", "Fantasma", 5)
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)
}

// 所有判定は出品時に取ったIDの一致。表示名が同じでも別人は弾く。
func TestProductUsecase_SetStock_NotOwner(t *testing.T) {
	cRepo := new(CatalogRepoMock)
	uc := newProductUC(cRepo, new(UserRepoMock))

	cRepo.On("FindByName", mock.Anything, "Caneca").Return(model.Product{
		Name: "Caneca", SellerID: "loja@example.com", SellerName: "Loja",
	}, nil)

	_, err := uc.SetStock(context.Background(), "outra@example.com", "Caneca", 5)
	assert.ErrorIs(t, err, usecase.ErrNotOwner)
}

func TestProductUsecase_SetStock_Success(t *testing.T) {
	cRepo := new(CatalogRepoMock)
	uc := newProductUC(cRepo, new(UserRepoMock))

	cRepo.On("FindByName", mock.Anything, "Caneca").Return(model.Product{
		Name: "Caneca", SellerID: "loja@example.com", Stock: 0,
	}, nil)
	cRepo.On("SetStock", mock.Anything, "Caneca", int64(7)).Return(nil)

	out, err := uc.SetStock(context.Background(), "loja@example.com", "Caneca", 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.Stock)
	assert.True(t, out.Purchasable)

	cRepo.AssertExpectations(t)
}

// 0に設定すると購入不可になる
func TestProductUsecase_SetStock_ZeroMakesUnpurchasable(t *testing.T) {
	cRepo := new(CatalogRepoMock)
	uc := newProductUC(cRepo, new(UserRepoMock))

	cRepo.On("FindByName", mock.Anything, "Caneca").Return(model.Product{
		Name: "Caneca", SellerID: "loja@example.com", Stock: 4,
	}, nil)
	cRepo.On("SetStock", mock.Anything, "Caneca", int64(0)).Return(nil)

	out, err := uc.SetStock(context.Background(), "loja@example.com", "Caneca", 0)
	assert.NoError(t, err)
	assert.False(t, out.Purchasable)
}
