package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"app/internal/domain/model"
	"app/internal/money"
	repo "app/internal/repository"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// ProductUsecase はカタログの参照・商品登録・在庫の直接変更。
type ProductUsecase struct {
	catalogRepo repo.CatalogRepository
	userRepo    repo.UserRepository
	idGen       IDGenerator
}

// DI
func NewProductUsecase(
	catalogRepo repo.CatalogRepository,
	userRepo repo.UserRepository,
	idGen IDGenerator,
) *ProductUsecase {
	return &ProductUsecase{
		catalogRepo: catalogRepo,
		userRepo:    userRepo,
		idGen:       idGen,
	}
}

type ProductOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Seller      string `json:"seller"`
	ImageURL    string `json:"image_url"`
	Stock       int64  `json:"stock"`
	Purchasable bool   `json:"purchasable"`
}

type ProductListOutput struct {
	Items []ProductOutput `json:"items"`
}

// 商品登録の入力。価格は "10.99" や "10,99" の自由形式文字列。
type CreateProductInput struct {
	ImageURL string
	Name     string
	Price    string
	Stock    int64
}

type SetStockOutput struct {
	ProductName string `json:"product_name"`
	Stock       int64  `json:"stock"`
	Purchasable bool   `json:"purchasable"`
}

var imageURLPattern = regexp.MustCompile(`^https?://`)

// List は全商品を返す。purchasableは在庫>0。
func (u *ProductUsecase) List(ctx context.Context) (ProductListOutput, error) {
	products, err := u.catalogRepo.List(ctx)
	if err != nil {
		return ProductListOutput{}, err
	}

	items := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		items = append(items, toProductOutput(p))
	}
	return ProductListOutput{Items: items}, nil
}

// Create は商品を登録する。出品者は登録時点のユーザーIDと表示名を
// スナップショットする（表示名の一致ではなくIDで所有を判定するため）。
func (u *ProductUsecase) Create(ctx context.Context, actingUserID string, in CreateProductInput) (ProductOutput, error) {
	if strings.TrimSpace(actingUserID) == "" {
		return ProductOutput{}, ErrNotAuthenticated
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ProductOutput{}, ErrInvalidValue
	}
	if !imageURLPattern.MatchString(strings.TrimSpace(in.ImageURL)) {
		return ProductOutput{}, ErrInvalidValue
	}
	if in.Stock < 0 {
		return ProductOutput{}, ErrInvalidValue
	}

	price, err := money.Parse(in.Price)
	if err != nil {
		return ProductOutput{}, ErrInvalidValue
	}

	seller, err := u.userRepo.FindByEmail(ctx, actingUserID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, ErrNotAuthenticated
	}
	if err != nil {
		return ProductOutput{}, err
	}

	//nameはカタログ内の一意キー
	if _, err := u.catalogRepo.FindByName(ctx, name); err == nil {
		return ProductOutput{}, ErrProductExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, err
	}

	created, err := u.catalogRepo.Create(ctx, model.Product{
		ID:         u.idGen.NewID(),
		Name:       name,
		Price:      price,
		SellerID:   seller.Email,
		SellerName: seller.DisplayName,
		ImageURL:   strings.TrimSpace(in.ImageURL),
		Stock:      in.Stock,
	})
	if err != nil {
		return ProductOutput{}, err
	}
	return toProductOutput(created), nil
}

// SetStock は出品者本人だけが使える在庫の直接変更。
// 所有判定は表示名ではなく、登録時に取った出品者IDと操作ユーザーIDの一致。
func (u *ProductUsecase) SetStock(ctx context.Context, actingUserID string, productName string, newStock int64) (SetStockOutput, error) {
	if strings.TrimSpace(actingUserID) == "" {
		return SetStockOutput{}, ErrNotAuthenticated
	}
	if newStock < 0 {
		return SetStockOutput{}, ErrInvalidValue
	}

	p, err := u.catalogRepo.FindByName(ctx, productName)
	if errors.Is(err, repo.ErrNotFound) {
		return SetStockOutput{}, ErrProductNotFound
	}
	if err != nil {
		return SetStockOutput{}, err
	}

	if p.SellerID != actingUserID {
		return SetStockOutput{}, ErrNotOwner
	}

	if err := u.catalogRepo.SetStock(ctx, productName, newStock); err != nil {
		return SetStockOutput{}, err
	}

	return SetStockOutput{
		ProductName: productName,
		Stock:       newStock,
		Purchasable: newStock > 0,
	}, nil
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		Name:        p.Name,
		Price:       money.FormatBRL(p.Price),
		Seller:      p.SellerName,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		Purchasable: p.Purchasable(),
	}
}
