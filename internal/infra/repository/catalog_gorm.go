package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

// DI
func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// 商品一覧（登録順）
func (r *CatalogGormRepository) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product

	if err := r.db.WithContext(ctx).
		Order("created_at asc, id asc").
		Find(&products).Error; err != nil {
		return []model.Product{}, err
	}

	return products, nil
}

// nameで商品を1件取得
func (r *CatalogGormRepository) FindByName(ctx context.Context, name string) (model.Product, error) {
	var p model.Product

	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 商品を新規作成
func (r *CatalogGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 現在在庫を返す。商品が無ければ0。
func (r *CatalogGormRepository) GetStock(ctx context.Context, name string) (int64, error) {
	var p model.Product

	err := r.db.WithContext(ctx).
		Select("stock").
		Where("name = ?", name).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return p.Stock, nil
}

// 在庫が足りるときだけ減らし、新しい在庫を返す
func (r *CatalogGormRepository) DecrementStock(ctx context.Context, name string, amount int64) (int64, error) {
	var newStock int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).
			Where("name = ? AND stock >= ?", name, amount).
			Update("stock", gorm.Expr("stock - ?", amount))

		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrInsufficientStock
		}

		var p model.Product
		if err := tx.Select("stock").Where("name = ?", name).First(&p).Error; err != nil {
			return err
		}
		newStock = p.Stock
		return nil
	})

	if err != nil {
		return 0, err
	}
	return newStock, nil
}

// 在庫戻し（明細の削除・カートを空にする時）
func (r *CatalogGormRepository) IncrementStock(ctx context.Context, name string, amount int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("name = ?", name).
		Update("stock", gorm.Expr("stock + ?", amount))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫の現在値を設定
func (r *CatalogGormRepository) SetStock(ctx context.Context, name string, newStock int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("name = ?", name).
		Update("stock", newStock)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
