package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

// カートの保存キー。未ログインは匿名バケットに入る。
const anonCartBucket = "anon"

func cartBucketFor(userID string) string {
	if userID == "" {
		return anonCartBucket
	}
	return userID
}

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのカート明細を並び順で取得。無ければ空。
func (r *CartGormRepository) Load(ctx context.Context, userID string) ([]model.CartLine, error) {
	var lines []model.CartLine

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", cartBucketFor(userID)).
		Order("position asc").
		Find(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}

	return lines, nil
}

// カート全体を置き換える（全削除→並び順を振り直して挿入）
func (r *CartGormRepository) Save(ctx context.Context, userID string, lines []model.CartLine) error {
	bucket := cartBucketFor(userID)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", bucket).Delete(&model.CartLine{}).Error; err != nil {
			return err
		}

		if len(lines) == 0 {
			return nil
		}

		rows := make([]model.CartLine, 0, len(lines))
		for i, ln := range lines {
			rows = append(rows, model.CartLine{
				UserID:      bucket,
				Position:    i,
				ProductName: ln.ProductName,
				UnitPrice:   ln.UnitPrice,
				Seller:      ln.Seller,
				ImageRef:    ln.ImageRef,
				Quantity:    ln.Quantity,
			})
		}

		return tx.Create(&rows).Error
	})
}
