package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Productはカタログの商品。nameがカタログ内の一意キー。
// 在庫はstockのみを正とする（表示側はこれを読むだけ）。
type Product struct {
	ID         string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name       string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	SellerID   string          `gorm:"type:varchar(64);not null;index" json:"seller_id"`
	SellerName string          `gorm:"type:varchar(255);not null" json:"seller_name"`
	ImageURL   string          `gorm:"type:text" json:"image_url"`
	Stock      int64           `gorm:"not null" json:"stock"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 在庫が1以上なら購入可能
func (p Product) Purchasable() bool {
	return p.Stock > 0
}
