package model

import "github.com/shopspring/decimal"

// カートの明細。
// 価格・出品者名・画像は追加時点のスナップショットを必ず保存。
// quantityは常に1以上（0になった明細は保存せずカートから除く）。
type CartLine struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID      string          `gorm:"type:varchar(64);not null;index:idx_cart_user_pos" json:"-"`
	Position    int             `gorm:"not null;index:idx_cart_user_pos" json:"-"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Seller      string          `gorm:"type:varchar(255)" json:"seller"`
	ImageRef    string          `gorm:"type:text" json:"image_ref"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
}
