package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文の明細。価格は注文時点のスナップショット。
// 商品価格が後で変わってもここは変えない。
type OrderItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    int64           `gorm:"not null;index" json:"order_id"`
	ProductID  int64           `gorm:"not null;index" json:"product_id"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
