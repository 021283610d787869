package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	//金額は固定小数（floatは使わない）
	Price decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`

	Stock      int64          `gorm:"not null;default:0" json:"stock"`
	CategoryID int64          `gorm:"not null;index" json:"category_id"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
