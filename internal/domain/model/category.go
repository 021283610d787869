package model

// 商品カテゴリ。1カテゴリが複数の商品を持つ。
// カテゴリ削除は配下の商品ごと消す（repository側で明示的に行う）。
type Category struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}
