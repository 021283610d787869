package model

import "time"

// カート。IDは推測できないようにuuid。
// 注文確定で消える（Orderに変換したあと残さない）。
type Cart struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
