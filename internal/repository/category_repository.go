package repository

import (
	"context"

	"shop/internal/domain/model"
)

// 一覧用。商品数つき。
type CategoryWithCount struct {
	model.Category
	ProductCount int64 `json:"product_count"`
}

type CategoryRepository interface {
	List(ctx context.Context) ([]CategoryWithCount, error)
	FindByID(ctx context.Context, id int64) (CategoryWithCount, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) error

	// カテゴリと配下の商品（画像・レビュー込み）をまとめて消す。
	// 破壊的なので呼ぶ側は管理者チェック必須。
	DeleteCascade(ctx context.Context, id int64) error
}
