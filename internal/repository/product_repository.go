package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// ストレージ側で競合（ユニーク制約違反、直列化失敗など）を検出した。
// 呼び出し側がリトライするかどうかを決める。
var ErrConflict = errors.New("conflict")

// 商品一覧の検索条件
type ProductListQuery struct {
	Page       int
	Limit      int
	Q          string //name/descriptionの部分一致
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       string // "", "new", "price_asc", "price_desc", "stock_asc", "stock_desc"
}

type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error
}
