package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CartRepository interface {
	Create(ctx context.Context, cart model.Cart) (model.Cart, error)
	FindByID(ctx context.Context, cartID string) (model.Cart, error)

	// 行ロックつき取得。注文確定のトランザクション内で使う。
	// 同じカートに同時に注文が走っても片方しか勝てないようにする。
	FindByIDForUpdate(ctx context.Context, cartID string) (model.Cart, error)

	// カートと明細をまとめて削除
	Delete(ctx context.Context, cartID string) error
}
