package usecase

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/shopspring/decimal"
)

// カートIDの発行。テストで差し替えられるようにinterfaceにしている。
type IDGenerator interface {
	NewID() string
}

// CartUsecase はカートの作成と明細の出し入れを持つ。
// カート→注文の変換はOrderUsecase側。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	idGen        IDGenerator
}

// DI
func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	idGen IDGenerator,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		idGen:        idGen,
	}
}

type CartItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

// カートの中身。priceは現時点の商品価格（注文時に改めてスナップショットする）。
type CartResponse struct {
	ID    string             `json:"id"`
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// CreateCart は空のカートを作って返す。
func (u *CartUsecase) CreateCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, permissionDenied("unauthorized")
	}

	cart, err := u.cartRepo.Create(ctx, model.Cart{
		ID:        u.idGen.NewID(),
		UserID:    userID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return CartResponse{}, translateTxError(err)
	}

	return CartResponse{
		ID:    cart.ID,
		Items: []CartItemResponse{},
		Total: decimal.Zero,
	}, nil
}

// GetCart はカートの中身を返す。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64, cartID string) (CartResponse, error) {
	cart, err := u.findOwnedCart(ctx, userID, cartID)
	if err != nil {
		return CartResponse{}, err
	}
	return u.buildCartResponse(ctx, cart.ID)
}

// AddItem はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, cartID string, in AddCartItemInput) (CartResponse, error) {
	if in.ProductID <= 0 {
		return CartResponse{}, validation("invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, validation("quantity must be >= 1")
	}

	cart, err := u.findOwnedCart(ctx, userID, cartID)
	if err != nil {
		return CartResponse{}, err
	}

	//商品の存在チェック
	if _, err := u.productRepo.FindByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, validation("product does not exist")
		}
		return CartResponse{}, internal("db error")
	}

	if err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cart.ID, in.ProductID, in.Quantity); err != nil {
		return CartResponse{}, translateTxError(err)
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// UpdateItem は明細の数量を変更する。
func (u *CartUsecase) UpdateItem(ctx context.Context, userID int64, cartID string, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if in.Quantity < 1 {
		return CartResponse{}, validation("quantity must be >= 1")
	}

	cart, err := u.findOwnedCart(ctx, userID, cartID)
	if err != nil {
		return CartResponse{}, err
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, notFound("cart item not found")
	}
	if err != nil {
		return CartResponse{}, internal("db error")
	}
	if item.CartID != cart.ID {
		return CartResponse{}, notFound("cart item not found")
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		return CartResponse{}, internal("db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// DeleteItem は明細を消す。
func (u *CartUsecase) DeleteItem(ctx context.Context, userID int64, cartID string, cartItemID int64) (CartResponse, error) {
	cart, err := u.findOwnedCart(ctx, userID, cartID)
	if err != nil {
		return CartResponse{}, err
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, notFound("cart item not found")
	}
	if err != nil {
		return CartResponse{}, internal("db error")
	}
	if item.CartID != cart.ID {
		return CartResponse{}, notFound("cart item not found")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		return CartResponse{}, internal("db error")
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// カートを取得して所有者チェックまでやる
func (u *CartUsecase) findOwnedCart(ctx context.Context, userID int64, cartID string) (model.Cart, error) {
	if userID <= 0 {
		return model.Cart{}, permissionDenied("unauthorized")
	}
	if cartID == "" {
		return model.Cart{}, validation("invalid cart id")
	}

	cart, err := u.cartRepo.FindByID(ctx, cartID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, notFound("cart not found")
	}
	if err != nil {
		return model.Cart{}, internal("db error")
	}
	if cart.UserID != userID {
		return model.Cart{}, permissionDenied("not your cart")
	}
	return cart, nil
}

func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID string) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, internal("db error")
	}

	out := CartResponse{
		ID:    cartID,
		Items: make([]CartItemResponse, 0, len(items)),
		Total: decimal.Zero,
	}

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			//商品が消えた明細は表示しない
			continue
		}
		if err != nil {
			return CartResponse{}, internal("db error")
		}

		out.Items = append(out.Items, CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  it.Quantity,
		})
		out.Total = out.Total.Add(p.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}

	return out, nil
}
