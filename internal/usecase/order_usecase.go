package usecase

import (
	"context"
	"errors"
	"time"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 注文エンジン。カート→注文の変換と、注文のキャンセルだけを持つ。
// Order.statusとOrderItemの書き込みはこのusecaseの外からはやらない。
type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

// 操作している本人。roleはJWTのclaimsから来る。
type Actor struct {
	UserID int64
	Role   model.Role
}

func (a Actor) isAdmin() bool {
	return a.Role == model.RoleAdmin
}

type PlaceOrderInput struct {
	CartID string
}

type OrderItemOutput struct {
	ProductID  int64           `json:"product_id"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type OrderOutput struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Status     string            `json:"status"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	CreatedAt  time.Time         `json:"created_at"`
	Items      []OrderItemOutput `json:"items"`
}

// PlaceOrder はカートを注文に変換する。
// 全部1トランザクション：カート読取（行ロック）→合計計算→Order作成→
// OrderItem一括作成→カート削除。途中で失敗したら何も残らない。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, permissionDenied("unauthorized")
	}
	if _, err := uuid.Parse(in.CartID); err != nil {
		return OrderOutput{}, validation("invalid cart id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//行ロックつきで取得。同じカートの注文が同時に走っても
		//後の方はここでNotFoundになる。
		cart, err := r.Carts().FindByIDForUpdate(ctx, in.CartID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("cart not found")
		}
		if err != nil {
			return err
		}

		//所有チェック（他人のカートから注文は作れない）
		if cart.UserID != userID {
			return permissionDenied("not your cart")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return validation("cart is empty")
		}

		//商品価格をスナップショットしながら合計を出す。
		//金額は全部decimalで計算する。
		total := decimal.Zero
		orderItems := make([]model.OrderItem, 0, len(cartItems))
		now := time.Now()

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return validation("product no longer available")
			}
			if err != nil {
				return err
			}

			lineTotal := p.Price.Mul(decimal.NewFromInt(ci.Quantity))
			total = total.Add(lineTotal)

			orderItems = append(orderItems, model.OrderItem{
				ProductID:  ci.ProductID,
				Price:      p.Price,
				Quantity:   ci.Quantity,
				TotalPrice: lineTotal,
				CreatedAt:  now,
			})
		}

		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:     userID,
			Status:     model.OrderStatusNotPaid,
			TotalPrice: total,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return err
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return err
		}

		//カートはここで消える（明細ごと）
		if err := r.Carts().Delete(ctx, cart.ID); err != nil {
			return err
		}

		created := model.Order{
			ID:         orderID,
			UserID:     userID,
			Status:     model.OrderStatusNotPaid,
			TotalPrice: total,
			CreatedAt:  now,
		}
		out = toOrderOutput(created, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, translateTxError(err)
	}
	return out, nil
}

// CancelOrder は注文をCANCELLEDにする。
// 管理者は無条件、本人はNOT_PAIDのときだけ。それ以外は書き込みゼロ。
func (u *OrderUsecase) CancelOrder(ctx context.Context, actor Actor, orderID int64) (OrderOutput, error) {
	if actor.UserID <= 0 {
		return OrderOutput{}, permissionDenied("unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, validation("invalid order id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("order not found")
		}
		if err != nil {
			return err
		}

		if !actor.isAdmin() {
			if o.UserID != actor.UserID {
				return permissionDenied("you do not have permission to cancel this order")
			}
			if o.Status != model.OrderStatusNotPaid {
				return validation("only pending orders can be cancelled")
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		o.Status = model.OrderStatusCancelled
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, translateTxError(err)
	}
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, limit int) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, permissionDenied("unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, page, limit)
		if err != nil {
			return err
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return err
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, translateTxError(err)
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, permissionDenied("unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, validation("invalid order id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("order not found")
		}
		if err != nil {
			return err
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return notFound("order not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, translateTxError(err)
	}
	return out, nil
}

// txから出てきたエラーをusecaseのエラーに寄せる。
// usecaseのエラーはそのまま、ストレージの競合はConflict、残りはinternal。
func translateTxError(err error) error {
	if _, ok := AsError(err); ok {
		return err
	}
	if errors.Is(err, repo.ErrConflict) {
		return conflict("concurrent modification, retry the request")
	}
	return internal("db error")
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:  it.ProductID,
			Price:      it.Price,
			Quantity:   it.Quantity,
			TotalPrice: it.TotalPrice,
		})
	}

	return OrderOutput{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
		Items:      outItems,
	}
}
