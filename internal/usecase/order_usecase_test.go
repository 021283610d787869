package usecase_test

import (
	"context"
	"testing"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	carts      repo.CartRepository
	cartItems  repo.CartItemRepository
	products   repo.ProductRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) Carts() repo.CartRepository           { return r.carts }
func (r *TxReposMock) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.products }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) Create(ctx context.Context, cart model.Cart) (model.Cart, error) {
	args := m.Called(ctx, cart)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByID(ctx context.Context, cartID string) (model.Cart, error) {
	args := m.Called(ctx, cartID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByIDForUpdate(ctx context.Context, cartID string) (model.Cart, error) {
	args := m.Called(ctx, cartID)
	cart, _ := args.Get(0).(model.Cart)
	return cart, args.Error(1)
}

func (m *CartRepoMock) Delete(ctx context.Context, cartID string) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID string, productID int64, addQty int64) error {
	args := m.Called(ctx, cartID, productID, addQty)
	return args.Error(0)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =====================
// Helpers
// =====================

func assertKind(t *testing.T, err error, want usecase.ErrorKind) {
	t.Helper()
	if assert.Error(t, err) {
		ue, ok := usecase.AsError(err)
		if assert.True(t, ok, "err=%v is not a usecase error", err) {
			assert.Equal(t, want, ue.Kind)
		}
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type orderFixture struct {
	tx         *TxManagerMock
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	carts      *CartRepoMock
	cartItems  *CartItemRepoMock
	products   *ProductRepoMock
	uc         *usecase.OrderUsecase
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:     new(OrderRepoMock),
		orderItems: new(OrderItemRepoMock),
		carts:      new(CartRepoMock),
		cartItems:  new(CartItemRepoMock),
		products:   new(ProductRepoMock),
	}
	f.tx = &TxManagerMock{Repos: &TxReposMock{
		orders:     f.orders,
		orderItems: f.orderItems,
		carts:      f.carts,
		cartItems:  f.cartItems,
		products:   f.products,
	}}
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.uc = usecase.NewOrderUsecase(f.tx)
	return f
}

// =====================
// PlaceOrder
// =====================

func TestOrderUsecase_PlaceOrder_ComputesDecimalTotal(t *testing.T) {
	f := newOrderFixture()
	cartID := uuid.NewString()

	f.carts.On("FindByIDForUpdate", mock.Anything, cartID).
		Return(model.Cart{ID: cartID, UserID: 1}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, cartID).
		Return([]model.CartItem{
			{ID: 1, CartID: cartID, ProductID: 10, Quantity: 2},
			{ID: 2, CartID: cartID, ProductID: 11, Quantity: 1},
		}, nil)
	f.products.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, Name: "A", Price: dec("10.00")}, nil)
	f.products.On("FindByID", mock.Anything, int64(11)).
		Return(model.Product{ID: 11, Name: "B", Price: dec("5.50")}, nil)

	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 1 &&
			o.Status == model.OrderStatusNotPaid &&
			o.TotalPrice.Equal(dec("25.50"))
	})).Return(int64(42), nil)

	f.orderItems.On("CreateBulk", mock.Anything, int64(42), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 &&
			items[0].Price.Equal(dec("10.00")) && items[0].TotalPrice.Equal(dec("20.00")) &&
			items[1].Price.Equal(dec("5.50")) && items[1].TotalPrice.Equal(dec("5.50"))
	})).Return(nil)

	f.carts.On("Delete", mock.Anything, cartID).Return(nil)

	out, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{CartID: cartID})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	assert.Equal(t, string(model.OrderStatusNotPaid), out.Status)
	assert.True(t, out.TotalPrice.Equal(dec("25.50")), "total=%s", out.TotalPrice)
	assert.Equal(t, 2, len(out.Items))
	assert.True(t, out.Items[0].TotalPrice.Equal(dec("20.00")))
	assert.True(t, out.Items[1].TotalPrice.Equal(dec("5.50")))

	f.orders.AssertExpectations(t)
	f.orderItems.AssertExpectations(t)
	f.carts.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_CartNotFound(t *testing.T) {
	f := newOrderFixture()
	cartID := uuid.NewString()

	f.carts.On("FindByIDForUpdate", mock.Anything, cartID).
		Return(model.Cart{}, repo.ErrNotFound)

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{CartID: cartID})

	assertKind(t, err, usecase.KindNotFound)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.orderItems.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_NotYourCart(t *testing.T) {
	f := newOrderFixture()
	cartID := uuid.NewString()

	f.carts.On("FindByIDForUpdate", mock.Anything, cartID).
		Return(model.Cart{ID: cartID, UserID: 99}, nil)

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{CartID: cartID})

	assertKind(t, err, usecase.KindPermissionDenied)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	f := newOrderFixture()
	cartID := uuid.NewString()

	f.carts.On("FindByIDForUpdate", mock.Anything, cartID).
		Return(model.Cart{ID: cartID, UserID: 1}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, cartID).
		Return([]model.CartItem{}, nil)

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{CartID: cartID})

	assertKind(t, err, usecase.KindValidation)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_InvalidCartID(t *testing.T) {
	f := newOrderFixture()

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{CartID: "not-a-uuid"})

	assertKind(t, err, usecase.KindValidation)
}

func TestOrderUsecase_PlaceOrder_StorageConflict(t *testing.T) {
	f := newOrderFixture()
	cartID := uuid.NewString()

	f.carts.On("FindByIDForUpdate", mock.Anything, cartID).
		Return(model.Cart{ID: cartID, UserID: 1}, nil)
	f.cartItems.On("ListByCartID", mock.Anything, cartID).
		Return([]model.CartItem{{ID: 1, CartID: cartID, ProductID: 10, Quantity: 1}}, nil)
	f.products.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, Price: dec("3.00")}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).
		Return(int64(0), repo.ErrConflict)

	_, err := f.uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{CartID: cartID})

	assertKind(t, err, usecase.KindConflict)
}

// =====================
// CancelOrder
// =====================

func TestOrderUsecase_CancelOrder_OwnerOnNotPaid(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, UserID: 1, Status: model.OrderStatusNotPaid, TotalPrice: dec("25.50")}, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusCancelled).Return(nil)
	f.orderItems.On("ListByOrderID", mock.Anything, int64(7)).
		Return([]model.OrderItem{}, nil)

	out, err := f.uc.CancelOrder(context.Background(), usecase.Actor{UserID: 1, Role: model.RoleUser}, 7)

	assert.NoError(t, err)
	assert.Equal(t, string(model.OrderStatusCancelled), out.Status)
	f.orders.AssertExpectations(t)
}

func TestOrderUsecase_CancelOrder_OwnerOnCancelled(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, UserID: 1, Status: model.OrderStatusCancelled}, nil)

	_, err := f.uc.CancelOrder(context.Background(), usecase.Actor{UserID: 1, Role: model.RoleUser}, 7)

	assertKind(t, err, usecase.KindValidation)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_CancelOrder_OwnerOnShipped(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, UserID: 1, Status: model.OrderStatusShipped}, nil)

	_, err := f.uc.CancelOrder(context.Background(), usecase.Actor{UserID: 1, Role: model.RoleUser}, 7)

	assertKind(t, err, usecase.KindValidation)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_CancelOrder_NotOwner(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, UserID: 99, Status: model.OrderStatusNotPaid}, nil)

	_, err := f.uc.CancelOrder(context.Background(), usecase.Actor{UserID: 1, Role: model.RoleUser}, 7)

	assertKind(t, err, usecase.KindPermissionDenied)
	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_CancelOrder_AdminOnAnyStatus(t *testing.T) {
	for _, status := range []model.OrderStatus{
		model.OrderStatusNotPaid,
		model.OrderStatusShipped,
		model.OrderStatusCancelled,
	} {
		f := newOrderFixture()

		f.orders.On("FindByID", mock.Anything, int64(7)).
			Return(model.Order{ID: 7, UserID: 99, Status: status}, nil)
		f.orders.On("UpdateStatus", mock.Anything, int64(7), model.OrderStatusCancelled).Return(nil)
		f.orderItems.On("ListByOrderID", mock.Anything, int64(7)).
			Return([]model.OrderItem{}, nil)

		out, err := f.uc.CancelOrder(context.Background(), usecase.Actor{UserID: 2, Role: model.RoleAdmin}, 7)

		assert.NoError(t, err, "status=%s", status)
		assert.Equal(t, string(model.OrderStatusCancelled), out.Status)
		f.orders.AssertExpectations(t)
	}
}

func TestOrderUsecase_CancelOrder_NotFound(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{}, repo.ErrNotFound)

	_, err := f.uc.CancelOrder(context.Background(), usecase.Actor{UserID: 1, Role: model.RoleUser}, 7)

	assertKind(t, err, usecase.KindNotFound)
}

// =====================
// GetMyOrderDetail
// =====================

func TestOrderUsecase_GetMyOrderDetail_OthersOrderLooksMissing(t *testing.T) {
	f := newOrderFixture()

	f.orders.On("FindByID", mock.Anything, int64(7)).
		Return(model.Order{ID: 7, UserID: 99, Status: model.OrderStatusNotPaid}, nil)

	_, err := f.uc.GetMyOrderDetail(context.Background(), 1, 7)

	assertKind(t, err, usecase.KindNotFound)
}
