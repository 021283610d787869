package usecase

import (
	"context"
	"errors"
	"strings"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"github.com/shopspring/decimal"
)

// 価格の上限。これを超える商品は登録させない。
var maxProductPrice = decimal.NewFromInt(1000000)

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	imageRepo    repo.ProductImageRepository
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	imageRepo repo.ProductImageRepository,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		imageRepo:    imageRepo,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type ProductDetailOutput struct {
	model.Product
	Images []model.ProductImage `json:"images"`
}

type SaveProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	CategoryID  int64
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, validation("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, validation("invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, validation("q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ProductListOutput{}, validation("min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ProductListOutput{}, validation("max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ProductListOutput{}, validation("min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc", "stock_asc", "stock_desc":
	default:
		return ProductListOutput{}, validation("invalid sort")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Q:          strings.TrimSpace(in.Q),
		CategoryID: in.CategoryID,
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
		Sort:       in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, internal("db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, validation("invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDetailOutput{}, notFound("product not found")
	}
	if err != nil {
		return ProductDetailOutput{}, internal("db error")
	}

	images, err := u.imageRepo.ListByProductID(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, internal("db error")
	}

	return ProductDetailOutput{Product: p, Images: images}, nil
}

// 管理者用：商品登録
func (u *ProductUsecase) CreateProduct(ctx context.Context, in SaveProductInput) (model.Product, error) {
	if err := u.validateProductInput(ctx, in); err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
	})
	if err != nil {
		return model.Product{}, translateTxError(err)
	}
	return p, nil
}

// 管理者用：商品更新
func (u *ProductUsecase) UpdateProduct(ctx context.Context, productID int64, in SaveProductInput) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, validation("invalid product id")
	}
	if err := u.validateProductInput(ctx, in); err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, notFound("product not found")
	}
	if err != nil {
		return model.Product{}, internal("db error")
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.CategoryID = in.CategoryID

	if err := u.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, notFound("product not found")
		}
		return model.Product{}, translateTxError(err)
	}
	return p, nil
}

// 管理者用：商品削除（ソフトデリート）
func (u *ProductUsecase) DeleteProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return validation("invalid product id")
	}

	err := u.productRepo.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return notFound("product not found")
	}
	if err != nil {
		return internal("db error")
	}
	return nil
}

// 価格・在庫・カテゴリの入力チェック。保存前に弾く（丸めてごまかさない）。
func (u *ProductUsecase) validateProductInput(ctx context.Context, in SaveProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return validation("name is required")
	}
	if len(in.Name) > 100 {
		return validation("name too long")
	}
	if in.Price.IsNegative() {
		return validation("price cannot be negative")
	}
	if in.Price.GreaterThan(maxProductPrice) {
		return validation("price cannot be greater than 1000000")
	}
	if in.Stock < 0 {
		return validation("stock cannot be negative")
	}
	if in.CategoryID <= 0 {
		return validation("invalid category id")
	}

	_, err := u.categoryRepo.FindByID(ctx, in.CategoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return validation("category does not exist")
	}
	if err != nil {
		return internal("db error")
	}
	return nil
}
