package usecase_test

import (
	"context"
	"testing"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
	"shop/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) List(ctx context.Context) ([]repo.CategoryWithCount, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]repo.CategoryWithCount)
	return items, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (repo.CategoryWithCount, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(repo.CategoryWithCount)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Category)
	return out, args.Error(1)
}

func (m *CategoryRepoMock) Update(ctx context.Context, c model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CategoryRepoMock) DeleteCascade(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ProductImageRepoMock struct{ mock.Mock }

func (m *ProductImageRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	args := m.Called(ctx, productID)
	items, _ := args.Get(0).([]model.ProductImage)
	return items, args.Error(1)
}

func (m *ProductImageRepoMock) FindByID(ctx context.Context, imageID int64) (model.ProductImage, error) {
	args := m.Called(ctx, imageID)
	img, _ := args.Get(0).(model.ProductImage)
	return img, args.Error(1)
}

func (m *ProductImageRepoMock) Create(ctx context.Context, img model.ProductImage) (model.ProductImage, error) {
	args := m.Called(ctx, img)
	out, _ := args.Get(0).(model.ProductImage)
	return out, args.Error(1)
}

func (m *ProductImageRepoMock) DeleteByID(ctx context.Context, imageID int64) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

func newProductUC() (*ProductRepoMock, *CategoryRepoMock, *ProductImageRepoMock, *usecase.ProductUsecase) {
	products := new(ProductRepoMock)
	categories := new(CategoryRepoMock)
	images := new(ProductImageRepoMock)
	uc := usecase.NewProductUsecase(products, categories, images)
	return products, categories, images, uc
}

func TestProductUsecase_CreateProduct_OK(t *testing.T) {
	products, categories, _, uc := newProductUC()

	categories.On("FindByID", mock.Anything, int64(3)).
		Return(repo.CategoryWithCount{Category: model.Category{ID: 3, Name: "books"}}, nil)
	products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "Go in Action" && p.Price.Equal(dec("39.90")) && p.CategoryID == 3
	})).Return(model.Product{ID: 1, Name: "Go in Action", Price: dec("39.90"), CategoryID: 3}, nil)

	out, err := uc.CreateProduct(context.Background(), usecase.SaveProductInput{
		Name:       "Go in Action",
		Price:      dec("39.90"),
		Stock:      10,
		CategoryID: 3,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)
	products.AssertExpectations(t)
}

func TestProductUsecase_CreateProduct_NegativePrice(t *testing.T) {
	products, _, _, uc := newProductUC()

	_, err := uc.CreateProduct(context.Background(), usecase.SaveProductInput{
		Name:       "x",
		Price:      dec("-0.01"),
		CategoryID: 3,
	})

	assertKind(t, err, usecase.KindValidation)
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUsecase_CreateProduct_PriceTooHigh(t *testing.T) {
	products, _, _, uc := newProductUC()

	_, err := uc.CreateProduct(context.Background(), usecase.SaveProductInput{
		Name:       "x",
		Price:      dec("1000000.01"),
		CategoryID: 3,
	})

	assertKind(t, err, usecase.KindValidation)
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUsecase_CreateProduct_MissingCategory(t *testing.T) {
	products, categories, _, uc := newProductUC()

	categories.On("FindByID", mock.Anything, int64(3)).
		Return(repo.CategoryWithCount{}, repo.ErrNotFound)

	_, err := uc.CreateProduct(context.Background(), usecase.SaveProductInput{
		Name:       "x",
		Price:      dec("1.00"),
		CategoryID: 3,
	})

	assertKind(t, err, usecase.KindValidation)
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUsecase_CreateProduct_EmptyName(t *testing.T) {
	products, _, _, uc := newProductUC()

	_, err := uc.CreateProduct(context.Background(), usecase.SaveProductInput{
		Name:       "   ",
		Price:      dec("1.00"),
		CategoryID: 3,
	})

	assertKind(t, err, usecase.KindValidation)
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUsecase_ListProducts_InvalidSort(t *testing.T) {
	_, _, _, uc := newProductUC()

	_, err := uc.ListProducts(context.Background(), usecase.ListProductsInput{
		Page:  1,
		Limit: 20,
		Sort:  "cheapest",
	})

	assertKind(t, err, usecase.KindValidation)
}

func TestProductUsecase_ListProducts_MinAboveMax(t *testing.T) {
	_, _, _, uc := newProductUC()

	minP := dec("10.00")
	maxP := dec("5.00")
	_, err := uc.ListProducts(context.Background(), usecase.ListProductsInput{
		Page:     1,
		Limit:    20,
		MinPrice: &minP,
		MaxPrice: &maxP,
	})

	assertKind(t, err, usecase.KindValidation)
}

func TestProductUsecase_GetProductDetail_NotFound(t *testing.T) {
	products, _, _, uc := newProductUC()

	products.On("FindByID", mock.Anything, int64(5)).
		Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetProductDetail(context.Background(), 5)

	assertKind(t, err, usecase.KindNotFound)
}

func TestProductUsecase_GetProductDetail_WithImages(t *testing.T) {
	products, _, images, uc := newProductUC()

	products.On("FindByID", mock.Anything, int64(5)).
		Return(model.Product{ID: 5, Name: "A", Price: dec("10.00")}, nil)
	images.On("ListByProductID", mock.Anything, int64(5)).
		Return([]model.ProductImage{{ID: 1, ProductID: 5, ImageURL: "https://cdn.example.com/a.jpg"}}, nil)

	out, err := uc.GetProductDetail(context.Background(), 5)

	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Images))
}

// =====================
// CategoryUsecase
// =====================

func TestCategoryUsecase_DeleteCategory_Cascades(t *testing.T) {
	categories := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(categories)

	categories.On("DeleteCascade", mock.Anything, int64(3)).Return(nil)

	err := uc.DeleteCategory(context.Background(), 3)

	assert.NoError(t, err)
	categories.AssertExpectations(t)
}

func TestCategoryUsecase_DeleteCategory_NotFound(t *testing.T) {
	categories := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(categories)

	categories.On("DeleteCascade", mock.Anything, int64(3)).Return(repo.ErrNotFound)

	err := uc.DeleteCategory(context.Background(), 3)

	assertKind(t, err, usecase.KindNotFound)
}

func TestCategoryUsecase_CreateCategory_EmptyName(t *testing.T) {
	categories := new(CategoryRepoMock)
	uc := usecase.NewCategoryUsecase(categories)

	_, err := uc.CreateCategory(context.Background(), usecase.SaveCategoryInput{Name: ""})

	assertKind(t, err, usecase.KindValidation)
	categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
