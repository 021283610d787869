package usecase

import (
	"context"
	"errors"
	"strings"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
}

// DI
func NewCategoryUsecase(categoryRepo repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo}
}

type SaveCategoryInput struct {
	Name        string
	Description string
}

func (u *CategoryUsecase) ListCategories(ctx context.Context) ([]repo.CategoryWithCount, error) {
	items, err := u.categoryRepo.List(ctx)
	if err != nil {
		return []repo.CategoryWithCount{}, internal("db error")
	}
	return items, nil
}

func (u *CategoryUsecase) GetCategoryDetail(ctx context.Context, categoryID int64) (repo.CategoryWithCount, error) {
	if categoryID <= 0 {
		return repo.CategoryWithCount{}, validation("invalid category id")
	}

	c, err := u.categoryRepo.FindByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return repo.CategoryWithCount{}, notFound("category not found")
	}
	if err != nil {
		return repo.CategoryWithCount{}, internal("db error")
	}
	return c, nil
}

// 管理者用：カテゴリ作成
func (u *CategoryUsecase) CreateCategory(ctx context.Context, in SaveCategoryInput) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, validation("name is required")
	}
	if len(name) > 100 {
		return model.Category{}, validation("name too long")
	}

	c, err := u.categoryRepo.Create(ctx, model.Category{
		Name:        name,
		Description: in.Description,
	})
	if err != nil {
		return model.Category{}, translateTxError(err)
	}
	return c, nil
}

// 管理者用：カテゴリ更新
func (u *CategoryUsecase) UpdateCategory(ctx context.Context, categoryID int64, in SaveCategoryInput) (model.Category, error) {
	if categoryID <= 0 {
		return model.Category{}, validation("invalid category id")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, validation("name is required")
	}
	if len(name) > 100 {
		return model.Category{}, validation("name too long")
	}

	c := model.Category{
		ID:          categoryID,
		Name:        name,
		Description: in.Description,
	}
	err := u.categoryRepo.Update(ctx, c)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, notFound("category not found")
	}
	if err != nil {
		return model.Category{}, internal("db error")
	}
	return c, nil
}

// 管理者用：カテゴリ削除。配下の商品ごと消える。
// 破壊的な操作なのでhandler側でADMINを必須にしている。
func (u *CategoryUsecase) DeleteCategory(ctx context.Context, categoryID int64) error {
	if categoryID <= 0 {
		return validation("invalid category id")
	}

	err := u.categoryRepo.DeleteCascade(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return notFound("category not found")
	}
	if err != nil {
		return internal("db error")
	}
	return nil
}
