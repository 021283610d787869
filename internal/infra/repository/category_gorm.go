package repository

import (
	"context"
	"errors"

	"shop/internal/domain/model"
	repo "shop/internal/repository"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

// 商品数つきで一覧を返す（削除済み商品は数えない）
func (r *CategoryGormRepository) List(ctx context.Context) ([]repo.CategoryWithCount, error) {
	var items []repo.CategoryWithCount

	err := r.db.WithContext(ctx).
		Table("categories").
		Select("categories.*, count(products.id) as product_count").
		Joins("left join products on products.category_id = categories.id AND products.deleted_at IS NULL").
		Group("categories.id").
		Order("categories.id asc").
		Scan(&items).Error
	if err != nil {
		return []repo.CategoryWithCount{}, err
	}

	return items, nil
}

func (r *CategoryGormRepository) FindByID(ctx context.Context, id int64) (repo.CategoryWithCount, error) {
	var c repo.CategoryWithCount

	res := r.db.WithContext(ctx).
		Table("categories").
		Select("categories.*, count(products.id) as product_count").
		Joins("left join products on products.category_id = categories.id AND products.deleted_at IS NULL").
		Where("categories.id = ?", id).
		Group("categories.id").
		Scan(&c)

	if res.Error != nil {
		return repo.CategoryWithCount{}, res.Error
	}
	if res.RowsAffected == 0 {
		return repo.CategoryWithCount{}, repo.ErrNotFound
	}
	return c, nil
}

func (r *CategoryGormRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Category{}, translatePGError(err)
	}
	return c, nil
}

func (r *CategoryGormRepository) Update(ctx context.Context, c model.Category) error {
	res := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":        c.Name,
			"description": c.Description,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// カテゴリと配下の商品・画像・レビューを1トランザクションで消す。
// 暗黙のカスケードにせず、消す順番をここに書いておく。
func (r *CategoryGormRepository) DeleteCascade(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Category
		if err := tx.Where("id = ?", id).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repo.ErrNotFound
			}
			return err
		}

		//対象カテゴリの商品ID（削除済み含む）
		var productIDs []int64
		if err := tx.Unscoped().Model(&model.Product{}).
			Where("category_id = ?", id).
			Pluck("id", &productIDs).Error; err != nil {
			return err
		}

		if len(productIDs) > 0 {
			if err := tx.Where("product_id IN ?", productIDs).Delete(&model.Review{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id IN ?", productIDs).Delete(&model.ProductImage{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("category_id = ?", id).Delete(&model.Product{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&model.Category{}, id).Error; err != nil {
			return err
		}

		return nil
	})
}
