package repository

import (
	"context"

	"shop/internal/domain/model"
)

type ProductImageRepository interface {
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error)
	FindByID(ctx context.Context, imageID int64) (model.ProductImage, error)
	Create(ctx context.Context, img model.ProductImage) (model.ProductImage, error)
	DeleteByID(ctx context.Context, imageID int64) error
}
