package repository

import (
	"context"

	"shop/internal/domain/model"
)

type ReviewRepository interface {
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)
	FindByID(ctx context.Context, reviewID int64) (model.Review, error)
	Create(ctx context.Context, rv model.Review) (model.Review, error)
	Update(ctx context.Context, rv model.Review) error
	DeleteByID(ctx context.Context, reviewID int64) error
}
