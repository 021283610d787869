package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type ProductImageUsecase struct {
	imageRepo   repo.ProductImageRepository
	productRepo repo.ProductRepository
}

// DI
func NewProductImageUsecase(
	imageRepo repo.ProductImageRepository,
	productRepo repo.ProductRepository,
) *ProductImageUsecase {
	return &ProductImageUsecase{
		imageRepo:   imageRepo,
		productRepo: productRepo,
	}
}

type AddImageInput struct {
	ImageURL string
}

func (u *ProductImageUsecase) ListByProduct(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	if productID <= 0 {
		return []model.ProductImage{}, validation("invalid product id")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return []model.ProductImage{}, notFound("product not found")
		}
		return []model.ProductImage{}, internal("db error")
	}

	images, err := u.imageRepo.ListByProductID(ctx, productID)
	if err != nil {
		return []model.ProductImage{}, internal("db error")
	}
	return images, nil
}

// 管理者用：画像URLを登録。アップロード自体は外部ストレージ側の仕事。
func (u *ProductImageUsecase) AddImage(ctx context.Context, productID int64, in AddImageInput) (model.ProductImage, error) {
	if productID <= 0 {
		return model.ProductImage{}, validation("invalid product id")
	}

	raw := strings.TrimSpace(in.ImageURL)
	if raw == "" {
		return model.ProductImage{}, validation("image_url is required")
	}
	if len(raw) > 500 {
		return model.ProductImage{}, validation("image_url too long")
	}
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return model.ProductImage{}, validation("image_url must be a valid http(s) URL")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.ProductImage{}, notFound("product not found")
		}
		return model.ProductImage{}, internal("db error")
	}

	img, err := u.imageRepo.Create(ctx, model.ProductImage{
		ProductID: productID,
		ImageURL:  raw,
	})
	if err != nil {
		return model.ProductImage{}, translateTxError(err)
	}
	return img, nil
}

// 管理者用：画像を削除
func (u *ProductImageUsecase) DeleteImage(ctx context.Context, productID int64, imageID int64) error {
	if productID <= 0 || imageID <= 0 {
		return validation("invalid id")
	}

	img, err := u.imageRepo.FindByID(ctx, imageID)
	if errors.Is(err, repo.ErrNotFound) {
		return notFound("image not found")
	}
	if err != nil {
		return internal("db error")
	}

	//URL上のproductと紐づいていない画像は触らせない
	if img.ProductID != productID {
		return notFound("image not found")
	}

	if err := u.imageRepo.DeleteByID(ctx, imageID); err != nil {
		return internal("db error")
	}
	return nil
}
