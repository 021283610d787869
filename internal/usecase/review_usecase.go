package usecase

import (
	"context"
	"errors"

	"shop/internal/domain/model"
	repo "shop/internal/repository"
)

type ReviewUsecase struct {
	reviewRepo  repo.ReviewRepository
	productRepo repo.ProductRepository
	userRepo    repo.UserRepository
}

// DI
func NewReviewUsecase(
	reviewRepo repo.ReviewRepository,
	productRepo repo.ProductRepository,
	userRepo repo.UserRepository,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

type SaveReviewInput struct {
	Rating  int
	Comment string
}

// レビュー＋投稿者の表示名
type ReviewOutput struct {
	model.Review
	Author string `json:"author"`
}

func (u *ReviewUsecase) ListByProduct(ctx context.Context, productID int64) ([]ReviewOutput, error) {
	if productID <= 0 {
		return []ReviewOutput{}, validation("invalid product id")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return []ReviewOutput{}, notFound("product not found")
		}
		return []ReviewOutput{}, internal("db error")
	}

	reviews, err := u.reviewRepo.ListByProductID(ctx, productID)
	if err != nil {
		return []ReviewOutput{}, internal("db error")
	}

	outs := make([]ReviewOutput, 0, len(reviews))
	for _, rv := range reviews {
		outs = append(outs, u.toOutput(ctx, rv))
	}
	return outs, nil
}

// CreateReview はレビューを投稿する。投稿者はトークンの本人。
func (u *ReviewUsecase) CreateReview(ctx context.Context, userID int64, productID int64, in SaveReviewInput) (ReviewOutput, error) {
	if userID <= 0 {
		return ReviewOutput{}, permissionDenied("unauthorized")
	}
	if productID <= 0 {
		return ReviewOutput{}, validation("invalid product id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return ReviewOutput{}, validation("rating must be between 1 and 5")
	}

	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ReviewOutput{}, notFound("product not found")
		}
		return ReviewOutput{}, internal("db error")
	}

	rv, err := u.reviewRepo.Create(ctx, model.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	})
	if err != nil {
		return ReviewOutput{}, translateTxError(err)
	}
	return u.toOutput(ctx, rv), nil
}

// UpdateReview は本人のレビューだけ更新できる。
func (u *ReviewUsecase) UpdateReview(ctx context.Context, userID int64, reviewID int64, in SaveReviewInput) (ReviewOutput, error) {
	if userID <= 0 {
		return ReviewOutput{}, permissionDenied("unauthorized")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return ReviewOutput{}, validation("rating must be between 1 and 5")
	}

	rv, err := u.reviewRepo.FindByID(ctx, reviewID)
	if errors.Is(err, repo.ErrNotFound) {
		return ReviewOutput{}, notFound("review not found")
	}
	if err != nil {
		return ReviewOutput{}, internal("db error")
	}

	//作者チェック
	if rv.UserID != userID {
		return ReviewOutput{}, permissionDenied("not your review")
	}

	rv.Rating = in.Rating
	rv.Comment = in.Comment
	if err := u.reviewRepo.Update(ctx, rv); err != nil {
		return ReviewOutput{}, internal("db error")
	}
	return u.toOutput(ctx, rv), nil
}

// DeleteReview は本人のレビューだけ削除できる。
func (u *ReviewUsecase) DeleteReview(ctx context.Context, userID int64, reviewID int64) error {
	if userID <= 0 {
		return permissionDenied("unauthorized")
	}

	rv, err := u.reviewRepo.FindByID(ctx, reviewID)
	if errors.Is(err, repo.ErrNotFound) {
		return notFound("review not found")
	}
	if err != nil {
		return internal("db error")
	}

	if rv.UserID != userID {
		return permissionDenied("not your review")
	}

	if err := u.reviewRepo.DeleteByID(ctx, reviewID); err != nil {
		return internal("db error")
	}
	return nil
}

func (u *ReviewUsecase) toOutput(ctx context.Context, rv model.Review) ReviewOutput {
	out := ReviewOutput{Review: rv}

	//表示名は取れたら付ける程度（失敗してもレビュー自体は返す）
	if user, err := u.userRepo.FindByID(ctx, rv.UserID); err == nil {
		out.Author = user.FirstName + " " + user.LastName
	}
	return out
}
