package handler

import (
	"net/http"
	"strconv"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products/:id/images のHTTP
type ProductImageHandler struct {
	uc *usecase.ProductImageUsecase
}

// DI
func NewProductImageHandler(uc *usecase.ProductImageUsecase) *ProductImageHandler {
	return &ProductImageHandler{uc: uc}
}

type AddImageRequest struct {
	ImageURL string `json:"image_url"`
}

func (h *ProductImageHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/products/:id/images", h.list)

	//登録・削除は管理者だけ
	auth := middleware.AuthJWT(cfg)
	admin := middleware.AdminRoleGuard()
	e.POST("/products/:id/images", h.create, auth, admin)
	e.DELETE("/products/:id/images/:imageID", h.delete, auth, admin)
}

func (h *ProductImageHandler) list(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.ListByProduct(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductImageHandler) create(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AddImageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddImage(c.Request().Context(), productID, usecase.AddImageInput{
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductImageHandler) delete(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	imageID, err := strconv.ParseInt(c.Param("imageID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteImage(c.Request().Context(), productID, imageID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
