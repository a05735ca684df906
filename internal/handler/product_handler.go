package handler

import (
	"errors"
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// usecaseの失敗をHTTPへ写す。エンジンは構造化された結果しか返さない。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrNotAuthenticated):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, usecase.ErrWrongPassword):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "wrong password"})
	case errors.Is(err, usecase.ErrAccountNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "account not found"})
	case errors.Is(err, usecase.ErrProductNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "product not found"})
	case errors.Is(err, usecase.ErrNotOwner):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, usecase.ErrOutOfStock):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "out of stock"})
	case errors.Is(err, usecase.ErrProductExists):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "product already exists"})
	case errors.Is(err, validator.ErrEmailAlreadyUsed):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "email already used"})
	case errors.Is(err, usecase.ErrEmptyCart):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cart is empty"})
	case errors.Is(err, usecase.ErrInvalidValue):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid value"})
	case errors.Is(err, validator.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid input"})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// /products のHTTP
type ProductHandler struct {
	uc     *usecase.ProductUsecase
	cartUC *usecase.CartUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase, cartUC *usecase.CartUsecase) *ProductHandler {
	return &ProductHandler{uc: uc, cartUC: cartUC}
}

type CreateProductRequest struct {
	ImageURL string `json:"image_url"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Stock    int64  `json:"stock"`
}

type SetStockRequest struct {
	Stock int64 `json:"stock"`
}

type PurchaseSingleRequest struct {
	Confirm bool `json:"confirm"`
}

// 商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/products", h.list)
	//即時購入は元アプリどおりログイン不要（確認だけ必須）
	e.POST("/products/:name/purchase", h.purchaseSingle)

	g := e.Group("/products")
	g.Use(middleware.AuthJWT(cfg))
	g.POST("", h.create)
	g.PATCH("/:name/stock", h.setStock)
}

func (h *ProductHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), userID, usecase.CreateProductInput{
		ImageURL: req.ImageURL,
		Name:     req.Name,
		Price:    req.Price,
		Stock:    req.Stock,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// 即時購入（カートを介さない1個購入）。
// confirm無しは実行しない（確認はエンジンではなく呼び出し側の前提条件）。
func (h *ProductHandler) purchaseSingle(c echo.Context) error {
	var req PurchaseSingleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if !req.Confirm {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "confirmation required"})
	}

	out, err := h.cartUC.PurchaseSingle(c.Request().Context(), c.Param("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) setStock(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req SetStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SetStock(c.Request().Context(), userID, c.Param("name"), req.Stock)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
