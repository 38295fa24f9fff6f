package handlers

import (
	"smartshop/internal/models"
	apperrors "smartshop/pkg/errors"

	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every failed request.
// @Description Standard error body
type ErrorResponse struct {
	// Error kind, e.g. NotFound, DecodeError, ValidationError
	Error string `json:"error" example:"NotFound"`
	// Human-readable message
	Message string `json:"message" example:"the requested resource was not found"`
	// Extra context such as the failing URL or field
	Details string `json:"details" example:"URL: https://api.escuelajs.co/api/v1/products?offset=0&limit=8"`
	// Upstream status for UnexpectedStatus
	StatusCode int `json:"status_code,omitempty" example:"503"`
}

// ProductListResponse carries the held result set. On failure Products is
// empty and Error says why, so "nothing found" and "download failed" differ.
// @Description Current product result set
type ProductListResponse struct {
	Products []models.Product         `json:"products"`
	Mode     string                   `json:"mode" example:"browsing"`
	Error    *apperrors.StandardError `json:"error,omitempty" swaggertype:"object"`
}

// MoreProductsResponse reports the positions appended by a page load.
// @Description Page load result; start == end when nothing was appended
type MoreProductsResponse struct {
	Start    int                      `json:"start" example:"8"`
	End      int                      `json:"end" example:"16"`
	Offset   int                      `json:"offset" example:"16"`
	Products []models.Product         `json:"products"`
	Error    *apperrors.StandardError `json:"error,omitempty" swaggertype:"object"`
}

// CategoriesResponse lists distinct categories of the held products.
type CategoriesResponse struct {
	Categories []models.Category `json:"categories"`
}

// ShareResponse is text for the platform share sheet.
type ShareResponse struct {
	Text string `json:"text" example:"My Shopping List."`
}

// AddCartItemRequest adds quantity of product to the cart.
// @Description Cart line to add; merged with an existing line of the same product
type AddCartItemRequest struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity" binding:"required,min=1" example:"1"`
}

// ReplaceCartRequest replaces the cart contents in the given order.
type ReplaceCartRequest struct {
	Items []models.CartItem `json:"items" binding:"required"`
}

// CartResponse is the cart with its derived totals.
// @Description Cart contents
type CartResponse struct {
	Items     []models.CartItem `json:"items"`
	Count     int               `json:"count" example:"2"`
	TotalCost decimal.Decimal   `json:"total_cost" swaggertype:"string" example:"125"`
	Summary   string            `json:"summary" example:"Sneaker - 2 pcs"`
}

// HistoryResponse lists recent searches, newest first.
type HistoryResponse struct {
	Queries []string `json:"queries"`
}
