package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"smartshop/internal/events"
	"smartshop/internal/models"
	apperrors "smartshop/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cart is the cart store as seen by the HTTP layer.
type Cart interface {
	AddItem(item models.CartItem) error
	RemoveItem(index int) error
	ClearAll() error
	ReplaceAll(items []models.CartItem) error
	Items() []models.CartItem
	Len() int
	TotalCost() decimal.Decimal
	SummaryText() string
	ShareText() string
}

type CartHandler struct {
	cart      Cart
	publisher events.EventPublisher
	logger    *zap.Logger
}

func NewCartHandler(cart Cart, publisher events.EventPublisher, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cart:      cart,
		publisher: publisher,
		logger:    logger,
	}
}

// GetCart handles GET /api/v1/cart
// @Summary      Cart contents
// @Tags         cart
// @Produce      json
// @Success      200  {object}  CartResponse
// @Router       /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.snapshot())
}

// AddItem handles POST /api/v1/cart/items
// @Summary      Add a product to the cart
// @Description  Adds quantity to the line holding the same product id, or appends a new line. A repeated X-Request-ID replays the first response.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Request-ID  header    string              false  "Idempotency key"
// @Param        request       body      AddCartItemRequest  true   "Cart line"
// @Success      201           {object}  CartResponse
// @Failure      400           {object}  ErrorResponse
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest("invalid cart item", err.Error()))
		return
	}
	if req.Product.ID == 0 {
		c.Error(apperrors.NewValidationError("product is required", "product.id"))
		return
	}

	item := models.CartItem{Product: req.Product, Quantity: req.Quantity}
	if err := h.cart.AddItem(item); err != nil {
		if apperrors.HasCode(err, apperrors.CodeValidationError) {
			c.Error(err)
			return
		}
		h.logger.Error("Cart change not saved", zap.String("operation", "add"), zap.Error(err))
	}

	h.publish(c.Request.Context(), events.CartItemAddedEvent{
		ProductID:  item.Product.ID,
		Title:      item.Product.Title,
		Quantity:   item.Quantity,
		CartSize:   h.cart.Len(),
		OccurredAt: time.Now().UTC(),
	})
	c.JSON(http.StatusCreated, h.snapshot())
}

// RemoveItem handles DELETE /api/v1/cart/items/:index
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Param        index  path      int  true  "Zero-based line position"
// @Success      200    {object}  CartResponse
// @Failure      400    {object}  ErrorResponse  "Index is not a position in the cart"
// @Router       /cart/items/{index} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.Error(apperrors.NewValidationError("index must be an integer", "index"))
		return
	}
	items := h.cart.Items()
	if index < 0 || index >= len(items) {
		c.Error(apperrors.NewValidationError("index out of range", "index"))
		return
	}
	removed := items[index]

	if err := h.cart.RemoveItem(index); err != nil {
		h.logger.Error("Cart change not saved", zap.String("operation", "remove"), zap.Error(err))
	}

	h.publish(c.Request.Context(), events.CartItemRemovedEvent{
		ProductID:  removed.Product.ID,
		Index:      index,
		CartSize:   h.cart.Len(),
		OccurredAt: time.Now().UTC(),
	})
	c.JSON(http.StatusOK, h.snapshot())
}

// ClearCart handles DELETE /api/v1/cart
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  CartResponse
// @Router       /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cart.ClearAll(); err != nil {
		h.logger.Error("Cart change not saved", zap.String("operation", "clear"), zap.Error(err))
	}

	h.publish(c.Request.Context(), events.CartClearedEvent{OccurredAt: time.Now().UTC()})
	c.JSON(http.StatusOK, h.snapshot())
}

// ReplaceCart handles PUT /api/v1/cart
// @Summary      Replace the cart contents
// @Description  Used after the user reorders lines. Every quantity must be at least 1 and product ids must be distinct.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request  body      ReplaceCartRequest  true  "New cart contents"
// @Success      200      {object}  CartResponse
// @Failure      400      {object}  ErrorResponse
// @Router       /cart [put]
func (h *CartHandler) ReplaceCart(c *gin.Context) {
	var req ReplaceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest("invalid cart contents", err.Error()))
		return
	}
	if err := h.cart.ReplaceAll(req.Items); err != nil {
		if apperrors.HasCode(err, apperrors.CodeValidationError) {
			c.Error(err)
			return
		}
		h.logger.Error("Cart change not saved", zap.String("operation", "replace"), zap.Error(err))
	}

	ids := make([]int, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.Product.ID)
	}

	h.publish(c.Request.Context(), events.CartReorderedEvent{ProductIDs: ids, OccurredAt: time.Now().UTC()})
	c.JSON(http.StatusOK, h.snapshot())
}

// ShareCart handles GET /api/v1/cart/share
// @Summary      Shopping list text
// @Tags         cart
// @Produce      json
// @Success      200  {object}  ShareResponse
// @Router       /cart/share [get]
func (h *CartHandler) ShareCart(c *gin.Context) {
	c.JSON(http.StatusOK, ShareResponse{Text: h.cart.ShareText()})
}

func (h *CartHandler) snapshot() CartResponse {
	items := h.cart.Items()
	return CartResponse{
		Items:     items,
		Count:     len(items),
		TotalCost: h.cart.TotalCost(),
		Summary:   h.cart.SummaryText(),
	}
}

func (h *CartHandler) publish(ctx context.Context, event interface{}) {
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish event",
			zap.String("event-type", events.EventType(event)),
			zap.Error(err),
		)
	}
}
