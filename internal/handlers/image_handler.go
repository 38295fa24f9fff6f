package handlers

import (
	"context"
	"net/http"

	"smartshop/internal/imageloader"
	apperrors "smartshop/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ImageFetcher downloads product images.
type ImageFetcher interface {
	FetchImage(ctx context.Context, rawURL string) (*imageloader.Image, error)
}

type ImageHandler struct {
	loader ImageFetcher
}

func NewImageHandler(loader ImageFetcher) *ImageHandler {
	return &ImageHandler{loader: loader}
}

// GetImage handles GET /api/v1/images
// @Summary      Proxy a product image
// @Tags         images
// @Produce      octet-stream
// @Param        url  query     string  true  "Image URL from a product's images list"
// @Success      200  {file}    binary
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /images [get]
func (h *ImageHandler) GetImage(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.Error(apperrors.NewValidationError("url is required", "url"))
		return
	}

	img, err := h.loader.FetchImage(c.Request.Context(), rawURL)
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, img.ContentType, img.Data)
}
