package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"smartshop/internal/catalog"
	"smartshop/internal/events"
	"smartshop/internal/models"
	apperrors "smartshop/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductCatalog is the catalog client as seen by the HTTP layer.
type ProductCatalog interface {
	FetchInitialProducts(ctx context.Context) ([]models.Product, error)
	FetchAdditionalProducts(ctx context.Context) (catalog.Range, error)
	FilterByTitle(ctx context.Context, title string) ([]models.Product, error)
	FilterByParameters(ctx context.Context, params models.FilterParameters) ([]models.Product, error)
	Products() []models.Product
	Categories() []models.Category
	Mode() catalog.Mode
	Pagination() catalog.PaginationState
}

// SearchHistory records committed searches.
type SearchHistory interface {
	AddQuery(ctx context.Context, query string) error
	History(ctx context.Context) []string
}

type CatalogHandler struct {
	catalog   ProductCatalog
	history   SearchHistory
	publisher events.EventPublisher
	logger    *zap.Logger
}

func NewCatalogHandler(productCatalog ProductCatalog, history SearchHistory, publisher events.EventPublisher, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:   productCatalog,
		history:   history,
		publisher: publisher,
		logger:    logger,
	}
}

// ListProducts handles GET /api/v1/products
// @Summary      Load the first page
// @Description  Resets paging, returns to browsing mode and replaces the held products with the first page. Also used for pull-to-refresh and retry.
// @Tags         products
// @Produce      json
// @Success      200  {object}  ProductListResponse
// @Failure      404  {object}  ProductListResponse  "Catalog endpoint not found"
// @Failure      502  {object}  ProductListResponse  "Transport, status or decode failure"
// @Router       /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.FetchInitialProducts(c.Request.Context())
	h.respondWithProducts(c, products, err)
}

// LoadMoreProducts handles GET /api/v1/products/more
// @Summary      Load the next page
// @Description  Appends the next page while browsing. A call made while a page is loading returns an empty range without contacting the catalog.
// @Tags         products
// @Produce      json
// @Success      200  {object}  MoreProductsResponse
// @Failure      409  {object}  MoreProductsResponse  "Not browsing (search or filter active)"
// @Failure      502  {object}  MoreProductsResponse  "Transport, status or decode failure"
// @Router       /products/more [get]
func (h *CatalogHandler) LoadMoreProducts(c *gin.Context) {
	added, err := h.catalog.FetchAdditionalProducts(c.Request.Context())

	response := MoreProductsResponse{
		Start:    added.Start,
		End:      added.End,
		Offset:   h.catalog.Pagination().Offset,
		Products: []models.Product{},
	}
	if err != nil {
		stdErr := toStandardError(err)
		response.Error = stdErr
		c.JSON(stdErr.HTTPStatus(), response)
		return
	}

	if !added.Empty() {
		held := h.catalog.Products()
		if added.End <= len(held) {
			response.Products = held[added.Start:added.End]
		}
	}
	c.JSON(http.StatusOK, response)
}

// SearchProducts handles GET /api/v1/products/search
// @Summary      Search by title
// @Description  Replaces the held products with the title search result. A non-empty title is recorded in the search history.
// @Tags         products
// @Produce      json
// @Param        title  query     string  false  "Title to search for; empty sends no parameter"  example(shirt)
// @Success      200    {object}  ProductListResponse
// @Failure      502    {object}  ProductListResponse
// @Router       /products/search [get]
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	title := strings.TrimSpace(c.Query(catalog.ParamTitle))
	ctx := c.Request.Context()

	if title != "" {
		if err := h.history.AddQuery(ctx, title); err != nil {
			h.logger.Warn("Search history not updated", zap.String("query", title), zap.Error(err))
		}
	}

	products, err := h.catalog.FilterByTitle(ctx, title)
	if err == nil && title != "" {
		h.publish(ctx, events.SearchCommittedEvent{
			Query:       title,
			ResultCount: len(products),
			OccurredAt:  time.Now().UTC(),
		})
	}
	h.respondWithProducts(c, products, err)
}

// FilterProducts handles GET /api/v1/products/filter
// @Summary      Filter by price and category
// @Description  Replaces the held products with the filter result. A parameter given with an empty value (e.g. `price=`) is forwarded as an explicit empty value, which resets that filter upstream; an omitted parameter is not sent.
// @Tags         products
// @Produce      json
// @Param        price       query     string  false  "Exact price"
// @Param        price_min   query     string  false  "Minimum price"
// @Param        price_max   query     string  false  "Maximum price"
// @Param        categoryId  query     string  false  "Category id"
// @Success      200         {object}  ProductListResponse
// @Failure      400         {object}  ErrorResponse  "Non-numeric filter value"
// @Failure      502         {object}  ProductListResponse
// @Router       /products/filter [get]
func (h *CatalogHandler) FilterProducts(c *gin.Context) {
	params, invalid := filterParametersFromQuery(c)
	if invalid != nil {
		c.Error(invalid)
		return
	}

	products, err := h.catalog.FilterByParameters(c.Request.Context(), params)
	h.respondWithProducts(c, products, err)
}

// ListCategories handles GET /api/v1/products/categories
// @Summary      Categories of the held products
// @Tags         products
// @Produce      json
// @Success      200  {object}  CategoriesResponse
// @Router       /products/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, CategoriesResponse{Categories: h.catalog.Categories()})
}

// ShareProduct handles GET /api/v1/products/:id/share
// @Summary      Share text for a held product
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product id"
// @Success      200  {object}  ShareResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse  "Product is not in the held result set"
// @Router       /products/{id}/share [get]
func (h *CatalogHandler) ShareProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.Error(apperrors.NewValidationError("product id must be an integer", "id"))
		return
	}

	for _, p := range h.catalog.Products() {
		if p.ID == id {
			c.JSON(http.StatusOK, ShareResponse{Text: p.ShareText()})
			return
		}
	}
	c.Error(apperrors.NewStandardError(apperrors.CodeNotFound, "product is not loaded", "ID: "+c.Param("id")))
}

func (h *CatalogHandler) respondWithProducts(c *gin.Context, products []models.Product, err error) {
	response := ProductListResponse{
		Products: products,
		Mode:     h.catalog.Mode().String(),
	}
	if response.Products == nil {
		response.Products = []models.Product{}
	}
	if err != nil {
		stdErr := toStandardError(err)
		response.Error = stdErr
		c.JSON(stdErr.HTTPStatus(), response)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *CatalogHandler) publish(ctx context.Context, event interface{}) {
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish event",
			zap.String("event-type", events.EventType(event)),
			zap.Error(err),
		)
	}
}

// filterParametersFromQuery keeps the difference between an omitted key
// (nil) and a key given with an empty value (pointer to "").
func filterParametersFromQuery(c *gin.Context) (models.FilterParameters, *apperrors.StandardError) {
	query := c.Request.URL.Query()
	lookup := func(name string) *string {
		values, ok := query[name]
		if !ok {
			return nil
		}
		v := ""
		if len(values) > 0 {
			v = strings.TrimSpace(values[0])
		}
		return &v
	}

	params := models.FilterParameters{
		Price:      lookup(catalog.ParamPrice),
		PriceMin:   lookup(catalog.ParamPriceMin),
		PriceMax:   lookup(catalog.ParamPriceMax),
		CategoryID: lookup(catalog.ParamCategoryID),
	}

	for name, value := range map[string]*string{
		catalog.ParamPrice:    params.Price,
		catalog.ParamPriceMin: params.PriceMin,
		catalog.ParamPriceMax: params.PriceMax,
	} {
		if value == nil || *value == "" {
			continue
		}
		if _, err := strconv.ParseFloat(*value, 64); err != nil {
			return params, apperrors.NewValidationError("price filters must be numeric", name)
		}
	}
	if params.CategoryID != nil && *params.CategoryID != "" {
		if _, err := strconv.Atoi(*params.CategoryID); err != nil {
			return params, apperrors.NewValidationError("category id must be an integer", catalog.ParamCategoryID)
		}
	}
	return params, nil
}

func toStandardError(err error) *apperrors.StandardError {
	if stdErr, ok := apperrors.As(err); ok {
		return stdErr
	}
	return apperrors.NewInternalError("internal server error", err)
}
