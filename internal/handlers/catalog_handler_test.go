package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartshop/internal/catalog"
	"smartshop/internal/events"
	"smartshop/internal/history"
	"smartshop/internal/kvstore"
	"smartshop/internal/models"
	apperrors "smartshop/pkg/errors"
	"smartshop/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCatalog is a mock implementation of ProductCatalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) FetchInitialProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockCatalog) FetchAdditionalProducts(ctx context.Context) (catalog.Range, error) {
	args := m.Called(ctx)
	return args.Get(0).(catalog.Range), args.Error(1)
}

func (m *MockCatalog) FilterByTitle(ctx context.Context, title string) ([]models.Product, error) {
	args := m.Called(ctx, title)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockCatalog) FilterByParameters(ctx context.Context, params models.FilterParameters) ([]models.Product, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockCatalog) Products() []models.Product {
	return m.Called().Get(0).([]models.Product)
}

func (m *MockCatalog) Categories() []models.Category {
	return m.Called().Get(0).([]models.Category)
}

func (m *MockCatalog) Mode() catalog.Mode {
	return m.Called().Get(0).(catalog.Mode)
}

func (m *MockCatalog) Pagination() catalog.PaginationState {
	return m.Called().Get(0).(catalog.PaginationState)
}

func testProducts(n int) []models.Product {
	products := make([]models.Product, 0, n)
	for i := 1; i <= n; i++ {
		products = append(products, models.Product{
			ID:       i,
			Title:    "Product",
			Price:    10 * i,
			Images:   []string{},
			Category: models.Category{ID: 1, Name: "Clothes"},
		})
	}
	return products
}

func setupCatalogRouter(mockCatalog *MockCatalog) (*gin.Engine, *history.Store, *events.InMemoryEventPublisher) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	historyStore := history.NewStore(kvstore.NewMemoryStore(), logger)
	publisher := events.NewInMemoryEventPublisher(logger)
	handler := NewCatalogHandler(mockCatalog, historyStore, publisher, logger)

	router := gin.New()
	router.Use(middleware.ErrorHandler(logger))
	products := router.Group("/api/v1/products")
	{
		products.GET("", handler.ListProducts)
		products.GET("/more", handler.LoadMoreProducts)
		products.GET("/search", handler.SearchProducts)
		products.GET("/filter", handler.FilterProducts)
		products.GET("/categories", handler.ListCategories)
		products.GET("/:id/share", handler.ShareProduct)
	}
	return router, historyStore, publisher
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListProducts_Success(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockCatalog.On("FetchInitialProducts", mock.Anything).Return(testProducts(8), nil)
	mockCatalog.On("Mode").Return(catalog.Browsing)
	router, _, _ := setupCatalogRouter(mockCatalog)

	w := get(router, "/api/v1/products")

	assert.Equal(t, http.StatusOK, w.Code)
	var response ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Products, 8)
	assert.Equal(t, "browsing", response.Mode)
	assert.Nil(t, response.Error)
	mockCatalog.AssertExpectations(t)
}

func TestListProducts_FailureCarriesEmptyListAndError(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockCatalog.On("FetchInitialProducts", mock.Anything).
		Return([]models.Product{}, apperrors.NewUnexpectedStatus(503, "https://catalog"))
	mockCatalog.On("Mode").Return(catalog.Browsing)
	router, _, _ := setupCatalogRouter(mockCatalog)

	w := get(router, "/api/v1/products")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []interface{}{}, body["products"])
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, apperrors.CodeUnexpectedStatus, errBody["error"])
	assert.Equal(t, float64(503), errBody["status_code"])
}

func TestLoadMoreProducts(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockCatalog.On("FetchAdditionalProducts", mock.Anything).Return(catalog.Range{Start: 8, End: 12}, nil)
	mockCatalog.On("Pagination").Return(catalog.PaginationState{Offset: 16, Limit: 8})
	mockCatalog.On("Products").Return(testProducts(12))
	router, _, _ := setupCatalogRouter(mockCatalog)

	w := get(router, "/api/v1/products/more")

	assert.Equal(t, http.StatusOK, w.Code)
	var response MoreProductsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 8, response.Start)
	assert.Equal(t, 12, response.End)
	assert.Equal(t, 16, response.Offset)
	require.Len(t, response.Products, 4)
	assert.Equal(t, 9, response.Products[0].ID)
}

func TestLoadMoreProducts_DroppedWhileLoading(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockCatalog.On("FetchAdditionalProducts", mock.Anything).Return(catalog.Range{}, nil)
	mockCatalog.On("Pagination").Return(catalog.PaginationState{Offset: 8, Limit: 8, IsLoadingMore: true})
	router, _, _ := setupCatalogRouter(mockCatalog)

	w := get(router, "/api/v1/products/more")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"start":0,"end":0,"offset":8,"products":[]}`, w.Body.String())
	mockCatalog.AssertNotCalled(t, "Products")
}

func TestLoadMoreProducts_NotBrowsing(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockCatalog.On("FetchAdditionalProducts", mock.Anything).Return(catalog.Range{}, apperrors.NewPagingUnavailable("searching"))
	mockCatalog.On("Pagination").Return(catalog.PaginationState{Offset: 8, Limit: 8})
	router, _, _ := setupCatalogRouter(mockCatalog)

	w := get(router, "/api/v1/products/more")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodePagingUnavailable)
}

func TestSearchProducts_RecordsHistoryAndPublishes(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockCatalog.On("FilterByTitle", mock.Anything, "shirt").Return(testProducts(3), nil)
	mockCatalog.On("Mode").Return(catalog.Searching)
	router, historyStore, publisher := setupCatalogRouter(mockCatalog)

	w := get(router, "/api/v1/products/search?title=shirt")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mode":"searching"`)
	assert.Equal(t, []string{"shirt"}, historyStore.History(context.Background()))

	published := publisher.Events()
	require.Len(t, published, 1)
	event := published[0].(events.SearchCommittedEvent)
	assert.Equal(t, "shirt", event.Query)
	assert.Equal(t, 3, event.ResultCount)
}

func TestSearchProducts_EmptyTitle(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockCatalog.On("FilterByTitle", mock.Anything, "").Return(testProducts(8), nil)
	mockCatalog.On("Mode").Return(catalog.Searching)
	router, historyStore, publisher := setupCatalogRouter(mockCatalog)

	w := get(router, "/api/v1/products/search")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, historyStore.History(context.Background()))
	assert.Empty(t, publisher.Events())
}

func TestSearchProducts_TrimsTitle(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockCatalog.On("FilterByTitle", mock.Anything, "shoes").Return(testProducts(3), nil)
	mockCatalog.On("FilterByTitle", mock.Anything, "").Return(testProducts(8), nil)
	mockCatalog.On("Mode").Return(catalog.Searching)
	router, historyStore, publisher := setupCatalogRouter(mockCatalog)

	w := get(router, "/api/v1/products/search?title=%20%20shoes%20")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(router, "/api/v1/products/search?title=%20%20%20")
	assert.Equal(t, http.StatusOK, w.Code)

	mockCatalog.AssertExpectations(t)
	assert.Equal(t, []string{"shoes"}, historyStore.History(context.Background()))
	require.Len(t, publisher.Events(), 1)
	assert.Equal(t, "shoes", publisher.Events()[0].(events.SearchCommittedEvent).Query)
}

func TestFilterProducts_PresenceIsPreserved(t *testing.T) {
	empty, priceMin := "", "10"
	mockCatalog := new(MockCatalog)
	mockCatalog.On("FilterByParameters", mock.Anything, models.FilterParameters{
		Price:    &empty,
		PriceMin: &priceMin,
	}).Return(testProducts(2), nil)
	mockCatalog.On("Mode").Return(catalog.Filtered)
	router, _, _ := setupCatalogRouter(mockCatalog)

	w := get(router, "/api/v1/products/filter?price=&price_min=10")

	assert.Equal(t, http.StatusOK, w.Code)
	mockCatalog.AssertExpectations(t)
}

func TestFilterProducts_Reset(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockCatalog.On("FilterByParameters", mock.Anything, models.ResetFilters()).Return(testProducts(8), nil)
	mockCatalog.On("Mode").Return(catalog.Filtered)
	router, _, _ := setupCatalogRouter(mockCatalog)

	w := get(router, "/api/v1/products/filter?price=&price_min=&price_max=&categoryId=")

	assert.Equal(t, http.StatusOK, w.Code)
	mockCatalog.AssertExpectations(t)
}

func TestFilterProducts_Validation(t *testing.T) {
	mockCatalog := new(MockCatalog)
	router, _, _ := setupCatalogRouter(mockCatalog)

	for _, query := range []string{"price_min=cheap", "price_max=1e", "categoryId=shoes"} {
		t.Run(query, func(t *testing.T) {
			w := get(router, "/api/v1/products/filter?"+query)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), apperrors.CodeValidationError)
		})
	}
	mockCatalog.AssertNotCalled(t, "FilterByParameters", mock.Anything, mock.Anything)
}

func TestListCategories(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockCatalog.On("Categories").Return([]models.Category{{ID: 1, Name: "Clothes"}, {ID: 2, Name: "Shoes"}})
	router, _, _ := setupCatalogRouter(mockCatalog)

	w := get(router, "/api/v1/products/categories")

	assert.Equal(t, http.StatusOK, w.Code)
	var response CategoriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Categories, 2)
}

func TestShareProduct(t *testing.T) {
	mockCatalog := new(MockCatalog)
	mockCatalog.On("Products").Return(testProducts(3))
	router, _, _ := setupCatalogRouter(mockCatalog)

	w := get(router, "/api/v1/products/2/share")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Check out this product")

	w = get(router, "/api/v1/products/99/share")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(router, "/api/v1/products/abc/share")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
