package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"smartshop/internal/kvstore"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestIDMiddleware_GenerateID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware(zap.NewNop()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c)})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	responseID := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(responseID)
	assert.NoError(t, err)
	assert.Contains(t, w.Body.String(), responseID)
}

func TestRequestIDMiddleware_UseProvidedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware(zap.NewNop()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c)})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "client-id-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "client-id-1", w.Header().Get(RequestIDHeader))
}

func setupIdempotentRouter(store RequestIDStore, calls *int32) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	router := gin.New()
	router.Use(RequestIDMiddleware(logger))
	router.Use(IdempotencyMiddleware(store, logger))
	router.Use(StoreResponseMiddleware(store, logger, 5*time.Minute))
	router.POST("/cart/items", func(c *gin.Context) {
		n := atomic.AddInt32(calls, 1)
		c.JSON(http.StatusCreated, gin.H{"applied": n})
	})
	router.POST("/fail", func(c *gin.Context) {
		atomic.AddInt32(calls, 1)
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
	})
	return router
}

func TestIdempotencyMiddleware_ReplaysStoredResponse(t *testing.T) {
	var calls int32
	router := setupIdempotentRouter(NewKVRequestIDStore(kvstore.NewMemoryStore()), &calls)
	requestID := uuid.New().String()

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/cart/items", nil)
		req.Header.Set(RequestIDHeader, requestID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send()
	second := send()

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, `{"applied":1}`, second.Body.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIdempotencyMiddleware_DistinctIDsBothApply(t *testing.T) {
	var calls int32
	router := setupIdempotentRouter(NewKVRequestIDStore(kvstore.NewMemoryStore()), &calls)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/cart/items", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotencyMiddleware_FailuresAreNotStored(t *testing.T) {
	var calls int32
	router := setupIdempotentRouter(NewKVRequestIDStore(kvstore.NewMemoryStore()), &calls)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/fail", nil)
		req.Header.Set(RequestIDHeader, "same")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotencyMiddleware_ReusedIDOnAnotherRoute(t *testing.T) {
	var calls int32
	router := setupIdempotentRouter(NewKVRequestIDStore(kvstore.NewMemoryStore()), &calls)
	router.PUT("/cart", func(c *gin.Context) {
		atomic.AddInt32(&calls, 1)
		c.JSON(http.StatusOK, gin.H{"replaced": true})
	})

	send := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set(RequestIDHeader, "shared-id")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := send("POST", "/cart/items")
	second := send("PUT", "/cart")

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, `{"replaced":true}`, second.Body.String())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

// MockRequestIDStore is a mock implementation of RequestIDStore
type MockRequestIDStore struct {
	mock.Mock
}

func (m *MockRequestIDStore) Store(ctx context.Context, key string, response StoredResponse, ttl time.Duration) error {
	return m.Called(ctx, key, response, ttl).Error(0)
}

func (m *MockRequestIDStore) Get(ctx context.Context, key string) (StoredResponse, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(StoredResponse), args.Error(1)
}

func TestIdempotencyMiddleware_FailsOpen(t *testing.T) {
	store := new(MockRequestIDStore)
	store.On("Get", mock.Anything, "rid:POST:/cart/items").Return(StoredResponse{}, errors.New("redis down"))
	store.On("Store", mock.Anything, "rid:POST:/cart/items", mock.Anything, 5*time.Minute).Return(errors.New("redis down"))

	var calls int32
	router := setupIdempotentRouter(store, &calls)
	req := httptest.NewRequest("POST", "/cart/items", nil)
	req.Header.Set(RequestIDHeader, "rid")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	store.AssertExpectations(t)
}

func TestKVRequestIDStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewKVRequestIDStore(kvstore.NewMemoryStore())

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrRequestIDNotFound)

	require.NoError(t, store.Store(ctx, "rid", StoredResponse{Status: 200, Body: []byte(`{}`)}, 10*time.Millisecond))
	got, err := store.Get(ctx, "rid")
	require.NoError(t, err)
	assert.Equal(t, 200, got.Status)

	time.Sleep(30 * time.Millisecond)
	_, err = store.Get(ctx, "rid")
	assert.ErrorIs(t, err, ErrRequestIDNotFound)
}
