package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartshop/internal/history"
	"smartshop/internal/kvstore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetHistory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := history.NewStore(kvstore.NewMemoryStore(), zap.NewNop())
	require.NoError(t, store.AddQuery(context.Background(), "hat"))
	require.NoError(t, store.AddQuery(context.Background(), "shoes"))

	router := gin.New()
	router.GET("/api/v1/search/history", NewHistoryHandler(store).GetHistory)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/search/history", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"queries":["shoes","hat"]}`, w.Body.String())
}
